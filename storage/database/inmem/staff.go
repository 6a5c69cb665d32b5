package inmemdb

import (
	"sort"

	"github.com/escoladigital/secretaria/core/staff"
)

type staffRepository struct {
	teachers *table[staff.Teacher]
}

var _ staff.Repository = (*staffRepository)(nil)

func NewStaffRepository(db *DB) staff.Repository {
	return &staffRepository{teachers: db.teachers}
}

func (repo *staffRepository) CreateTeacher(t staff.Teacher) (staff.Teacher, error) {
	repo.teachers.mutex.Lock()
	defer repo.teachers.mutex.Unlock()

	repo.teachers.seq++
	t.ID = repo.teachers.seq
	repo.teachers.rows[t.ID] = &t
	return t, nil
}

func (repo *staffRepository) GetTeacherByID(id int) (staff.Teacher, error) {
	repo.teachers.mutex.RLock()
	defer repo.teachers.mutex.RUnlock()

	if t, ok := repo.teachers.rows[id]; ok {
		return *t, nil
	}
	return staff.Teacher{}, staff.ErrTeacherNotFound
}

func (repo *staffRepository) GetTeacherByUserID(userID int) (staff.Teacher, error) {
	repo.teachers.mutex.RLock()
	defer repo.teachers.mutex.RUnlock()

	for _, t := range repo.teachers.all() {
		if t.UserID.Valid && int(t.UserID.Int64) == userID {
			return t, nil
		}
	}
	return staff.Teacher{}, staff.ErrTeacherNotFound
}

func (repo *staffRepository) GetTeacherByRegistration(registration string) (staff.Teacher, error) {
	repo.teachers.mutex.RLock()
	defer repo.teachers.mutex.RUnlock()

	for _, t := range repo.teachers.all() {
		if t.Registration == registration {
			return t, nil
		}
	}
	return staff.Teacher{}, staff.ErrTeacherNotFound
}

func (repo *staffRepository) FilterTeachers(filter staff.QueryFilter) ([]staff.Teacher, error) {
	repo.teachers.mutex.RLock()
	defer repo.teachers.mutex.RUnlock()

	teachers := make([]staff.Teacher, 0)
	for _, t := range repo.teachers.all() {
		if filter.Discipline != "" && t.Discipline != filter.Discipline {
			continue
		}
		if filter.Search != "" && !matchesSearch(filter.Search, t.Name, t.CPF, t.Email, t.Registration) {
			continue
		}
		teachers = append(teachers, t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers, nil
}

func (repo *staffRepository) UpdateTeacher(t staff.Teacher) (staff.Teacher, error) {
	repo.teachers.mutex.Lock()
	defer repo.teachers.mutex.Unlock()

	if _, ok := repo.teachers.rows[t.ID]; !ok {
		return staff.Teacher{}, staff.ErrTeacherNotFound
	}
	repo.teachers.rows[t.ID] = &t
	return t, nil
}

func (repo *staffRepository) DeleteTeachersByID(ids ...int) error {
	repo.teachers.mutex.Lock()
	defer repo.teachers.mutex.Unlock()
	for _, id := range ids {
		delete(repo.teachers.rows, id)
	}
	return nil
}
