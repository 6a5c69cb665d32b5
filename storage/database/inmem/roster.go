package inmemdb

import (
	"sort"

	"github.com/escoladigital/secretaria/core/roster"
)

type rosterRepository struct {
	students  *table[roster.Student]
	guardians *table[roster.Guardian]
}

var _ roster.Repository = (*rosterRepository)(nil)

func NewRosterRepository(db *DB) roster.Repository {
	return &rosterRepository{students: db.students, guardians: db.guardians}
}

func (repo *rosterRepository) CreateStudent(st roster.Student) (roster.Student, error) {
	repo.students.mutex.Lock()
	defer repo.students.mutex.Unlock()

	repo.students.seq++
	st.ID = repo.students.seq
	repo.students.rows[st.ID] = &st
	return st, nil
}

func (repo *rosterRepository) GetStudentByID(id int) (roster.Student, error) {
	repo.students.mutex.RLock()
	defer repo.students.mutex.RUnlock()

	if st, ok := repo.students.rows[id]; ok {
		return *st, nil
	}
	return roster.Student{}, roster.ErrStudentNotFound
}

func (repo *rosterRepository) GetStudentByUserID(userID int) (roster.Student, error) {
	repo.students.mutex.RLock()
	defer repo.students.mutex.RUnlock()

	for _, st := range repo.students.all() {
		if st.UserID.Valid && int(st.UserID.Int64) == userID {
			return st, nil
		}
	}
	return roster.Student{}, roster.ErrStudentNotFound
}

func (repo *rosterRepository) FilterStudents(filter roster.StudentQueryFilter) ([]roster.Student, error) {
	repo.students.mutex.RLock()
	defer repo.students.mutex.RUnlock()

	students := make([]roster.Student, 0)
	for _, st := range repo.students.all() {
		if filter.ClassCode != "" && st.ClassCode != filter.ClassCode {
			continue
		}
		if filter.GuardianID != 0 && (!st.GuardianID.Valid || int(st.GuardianID.Int64) != filter.GuardianID) {
			continue
		}
		if filter.Active != nil && st.Active != *filter.Active {
			continue
		}
		if filter.Search != "" && !matchesSearch(filter.Search, st.Name, st.CPF, st.Email) {
			continue
		}
		students = append(students, st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *rosterRepository) StudentsByClassCodes(codes []string) ([]roster.Student, error) {
	repo.students.mutex.RLock()
	defer repo.students.mutex.RUnlock()

	wanted := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		wanted[c] = struct{}{}
	}

	students := make([]roster.Student, 0)
	for _, st := range repo.students.all() {
		if _, ok := wanted[st.ClassCode]; ok {
			students = append(students, st)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *rosterRepository) UpdateStudent(st roster.Student) (roster.Student, error) {
	repo.students.mutex.Lock()
	defer repo.students.mutex.Unlock()

	if _, ok := repo.students.rows[st.ID]; !ok {
		return roster.Student{}, roster.ErrStudentNotFound
	}
	repo.students.rows[st.ID] = &st
	return st, nil
}

func (repo *rosterRepository) DeleteStudentsByID(ids ...int) error {
	repo.students.mutex.Lock()
	defer repo.students.mutex.Unlock()
	for _, id := range ids {
		delete(repo.students.rows, id)
	}
	return nil
}

func (repo *rosterRepository) CreateGuardian(g roster.Guardian) (roster.Guardian, error) {
	repo.guardians.mutex.Lock()
	defer repo.guardians.mutex.Unlock()

	repo.guardians.seq++
	g.ID = repo.guardians.seq
	repo.guardians.rows[g.ID] = &g
	return g, nil
}

func (repo *rosterRepository) GetGuardianByID(id int) (roster.Guardian, error) {
	repo.guardians.mutex.RLock()
	defer repo.guardians.mutex.RUnlock()

	if g, ok := repo.guardians.rows[id]; ok {
		return *g, nil
	}
	return roster.Guardian{}, roster.ErrGuardianNotFound
}

func (repo *rosterRepository) GetGuardianByUserID(userID int) (roster.Guardian, error) {
	repo.guardians.mutex.RLock()
	defer repo.guardians.mutex.RUnlock()

	for _, g := range repo.guardians.all() {
		if g.UserID.Valid && int(g.UserID.Int64) == userID {
			return g, nil
		}
	}
	return roster.Guardian{}, roster.ErrGuardianNotFound
}

func (repo *rosterRepository) FilterGuardians(filter roster.GuardianQueryFilter) ([]roster.Guardian, error) {
	repo.guardians.mutex.RLock()
	defer repo.guardians.mutex.RUnlock()

	guardians := make([]roster.Guardian, 0)
	for _, g := range repo.guardians.all() {
		if filter.Search != "" && !matchesSearch(filter.Search, g.Name, g.CPF, g.Email) {
			continue
		}
		guardians = append(guardians, g)
	}
	sort.Slice(guardians, func(i, j int) bool { return guardians[i].ID < guardians[j].ID })
	return guardians, nil
}

func (repo *rosterRepository) UpdateGuardian(g roster.Guardian) (roster.Guardian, error) {
	repo.guardians.mutex.Lock()
	defer repo.guardians.mutex.Unlock()

	if _, ok := repo.guardians.rows[g.ID]; !ok {
		return roster.Guardian{}, roster.ErrGuardianNotFound
	}
	repo.guardians.rows[g.ID] = &g
	return g, nil
}

func (repo *rosterRepository) DeleteGuardiansByID(ids ...int) error {
	repo.guardians.mutex.Lock()
	defer repo.guardians.mutex.Unlock()
	for _, id := range ids {
		delete(repo.guardians.rows, id)
	}
	return nil
}
