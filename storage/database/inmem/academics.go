package inmemdb

import (
	"sort"
	"time"

	"github.com/escoladigital/secretaria/core/academics"
)

type academicsRepository struct {
	terms  *table[academics.Term]
	grades *table[academics.Grade]
	tasks  *table[academics.PendingTask]
}

var _ academics.Repository = (*academicsRepository)(nil)

func NewAcademicsRepository(db *DB) academics.Repository {
	return &academicsRepository{terms: db.terms, grades: db.grades, tasks: db.tasks}
}

func (repo *academicsRepository) CreateTerm(t academics.Term) (academics.Term, error) {
	repo.terms.mutex.Lock()
	defer repo.terms.mutex.Unlock()

	repo.terms.seq++
	t.ID = repo.terms.seq
	repo.terms.rows[t.ID] = &t
	return t, nil
}

func (repo *academicsRepository) GetTermByID(id int) (academics.Term, error) {
	repo.terms.mutex.RLock()
	defer repo.terms.mutex.RUnlock()

	if t, ok := repo.terms.rows[id]; ok {
		return *t, nil
	}
	return academics.Term{}, academics.ErrTermNotFound
}

func (repo *academicsRepository) FilterTerms() ([]academics.Term, error) {
	repo.terms.mutex.RLock()
	defer repo.terms.mutex.RUnlock()

	terms := repo.terms.all()
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Year != terms[j].Year {
			return terms[i].Year < terms[j].Year
		}
		return terms[i].Number < terms[j].Number
	})
	return terms, nil
}

func (repo *academicsRepository) DeleteTermsByID(ids ...int) error {
	repo.terms.mutex.Lock()
	defer repo.terms.mutex.Unlock()
	for _, id := range ids {
		delete(repo.terms.rows, id)
	}
	return nil
}

func (repo *academicsRepository) CreateGrade(g academics.Grade) (academics.Grade, error) {
	repo.grades.mutex.Lock()
	defer repo.grades.mutex.Unlock()

	repo.grades.seq++
	g.ID = repo.grades.seq
	repo.grades.rows[g.ID] = &g
	return g, nil
}

func (repo *academicsRepository) GetGradeByID(id int) (academics.Grade, error) {
	repo.grades.mutex.RLock()
	defer repo.grades.mutex.RUnlock()

	if g, ok := repo.grades.rows[id]; ok {
		return *g, nil
	}
	return academics.Grade{}, academics.ErrGradeNotFound
}

func (repo *academicsRepository) GetGradeByKey(studentID, termID int, discipline string) (academics.Grade, error) {
	repo.grades.mutex.RLock()
	defer repo.grades.mutex.RUnlock()

	for _, g := range repo.grades.all() {
		if g.StudentID == studentID && g.TermID == termID && g.Discipline == discipline {
			return g, nil
		}
	}
	return academics.Grade{}, academics.ErrGradeNotFound
}

func (repo *academicsRepository) FilterGrades(filter academics.GradeQueryFilter) ([]academics.Grade, error) {
	repo.grades.mutex.RLock()
	defer repo.grades.mutex.RUnlock()

	allowed := scopeAllowed(filter.StudentIDs)
	grades := make([]academics.Grade, 0)
	for _, g := range repo.grades.all() {
		if filter.StudentID != 0 && g.StudentID != filter.StudentID {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[g.StudentID]; !ok {
				continue
			}
		}
		if filter.TermID != 0 && g.TermID != filter.TermID {
			continue
		}
		if filter.Discipline != "" && g.Discipline != filter.Discipline {
			continue
		}
		grades = append(grades, g)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].ID < grades[j].ID })
	return grades, nil
}

func (repo *academicsRepository) UpdateGrade(g academics.Grade) (academics.Grade, error) {
	repo.grades.mutex.Lock()
	defer repo.grades.mutex.Unlock()

	if _, ok := repo.grades.rows[g.ID]; !ok {
		return academics.Grade{}, academics.ErrGradeNotFound
	}
	repo.grades.rows[g.ID] = &g
	return g, nil
}

func (repo *academicsRepository) DeleteGradesByID(ids ...int) error {
	repo.grades.mutex.Lock()
	defer repo.grades.mutex.Unlock()
	for _, id := range ids {
		delete(repo.grades.rows, id)
	}
	return nil
}

func (repo *academicsRepository) CreateTask(t academics.PendingTask) (academics.PendingTask, error) {
	repo.tasks.mutex.Lock()
	defer repo.tasks.mutex.Unlock()

	repo.tasks.seq++
	t.ID = repo.tasks.seq
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	repo.tasks.rows[t.ID] = &t
	return t, nil
}

func (repo *academicsRepository) GetTaskByID(id int) (academics.PendingTask, error) {
	repo.tasks.mutex.RLock()
	defer repo.tasks.mutex.RUnlock()

	if t, ok := repo.tasks.rows[id]; ok {
		return *t, nil
	}
	return academics.PendingTask{}, academics.ErrTaskNotFound
}

func (repo *academicsRepository) FilterTasks(filter academics.TaskQueryFilter) ([]academics.PendingTask, error) {
	repo.tasks.mutex.RLock()
	defer repo.tasks.mutex.RUnlock()

	allowed := scopeAllowed(filter.StudentIDs)
	tasks := make([]academics.PendingTask, 0)
	for _, t := range repo.tasks.all() {
		if filter.StudentID != 0 && t.StudentID != filter.StudentID {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[t.StudentID]; !ok {
				continue
			}
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (repo *academicsRepository) UpdateTask(t academics.PendingTask) (academics.PendingTask, error) {
	repo.tasks.mutex.Lock()
	defer repo.tasks.mutex.Unlock()

	if _, ok := repo.tasks.rows[t.ID]; !ok {
		return academics.PendingTask{}, academics.ErrTaskNotFound
	}
	repo.tasks.rows[t.ID] = &t
	return t, nil
}

func (repo *academicsRepository) DeleteTasksByID(ids ...int) error {
	repo.tasks.mutex.Lock()
	defer repo.tasks.mutex.Unlock()
	for _, id := range ids {
		delete(repo.tasks.rows, id)
	}
	return nil
}
