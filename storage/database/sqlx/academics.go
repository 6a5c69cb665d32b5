package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/academics"
)

type academicsRepository struct {
	db *sqlx.DB
}

var _ academics.Repository = (*academicsRepository)(nil)

func NewAcademicsRepository(db *sql.DB) academics.Repository {
	return &academicsRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *academicsRepository) CreateTerm(t academics.Term) (academics.Term, error) {
	q := `INSERT INTO term (number, year) VALUES (:number, :year) RETURNING id`
	rows, err := repo.db.NamedQuery(q, t)
	if err != nil {
		return academics.Term{}, errors.Wrap(err, "creating term")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&t.ID); err != nil {
			return academics.Term{}, errors.Wrap(err, "creating term")
		}
	}
	return t, rows.Err()
}

func (repo *academicsRepository) GetTermByID(id int) (academics.Term, error) {
	var t academics.Term
	err := repo.db.Get(&t, `SELECT * FROM term WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return academics.Term{}, academics.ErrTermNotFound
	}
	return t, errors.Wrap(err, "getting term")
}

func (repo *academicsRepository) FilterTerms() ([]academics.Term, error) {
	terms := make([]academics.Term, 0)
	err := repo.db.Select(&terms, `SELECT * FROM term ORDER BY year, number`)
	return terms, errors.Wrap(err, "filtering terms")
}

func (repo *academicsRepository) DeleteTermsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM term WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting terms")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting terms")
}

func (repo *academicsRepository) CreateGrade(g academics.Grade) (academics.Grade, error) {
	q := `
		INSERT INTO grade (student_id, term_id, discipline, value)
		VALUES (:student_id, :term_id, :discipline, :value)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, g)
	if err != nil {
		return academics.Grade{}, errors.Wrap(err, "creating grade")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&g.ID); err != nil {
			return academics.Grade{}, errors.Wrap(err, "creating grade")
		}
	}
	return g, rows.Err()
}

func (repo *academicsRepository) GetGradeByID(id int) (academics.Grade, error) {
	var g academics.Grade
	err := repo.db.Get(&g, `SELECT * FROM grade WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return academics.Grade{}, academics.ErrGradeNotFound
	}
	return g, errors.Wrap(err, "getting grade")
}

func (repo *academicsRepository) GetGradeByKey(studentID, termID int, discipline string) (academics.Grade, error) {
	var g academics.Grade
	q := `SELECT * FROM grade WHERE student_id = $1 AND term_id = $2 AND discipline = $3`
	err := repo.db.Get(&g, q, studentID, termID, discipline)
	if err == sql.ErrNoRows {
		return academics.Grade{}, academics.ErrGradeNotFound
	}
	return g, errors.Wrap(err, "getting grade")
}

func (repo *academicsRepository) FilterGrades(filter academics.GradeQueryFilter) ([]academics.Grade, error) {
	if filter.StudentIDs != nil && len(filter.StudentIDs) == 0 {
		return []academics.Grade{}, nil
	}

	q := `SELECT * FROM grade WHERE 1=1`
	var args []interface{}
	if filter.StudentID != 0 {
		q += " AND student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.StudentIDs != nil {
		q += " AND student_id IN (?)"
		args = append(args, filter.StudentIDs)
	}
	if filter.TermID != 0 {
		q += " AND term_id = ?"
		args = append(args, filter.TermID)
	}
	if filter.Discipline != "" {
		q += " AND discipline = ?"
		args = append(args, filter.Discipline)
	}
	q += " ORDER BY id"

	q, expanded, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering grades")
	}
	grades := make([]academics.Grade, 0)
	err = repo.db.Select(&grades, repo.db.Rebind(q), expanded...)
	return grades, errors.Wrap(err, "filtering grades")
}

func (repo *academicsRepository) UpdateGrade(g academics.Grade) (academics.Grade, error) {
	q := `
		UPDATE grade
		SET student_id = :student_id, term_id = :term_id, discipline = :discipline, value = :value
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, g)
	if err != nil {
		return academics.Grade{}, errors.Wrap(err, "updating grade")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.Grade{}, academics.ErrGradeNotFound
	}
	return g, nil
}

func (repo *academicsRepository) DeleteGradesByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM grade WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting grades")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting grades")
}

func (repo *academicsRepository) CreateTask(t academics.PendingTask) (academics.PendingTask, error) {
	q := `
		INSERT INTO pending_task (student_id, title, description, deadline, status, created_at)
		VALUES (:student_id, :title, :description, :deadline, :status, now())
		RETURNING id, created_at`
	rows, err := repo.db.NamedQuery(q, t)
	if err != nil {
		return academics.PendingTask{}, errors.Wrap(err, "creating task")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&t.ID, &t.CreatedAt); err != nil {
			return academics.PendingTask{}, errors.Wrap(err, "creating task")
		}
	}
	return t, rows.Err()
}

func (repo *academicsRepository) GetTaskByID(id int) (academics.PendingTask, error) {
	var t academics.PendingTask
	err := repo.db.Get(&t, `SELECT * FROM pending_task WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return academics.PendingTask{}, academics.ErrTaskNotFound
	}
	return t, errors.Wrap(err, "getting task")
}

func (repo *academicsRepository) FilterTasks(filter academics.TaskQueryFilter) ([]academics.PendingTask, error) {
	if filter.StudentIDs != nil && len(filter.StudentIDs) == 0 {
		return []academics.PendingTask{}, nil
	}

	q := `SELECT * FROM pending_task WHERE 1=1`
	var args []interface{}
	if filter.StudentID != 0 {
		q += " AND student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.StudentIDs != nil {
		q += " AND student_id IN (?)"
		args = append(args, filter.StudentIDs)
	}
	if filter.Status != "" {
		q += " AND status = ?"
		args = append(args, filter.Status)
	}
	q += " ORDER BY id"

	q, expanded, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering tasks")
	}
	tasks := make([]academics.PendingTask, 0)
	err = repo.db.Select(&tasks, repo.db.Rebind(q), expanded...)
	return tasks, errors.Wrap(err, "filtering tasks")
}

func (repo *academicsRepository) UpdateTask(t academics.PendingTask) (academics.PendingTask, error) {
	q := `
		UPDATE pending_task
		SET student_id = :student_id, title = :title, description = :description,
		    deadline = :deadline, status = :status
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, t)
	if err != nil {
		return academics.PendingTask{}, errors.Wrap(err, "updating task")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.PendingTask{}, academics.ErrTaskNotFound
	}
	return t, nil
}

func (repo *academicsRepository) DeleteTasksByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM pending_task WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting tasks")
}
