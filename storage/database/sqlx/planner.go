package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/planner"
)

type plannerRepository struct {
	db *sqlx.DB
}

var _ planner.Repository = (*plannerRepository)(nil)

func NewPlannerRepository(db *sql.DB) planner.Repository {
	return &plannerRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *plannerRepository) CreatePlan(p planner.WeeklyPlan) (planner.WeeklyPlan, error) {
	q := `
		INSERT INTO weekly_plan (teacher_id, class_code, discipline, lesson_date, shift, content, activities, resources, notes)
		VALUES (:teacher_id, :class_code, :discipline, :lesson_date, :shift, :content, :activities, :resources, :notes)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, p)
	if err != nil {
		return planner.WeeklyPlan{}, errors.Wrap(err, "creating plan")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&p.ID); err != nil {
			return planner.WeeklyPlan{}, errors.Wrap(err, "creating plan")
		}
	}
	return p, rows.Err()
}

func (repo *plannerRepository) GetPlanByID(id int) (planner.WeeklyPlan, error) {
	var p planner.WeeklyPlan
	err := repo.db.Get(&p, `SELECT * FROM weekly_plan WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return planner.WeeklyPlan{}, planner.ErrPlanNotFound
	}
	return p, errors.Wrap(err, "getting plan")
}

func (repo *plannerRepository) FilterPlans(filter planner.QueryFilter) ([]planner.WeeklyPlan, error) {
	q := `SELECT * FROM weekly_plan WHERE 1=1`
	var args []interface{}
	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		q += fmt.Sprintf(" AND teacher_id = $%d", len(args))
	}
	if filter.ClassCode != "" {
		args = append(args, filter.ClassCode)
		q += fmt.Sprintf(" AND class_code = $%d", len(args))
	}
	if filter.Discipline != "" {
		args = append(args, filter.Discipline)
		q += fmt.Sprintf(" AND discipline = $%d", len(args))
	}
	q += " ORDER BY id"

	plans := make([]planner.WeeklyPlan, 0)
	err := repo.db.Select(&plans, q, args...)
	return plans, errors.Wrap(err, "filtering plans")
}

func (repo *plannerRepository) UpdatePlan(p planner.WeeklyPlan) (planner.WeeklyPlan, error) {
	q := `
		UPDATE weekly_plan
		SET teacher_id = :teacher_id, class_code = :class_code, discipline = :discipline,
		    lesson_date = :lesson_date, shift = :shift, content = :content,
		    activities = :activities, resources = :resources, notes = :notes
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, p)
	if err != nil {
		return planner.WeeklyPlan{}, errors.Wrap(err, "updating plan")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return planner.WeeklyPlan{}, planner.ErrPlanNotFound
	}
	return p, nil
}

func (repo *plannerRepository) DeletePlansByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM weekly_plan WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting plans")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting plans")
}
