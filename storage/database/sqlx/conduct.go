package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/conduct"
)

type conductRepository struct {
	db *sqlx.DB
}

var _ conduct.Repository = (*conductRepository)(nil)

func NewConductRepository(db *sql.DB) conduct.Repository {
	return &conductRepository{db: sqlx.NewDb(db, "postgres")}
}

func conductFilterQuery(tbl string, filter conduct.QueryFilter) (string, []interface{}) {
	q := `SELECT * FROM ` + tbl + ` WHERE 1=1`
	var args []interface{}
	if filter.StudentID != 0 {
		q += " AND student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.StudentIDs != nil {
		q += " AND student_id IN (?)"
		args = append(args, filter.StudentIDs)
	}
	q += " ORDER BY id"
	return q, args
}

func (repo *conductRepository) CreateWarning(w conduct.Warning) (conduct.Warning, error) {
	q := `
		INSERT INTO warning (student_id, date, reason, notes)
		VALUES (:student_id, :date, :reason, :notes)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, w)
	if err != nil {
		return conduct.Warning{}, errors.Wrap(err, "creating warning")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&w.ID); err != nil {
			return conduct.Warning{}, errors.Wrap(err, "creating warning")
		}
	}
	return w, rows.Err()
}

func (repo *conductRepository) GetWarningByID(id int) (conduct.Warning, error) {
	var w conduct.Warning
	err := repo.db.Get(&w, `SELECT * FROM warning WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return conduct.Warning{}, conduct.ErrWarningNotFound
	}
	return w, errors.Wrap(err, "getting warning")
}

func (repo *conductRepository) FilterWarnings(filter conduct.QueryFilter) ([]conduct.Warning, error) {
	if filter.StudentIDs != nil && len(filter.StudentIDs) == 0 {
		return []conduct.Warning{}, nil
	}
	q, args := conductFilterQuery("warning", filter)
	q, expanded, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering warnings")
	}
	warnings := make([]conduct.Warning, 0)
	err = repo.db.Select(&warnings, repo.db.Rebind(q), expanded...)
	return warnings, errors.Wrap(err, "filtering warnings")
}

func (repo *conductRepository) UpdateWarning(w conduct.Warning) (conduct.Warning, error) {
	q := `UPDATE warning SET student_id = :student_id, date = :date, reason = :reason, notes = :notes WHERE id = :id`
	res, err := repo.db.NamedExec(q, w)
	if err != nil {
		return conduct.Warning{}, errors.Wrap(err, "updating warning")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return conduct.Warning{}, conduct.ErrWarningNotFound
	}
	return w, nil
}

func (repo *conductRepository) DeleteWarningsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM warning WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting warnings")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting warnings")
}

func (repo *conductRepository) CreateSuspension(s conduct.Suspension) (conduct.Suspension, error) {
	q := `
		INSERT INTO suspension (student_id, start_date, end_date, reason, notes)
		VALUES (:student_id, :start_date, :end_date, :reason, :notes)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, s)
	if err != nil {
		return conduct.Suspension{}, errors.Wrap(err, "creating suspension")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&s.ID); err != nil {
			return conduct.Suspension{}, errors.Wrap(err, "creating suspension")
		}
	}
	return s, rows.Err()
}

func (repo *conductRepository) GetSuspensionByID(id int) (conduct.Suspension, error) {
	var s conduct.Suspension
	err := repo.db.Get(&s, `SELECT * FROM suspension WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return conduct.Suspension{}, conduct.ErrSuspensionNotFound
	}
	return s, errors.Wrap(err, "getting suspension")
}

func (repo *conductRepository) FilterSuspensions(filter conduct.QueryFilter) ([]conduct.Suspension, error) {
	if filter.StudentIDs != nil && len(filter.StudentIDs) == 0 {
		return []conduct.Suspension{}, nil
	}
	q, args := conductFilterQuery("suspension", filter)
	q, expanded, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering suspensions")
	}
	suspensions := make([]conduct.Suspension, 0)
	err = repo.db.Select(&suspensions, repo.db.Rebind(q), expanded...)
	return suspensions, errors.Wrap(err, "filtering suspensions")
}

func (repo *conductRepository) UpdateSuspension(s conduct.Suspension) (conduct.Suspension, error) {
	q := `
		UPDATE suspension
		SET student_id = :student_id, start_date = :start_date, end_date = :end_date,
		    reason = :reason, notes = :notes
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, s)
	if err != nil {
		return conduct.Suspension{}, errors.Wrap(err, "updating suspension")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return conduct.Suspension{}, conduct.ErrSuspensionNotFound
	}
	return s, nil
}

func (repo *conductRepository) DeleteSuspensionsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM suspension WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting suspensions")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting suspensions")
}
