package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/calendar"
)

type calendarRepository struct {
	db *sqlx.DB
}

var _ calendar.Repository = (*calendarRepository)(nil)

func NewCalendarRepository(db *sql.DB) calendar.Repository {
	return &calendarRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *calendarRepository) CreateEvent(e calendar.Event) (calendar.Event, error) {
	q := `
		INSERT INTO calendar_event (title, description, date, type)
		VALUES (:title, :description, :date, :type)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, e)
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "creating event")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&e.ID); err != nil {
			return calendar.Event{}, errors.Wrap(err, "creating event")
		}
	}
	return e, rows.Err()
}

func (repo *calendarRepository) GetEventByID(id int) (calendar.Event, error) {
	var e calendar.Event
	err := repo.db.Get(&e, `SELECT * FROM calendar_event WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return calendar.Event{}, calendar.ErrEventNotFound
	}
	return e, errors.Wrap(err, "getting event")
}

func (repo *calendarRepository) FilterEvents(filter calendar.QueryFilter) ([]calendar.Event, error) {
	q := `SELECT * FROM calendar_event WHERE 1=1`
	var args []interface{}
	if filter.Type != "" {
		args = append(args, filter.Type)
		q += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		q += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		q += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	q += " ORDER BY date, id"

	events := make([]calendar.Event, 0)
	err := repo.db.Select(&events, q, args...)
	return events, errors.Wrap(err, "filtering events")
}

func (repo *calendarRepository) UpdateEvent(e calendar.Event) (calendar.Event, error) {
	q := `UPDATE calendar_event SET title = :title, description = :description, date = :date, type = :type WHERE id = :id`
	res, err := repo.db.NamedExec(q, e)
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "updating event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return calendar.Event{}, calendar.ErrEventNotFound
	}
	return e, nil
}

func (repo *calendarRepository) DeleteEventsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM calendar_event WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting events")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting events")
}
