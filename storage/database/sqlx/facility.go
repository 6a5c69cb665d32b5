package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/facility"
)

type facilityRepository struct {
	db *sqlx.DB
}

var _ facility.Repository = (*facilityRepository)(nil)

func NewFacilityRepository(db *sql.DB) facility.Repository {
	return &facilityRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *facilityRepository) CreateRoom(r facility.Room) (facility.Room, error) {
	q := `
		INSERT INTO room (name, type, capacity, resources)
		VALUES (:name, :type, :capacity, :resources)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, r)
	if err != nil {
		return facility.Room{}, errors.Wrap(err, "creating room")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&r.ID); err != nil {
			return facility.Room{}, errors.Wrap(err, "creating room")
		}
	}
	return r, rows.Err()
}

func (repo *facilityRepository) GetRoomByID(id int) (facility.Room, error) {
	var r facility.Room
	err := repo.db.Get(&r, `SELECT * FROM room WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return facility.Room{}, facility.ErrRoomNotFound
	}
	return r, errors.Wrap(err, "getting room")
}

func (repo *facilityRepository) FilterRooms() ([]facility.Room, error) {
	rooms := make([]facility.Room, 0)
	err := repo.db.Select(&rooms, `SELECT * FROM room ORDER BY id`)
	return rooms, errors.Wrap(err, "filtering rooms")
}

func (repo *facilityRepository) UpdateRoom(r facility.Room) (facility.Room, error) {
	q := `UPDATE room SET name = :name, type = :type, capacity = :capacity, resources = :resources WHERE id = :id`
	res, err := repo.db.NamedExec(q, r)
	if err != nil {
		return facility.Room{}, errors.Wrap(err, "updating room")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return facility.Room{}, facility.ErrRoomNotFound
	}
	return r, nil
}

func (repo *facilityRepository) DeleteRoomsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM room WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting rooms")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting rooms")
}

func (repo *facilityRepository) CreateReservation(r facility.Reservation) (facility.Reservation, error) {
	q := `
		INSERT INTO reservation (teacher_id, room_id, date, start_time, end_time)
		VALUES (:teacher_id, :room_id, :date, :start_time, :end_time)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, r)
	if err != nil {
		return facility.Reservation{}, errors.Wrap(err, "creating reservation")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&r.ID); err != nil {
			return facility.Reservation{}, errors.Wrap(err, "creating reservation")
		}
	}
	return r, rows.Err()
}

func (repo *facilityRepository) GetReservationByID(id int) (facility.Reservation, error) {
	var r facility.Reservation
	err := repo.db.Get(&r, `SELECT * FROM reservation WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return facility.Reservation{}, facility.ErrReservationNotFound
	}
	return r, errors.Wrap(err, "getting reservation")
}

func (repo *facilityRepository) FilterReservations(filter facility.ReservationQueryFilter) ([]facility.Reservation, error) {
	q := `SELECT * FROM reservation WHERE 1=1`
	var args []interface{}
	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		q += fmt.Sprintf(" AND teacher_id = $%d", len(args))
	}
	if filter.RoomID != 0 {
		args = append(args, filter.RoomID)
		q += fmt.Sprintf(" AND room_id = $%d", len(args))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		q += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		q += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	q += " ORDER BY id"

	reservations := make([]facility.Reservation, 0)
	err := repo.db.Select(&reservations, q, args...)
	return reservations, errors.Wrap(err, "filtering reservations")
}

func (repo *facilityRepository) ReservationsForRoomDate(roomID int, date core.Date, excludeID int) ([]facility.Reservation, error) {
	q := `SELECT * FROM reservation WHERE room_id = $1 AND date = $2 AND id <> $3 ORDER BY start_time`
	reservations := make([]facility.Reservation, 0)
	err := repo.db.Select(&reservations, q, roomID, date, excludeID)
	return reservations, errors.Wrap(err, "listing room reservations")
}

func (repo *facilityRepository) ActiveReservationCount(teacherID int, from core.Date, excludeID int) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM reservation WHERE teacher_id = $1 AND date >= $2 AND id <> $3`
	err := repo.db.Get(&count, q, teacherID, from, excludeID)
	return count, errors.Wrap(err, "counting active reservations")
}

func (repo *facilityRepository) UpdateReservation(r facility.Reservation) (facility.Reservation, error) {
	q := `
		UPDATE reservation
		SET teacher_id = :teacher_id, room_id = :room_id, date = :date,
		    start_time = :start_time, end_time = :end_time
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, r)
	if err != nil {
		return facility.Reservation{}, errors.Wrap(err, "updating reservation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return facility.Reservation{}, facility.ErrReservationNotFound
	}
	return r, nil
}

func (repo *facilityRepository) DeleteReservationsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM reservation WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting reservations")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting reservations")
}
