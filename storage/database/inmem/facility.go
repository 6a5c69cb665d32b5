package inmemdb

import (
	"sort"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/facility"
)

type facilityRepository struct {
	rooms        *table[facility.Room]
	reservations *table[facility.Reservation]
}

var _ facility.Repository = (*facilityRepository)(nil)

func NewFacilityRepository(db *DB) facility.Repository {
	return &facilityRepository{rooms: db.rooms, reservations: db.reservations}
}

func (repo *facilityRepository) CreateRoom(r facility.Room) (facility.Room, error) {
	repo.rooms.mutex.Lock()
	defer repo.rooms.mutex.Unlock()

	repo.rooms.seq++
	r.ID = repo.rooms.seq
	repo.rooms.rows[r.ID] = &r
	return r, nil
}

func (repo *facilityRepository) GetRoomByID(id int) (facility.Room, error) {
	repo.rooms.mutex.RLock()
	defer repo.rooms.mutex.RUnlock()

	if r, ok := repo.rooms.rows[id]; ok {
		return *r, nil
	}
	return facility.Room{}, facility.ErrRoomNotFound
}

func (repo *facilityRepository) FilterRooms() ([]facility.Room, error) {
	repo.rooms.mutex.RLock()
	defer repo.rooms.mutex.RUnlock()

	rooms := repo.rooms.all()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (repo *facilityRepository) UpdateRoom(r facility.Room) (facility.Room, error) {
	repo.rooms.mutex.Lock()
	defer repo.rooms.mutex.Unlock()

	if _, ok := repo.rooms.rows[r.ID]; !ok {
		return facility.Room{}, facility.ErrRoomNotFound
	}
	repo.rooms.rows[r.ID] = &r
	return r, nil
}

func (repo *facilityRepository) DeleteRoomsByID(ids ...int) error {
	repo.rooms.mutex.Lock()
	defer repo.rooms.mutex.Unlock()
	for _, id := range ids {
		delete(repo.rooms.rows, id)
	}
	return nil
}

func (repo *facilityRepository) CreateReservation(r facility.Reservation) (facility.Reservation, error) {
	repo.reservations.mutex.Lock()
	defer repo.reservations.mutex.Unlock()

	repo.reservations.seq++
	r.ID = repo.reservations.seq
	repo.reservations.rows[r.ID] = &r
	return r, nil
}

func (repo *facilityRepository) GetReservationByID(id int) (facility.Reservation, error) {
	repo.reservations.mutex.RLock()
	defer repo.reservations.mutex.RUnlock()

	if r, ok := repo.reservations.rows[id]; ok {
		return *r, nil
	}
	return facility.Reservation{}, facility.ErrReservationNotFound
}

func (repo *facilityRepository) FilterReservations(filter facility.ReservationQueryFilter) ([]facility.Reservation, error) {
	repo.reservations.mutex.RLock()
	defer repo.reservations.mutex.RUnlock()

	reservations := make([]facility.Reservation, 0)
	for _, r := range repo.reservations.all() {
		if filter.TeacherID != 0 && r.TeacherID != filter.TeacherID {
			continue
		}
		if filter.RoomID != 0 && r.RoomID != filter.RoomID {
			continue
		}
		if filter.Date != nil && !r.Date.Equal(filter.Date.Time) {
			continue
		}
		if filter.DateFrom != nil && r.Date.Before(*filter.DateFrom) {
			continue
		}
		reservations = append(reservations, r)
	}
	sort.Slice(reservations, func(i, j int) bool { return reservations[i].ID < reservations[j].ID })
	return reservations, nil
}

func (repo *facilityRepository) ReservationsForRoomDate(roomID int, date core.Date, excludeID int) ([]facility.Reservation, error) {
	repo.reservations.mutex.RLock()
	defer repo.reservations.mutex.RUnlock()

	reservations := make([]facility.Reservation, 0)
	for _, r := range repo.reservations.all() {
		if r.RoomID != roomID || r.ID == excludeID {
			continue
		}
		if !r.Date.Equal(date.Time) {
			continue
		}
		reservations = append(reservations, r)
	}
	sort.Slice(reservations, func(i, j int) bool { return reservations[i].StartTime < reservations[j].StartTime })
	return reservations, nil
}

func (repo *facilityRepository) ActiveReservationCount(teacherID int, from core.Date, excludeID int) (int, error) {
	repo.reservations.mutex.RLock()
	defer repo.reservations.mutex.RUnlock()

	var count int
	for _, r := range repo.reservations.all() {
		if r.TeacherID != teacherID || r.ID == excludeID {
			continue
		}
		if r.Date.Before(from) {
			continue
		}
		count++
	}
	return count, nil
}

func (repo *facilityRepository) UpdateReservation(r facility.Reservation) (facility.Reservation, error) {
	repo.reservations.mutex.Lock()
	defer repo.reservations.mutex.Unlock()

	if _, ok := repo.reservations.rows[r.ID]; !ok {
		return facility.Reservation{}, facility.ErrReservationNotFound
	}
	repo.reservations.rows[r.ID] = &r
	return r, nil
}

func (repo *facilityRepository) DeleteReservationsByID(ids ...int) error {
	repo.reservations.mutex.Lock()
	defer repo.reservations.mutex.Unlock()
	for _, id := range ids {
		delete(repo.reservations.rows, id)
	}
	return nil
}
