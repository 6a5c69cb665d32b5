package facility

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/staff"
)

var (
	ErrRoomNotFound        = errors.New("sala not found")
	ErrReservationNotFound = errors.New("reserva not found")

	errEndBeforeStart = "O horário de término deve ser posterior ao horário de início."
	errTeacherLimit   = "Limite atingido: Professores só podem ter 1 reserva ativa (futura) por vez."
)

type (
	Repository interface {
		CreateRoom(r Room) (Room, error)
		GetRoomByID(id int) (Room, error)
		FilterRooms() ([]Room, error)
		UpdateRoom(r Room) (Room, error)
		DeleteRoomsByID(ids ...int) error

		CreateReservation(r Reservation) (Reservation, error)
		GetReservationByID(id int) (Reservation, error)
		FilterReservations(filter ReservationQueryFilter) ([]Reservation, error)
		// ReservationsForRoomDate lists reservations on a sala for a day,
		// optionally excluding one (the instance being updated).
		ReservationsForRoomDate(roomID int, date core.Date, excludeID int) ([]Reservation, error)
		// ActiveReservationCount counts a teacher's reservations dated today
		// or later, optionally excluding one.
		ActiveReservationCount(teacherID int, from core.Date, excludeID int) (int, error)
		UpdateReservation(r Reservation) (Reservation, error)
		DeleteReservationsByID(ids ...int) error
	}

	Service struct {
		repo     Repository
		staffSvc *staff.Service
	}
)

func NewService(repo Repository, staffSvc *staff.Service) *Service {
	return &Service{repo: repo, staffSvc: staffSvc}
}

func (svc *Service) CreateRoom(nr NewRoom) (Room, error) {
	r := Room{
		Name:      nr.Name,
		Type:      nr.Type,
		Capacity:  nr.Capacity,
		Resources: nr.Resources,
	}
	r, err := svc.repo.CreateRoom(r)
	if err != nil {
		return Room{}, err
	}
	return withRoomLabel(r), nil
}

func (svc *Service) GetRoom(id int) (Room, error) {
	r, err := svc.repo.GetRoomByID(id)
	if err != nil {
		return Room{}, err
	}
	return withRoomLabel(r), nil
}

func (svc *Service) FilterRooms() ([]Room, error) {
	rooms, err := svc.repo.FilterRooms()
	if err != nil {
		return nil, err
	}
	for i, r := range rooms {
		rooms[i] = withRoomLabel(r)
	}
	return rooms, nil
}

func (svc *Service) UpdateRoom(id int, ur UpdateRoom) (Room, error) {
	r, err := svc.repo.GetRoomByID(id)
	if err != nil {
		return Room{}, err
	}
	if err = ur.Validate(r); err != nil {
		return Room{}, err
	}
	r.Name = ur.Name
	r.Type = ur.Type
	r.Capacity = ur.Capacity
	r.Resources = ur.Resources
	r, err = svc.repo.UpdateRoom(r)
	if err != nil {
		return Room{}, err
	}
	return withRoomLabel(r), nil
}

func (svc *Service) DeleteRooms(ids ...int) error {
	return svc.repo.DeleteRoomsByID(ids...)
}

// CreateReservation books a sala after the ordering, overlap and
// per-teacher limit rules pass. enforceLimit is set when the caller is a
// Professor booking for themselves; Secretaria bookings skip the limit.
func (svc *Service) CreateReservation(nr NewReservation, enforceLimit bool) (Reservation, error) {
	r := Reservation{
		TeacherID: nr.TeacherID,
		RoomID:    nr.RoomID,
		Date:      nr.Date,
		StartTime: nr.StartTime,
		EndTime:   nr.EndTime,
	}
	if err := svc.checkReservation(r, enforceLimit); err != nil {
		return Reservation{}, err
	}
	r, err := svc.repo.CreateReservation(r)
	if err != nil {
		return Reservation{}, err
	}
	return svc.withNames(r)
}

func (svc *Service) GetReservation(id int) (Reservation, error) {
	r, err := svc.repo.GetReservationByID(id)
	if err != nil {
		return Reservation{}, err
	}
	return svc.withNames(r)
}

func (svc *Service) FilterReservations(filter ReservationQueryFilter) ([]Reservation, error) {
	reservations, err := svc.repo.FilterReservations(filter)
	if err != nil {
		return nil, err
	}
	for i, r := range reservations {
		named, err := svc.withNames(r)
		if err != nil {
			return nil, err
		}
		reservations[i] = named
	}
	return reservations, nil
}

func (svc *Service) UpdateReservation(id int, ur UpdateReservation, enforceLimit bool) (Reservation, error) {
	r, err := svc.repo.GetReservationByID(id)
	if err != nil {
		return Reservation{}, err
	}
	if err = ur.Validate(r); err != nil {
		return Reservation{}, err
	}
	r.RoomID = ur.RoomID
	r.Date = ur.Date
	r.StartTime = ur.StartTime
	r.EndTime = ur.EndTime
	if err = svc.checkReservation(r, enforceLimit); err != nil {
		return Reservation{}, err
	}
	r, err = svc.repo.UpdateReservation(r)
	if err != nil {
		return Reservation{}, err
	}
	return svc.withNames(r)
}

func (svc *Service) DeleteReservations(ids ...int) error {
	return svc.repo.DeleteReservationsByID(ids...)
}

func (svc *Service) checkReservation(r Reservation, enforceLimit bool) error {
	if r.StartTime >= r.EndTime {
		return core.NewValidationError(
			errors.New(errEndBeforeStart),
			core.FieldError{Field: "horario_fim", Error: errEndBeforeStart},
		)
	}

	room, err := svc.repo.GetRoomByID(r.RoomID)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "sala", Error: ErrRoomNotFound.Error()})
	}

	existing, err := svc.repo.ReservationsForRoomDate(r.RoomID, r.Date, r.ID)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.StartTime < r.EndTime && other.EndTime > r.StartTime {
			msg := fmt.Sprintf(
				"Conflito de horário: A sala %s já está reservada das %s às %s.",
				room.Name, other.StartTime, other.EndTime,
			)
			return core.NewValidationError(errors.New(msg))
		}
	}

	if enforceLimit {
		count, err := svc.repo.ActiveReservationCount(r.TeacherID, core.Today(), r.ID)
		if err != nil {
			return err
		}
		if count >= 1 {
			return core.NewValidationError(errors.New(errTeacherLimit))
		}
	}
	return nil
}

func (svc *Service) withNames(r Reservation) (Reservation, error) {
	room, err := svc.repo.GetRoomByID(r.RoomID)
	if err == nil {
		r.RoomName = room.Name
	} else if err != ErrRoomNotFound {
		return Reservation{}, err
	}
	t, err := svc.staffSvc.Get(r.TeacherID)
	if err == nil {
		r.TeacherName = t.Name
	} else if err != staff.ErrTeacherNotFound {
		return Reservation{}, err
	}
	return r, nil
}

func withRoomLabel(r Room) Room {
	r.TypeLabel = RoomTypeLabel(r.Type)
	return r
}
