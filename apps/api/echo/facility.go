package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/facility"
	"github.com/escoladigital/secretaria/core/staff"
)

func (s *server) registerFacilityAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	sg := g.Group("/salas", jwt)
	sg.GET("", s.queryRooms, can(authz.ActionView, authz.ResourceRoom))
	sg.POST("", s.createRoom, can(authz.ActionCreate, authz.ResourceRoom))
	sg.DELETE("", s.destroyRooms, can(authz.ActionDelete, authz.ResourceRoom))
	sg.GET("/:id", s.retrieveRoom, can(authz.ActionView, authz.ResourceRoom))
	sg.PUT("/:id", s.updateRoom, can(authz.ActionUpdate, authz.ResourceRoom))
	sg.DELETE("/:id", s.destroyRoom, can(authz.ActionDelete, authz.ResourceRoom))

	rg := g.Group("/reservas", jwt)
	rg.GET("", s.queryReservations, can(authz.ActionView, authz.ResourceReservation))
	rg.POST("", s.createReservation, can(authz.ActionCreate, authz.ResourceReservation))
	rg.GET("/:id", s.retrieveReservation, can(authz.ActionView, authz.ResourceReservation))
	rg.PUT("/:id", s.updateReservation, can(authz.ActionUpdate, authz.ResourceReservation))
	rg.DELETE("/:id", s.destroyReservation, can(authz.ActionDelete, authz.ResourceReservation))
}

// Rooms

func (s *server) queryRooms(ctx echo.Context) error {
	rooms, err := s.deps.FacilitySvc.FilterRooms()
	if err != nil {
		return errors.Wrap(err, "querying rooms")
	}
	return ctx.JSON(http.StatusOK, rooms)
}

func (s *server) createRoom(ctx echo.Context) error {
	var data facility.NewRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	room, err := s.deps.FacilitySvc.CreateRoom(data)
	if err != nil {
		return errors.Wrap(err, "creating room")
	}
	return ctx.JSON(http.StatusCreated, room)
}

func (s *server) retrieveRoom(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	room, err := s.deps.FacilitySvc.GetRoom(id)
	if err != nil {
		if errors.Cause(err) == facility.ErrRoomNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting room")
	}
	return ctx.JSON(http.StatusOK, room)
}

func (s *server) updateRoom(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data facility.UpdateRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRoom")
	}

	room, err := s.deps.FacilitySvc.UpdateRoom(id, data)
	if err != nil {
		if errors.Cause(err) == facility.ErrRoomNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating room")
	}
	return ctx.JSON(http.StatusOK, room)
}

func (s *server) destroyRoom(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.FacilitySvc.DeleteRooms(id); err != nil {
		return errors.Wrap(err, "deleting room")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) destroyRooms(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := s.deps.FacilitySvc.DeleteRooms(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting rooms")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Reservations

func (s *server) queryReservations(ctx echo.Context) error {
	filter := new(facility.ReservationQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []facility.Reservation{})
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// a Professor only sees their own current and future reservations
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			if errors.Cause(err) == staff.ErrTeacherNotFound {
				return ctx.JSON(http.StatusOK, []facility.Reservation{})
			}
			return err
		}
		filter.TeacherID = teacher.ID
		if filter.Date == nil {
			today := core.Today()
			filter.DateFrom = &today
		}
	}

	reservations, err := s.deps.FacilitySvc.FilterReservations(*filter)
	if err != nil {
		return errors.Wrap(err, "querying reservations")
	}
	return ctx.JSON(http.StatusOK, reservations)
}

func (s *server) createReservation(ctx echo.Context) error {
	var data facility.NewReservation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReservation")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	enforceLimit := false
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			if errors.Cause(err) == staff.ErrTeacherNotFound {
				return echo.NewHTTPError(http.StatusForbidden, "Apenas Professores com perfil podem criar reservas.")
			}
			return err
		}
		// a Professor always books for themselves
		data.TeacherID = teacher.ID
		enforceLimit = true
	}

	if err := data.Validate(); err != nil {
		return err
	}

	r, err := s.deps.FacilitySvc.CreateReservation(data, enforceLimit)
	if err != nil {
		return errors.Wrap(err, "creating reservation")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (s *server) retrieveReservation(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	r, err := s.reservationInScope(ctx, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (s *server) updateReservation(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data facility.UpdateReservation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateReservation")
	}

	r, err := s.deps.FacilitySvc.UpdateReservation(id, data, false /* enforceLimit */)
	if err != nil {
		if errors.Cause(err) == facility.ErrReservationNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating reservation")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (s *server) destroyReservation(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if _, err := s.reservationInScope(ctx, id); err != nil {
		return err
	}
	if err := s.deps.FacilitySvc.DeleteReservations(id); err != nil {
		return errors.Wrap(err, "deleting reservation")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// reservationInScope fetches a reservation, hiding other teachers' bookings
// from a Professor.
func (s *server) reservationInScope(ctx echo.Context, id int) (facility.Reservation, error) {
	r, err := s.deps.FacilitySvc.GetReservation(id)
	if err != nil {
		if errors.Cause(err) == facility.ErrReservationNotFound {
			return facility.Reservation{}, errHTTPNotFound
		}
		return facility.Reservation{}, errors.Wrap(err, "getting reservation")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return facility.Reservation{}, errors.Wrap(err, "getting context user")
	}
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil || teacher.ID != r.TeacherID {
			return facility.Reservation{}, errHTTPNotFound
		}
	}
	return r, nil
}
