package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/calendar"
)

func (s *server) registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	eg := g.Group("/eventos-calendario", jwt)
	eg.GET("", s.queryEvents, can(authz.ActionView, authz.ResourceCalendarEvent))
	eg.POST("", s.createEvent, can(authz.ActionCreate, authz.ResourceCalendarEvent))
	eg.GET("/:id", s.retrieveEvent, can(authz.ActionView, authz.ResourceCalendarEvent))
	eg.PUT("/:id", s.updateEvent, can(authz.ActionUpdate, authz.ResourceCalendarEvent))
	eg.DELETE("/:id", s.destroyEvent, can(authz.ActionDelete, authz.ResourceCalendarEvent))
}

func (s *server) queryEvents(ctx echo.Context) error {
	filter := new(calendar.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []calendar.Event{})
	}

	events, err := s.deps.CalendarSvc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (s *server) createEvent(ctx echo.Context) error {
	var data calendar.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	e, err := s.deps.CalendarSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (s *server) retrieveEvent(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	e, err := s.deps.CalendarSvc.Get(id)
	if err != nil {
		if errors.Cause(err) == calendar.ErrEventNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting event")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (s *server) updateEvent(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data calendar.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}

	e, err := s.deps.CalendarSvc.Update(id, data)
	if err != nil {
		if errors.Cause(err) == calendar.ErrEventNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (s *server) destroyEvent(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.CalendarSvc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
