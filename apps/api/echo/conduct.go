package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/conduct"
)

func (s *server) registerConductAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	wg := g.Group("/advertencias", jwt)
	wg.GET("", s.queryWarnings, can(authz.ActionView, authz.ResourceDiscipline))
	wg.POST("", s.createWarning, can(authz.ActionCreate, authz.ResourceDiscipline))
	wg.GET("/:id", s.retrieveWarning, can(authz.ActionView, authz.ResourceDiscipline))
	wg.PUT("/:id", s.updateWarning, can(authz.ActionUpdate, authz.ResourceDiscipline))
	wg.DELETE("/:id", s.destroyWarning, can(authz.ActionDelete, authz.ResourceDiscipline))

	sg := g.Group("/suspensoes", jwt)
	sg.GET("", s.querySuspensions, can(authz.ActionView, authz.ResourceDiscipline))
	sg.POST("", s.createSuspension, can(authz.ActionCreate, authz.ResourceDiscipline))
	sg.GET("/:id", s.retrieveSuspension, can(authz.ActionView, authz.ResourceDiscipline))
	sg.PUT("/:id", s.updateSuspension, can(authz.ActionUpdate, authz.ResourceDiscipline))
	sg.DELETE("/:id", s.destroySuspension, can(authz.ActionDelete, authz.ResourceDiscipline))
}

// Warnings

func (s *server) queryWarnings(ctx echo.Context) error {
	filter := new(conduct.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []conduct.Warning{})
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	filter.StudentIDs = scope

	warnings, err := s.deps.ConductSvc.FilterWarnings(*filter)
	if err != nil {
		return errors.Wrap(err, "querying warnings")
	}
	return ctx.JSON(http.StatusOK, warnings)
}

func (s *server) createWarning(ctx echo.Context) error {
	var data conduct.NewWarning
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWarning")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	w, err := s.deps.ConductSvc.CreateWarning(data)
	if err != nil {
		return errors.Wrap(err, "creating warning")
	}
	return ctx.JSON(http.StatusCreated, w)
}

func (s *server) retrieveWarning(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	w, err := s.deps.ConductSvc.GetWarning(id)
	if err != nil {
		if errors.Cause(err) == conduct.ErrWarningNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting warning")
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	if !idInScope(w.StudentID, scope) {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, w)
}

func (s *server) updateWarning(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data conduct.UpdateWarning
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWarning")
	}

	w, err := s.deps.ConductSvc.UpdateWarning(id, data)
	if err != nil {
		if errors.Cause(err) == conduct.ErrWarningNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating warning")
	}
	return ctx.JSON(http.StatusOK, w)
}

func (s *server) destroyWarning(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.ConductSvc.DeleteWarnings(id); err != nil {
		return errors.Wrap(err, "deleting warning")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Suspensions

func (s *server) querySuspensions(ctx echo.Context) error {
	filter := new(conduct.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []conduct.Suspension{})
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	filter.StudentIDs = scope

	suspensions, err := s.deps.ConductSvc.FilterSuspensions(*filter)
	if err != nil {
		return errors.Wrap(err, "querying suspensions")
	}
	return ctx.JSON(http.StatusOK, suspensions)
}

func (s *server) createSuspension(ctx echo.Context) error {
	var data conduct.NewSuspension
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSuspension")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	susp, err := s.deps.ConductSvc.CreateSuspension(data)
	if err != nil {
		return errors.Wrap(err, "creating suspension")
	}
	return ctx.JSON(http.StatusCreated, susp)
}

func (s *server) retrieveSuspension(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	susp, err := s.deps.ConductSvc.GetSuspension(id)
	if err != nil {
		if errors.Cause(err) == conduct.ErrSuspensionNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting suspension")
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	if !idInScope(susp.StudentID, scope) {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, susp)
}

func (s *server) updateSuspension(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data conduct.UpdateSuspension
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSuspension")
	}

	susp, err := s.deps.ConductSvc.UpdateSuspension(id, data)
	if err != nil {
		if errors.Cause(err) == conduct.ErrSuspensionNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating suspension")
	}
	return ctx.JSON(http.StatusOK, susp)
}

func (s *server) destroySuspension(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.ConductSvc.DeleteSuspensions(id); err != nil {
		return errors.Wrap(err, "deleting suspension")
	}
	return ctx.NoContent(http.StatusNoContent)
}
