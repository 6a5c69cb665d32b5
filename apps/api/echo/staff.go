package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/staff"
)

func (s *server) registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	pg := g.Group("/professores", jwt)
	pg.GET("", s.queryTeachers, can(authz.ActionView, authz.ResourceTeacher))
	pg.POST("", s.createTeacher, can(authz.ActionCreate, authz.ResourceTeacher))
	pg.DELETE("", s.destroyTeachers, can(authz.ActionDelete, authz.ResourceTeacher))
	pg.GET("/:id", s.retrieveTeacher, can(authz.ActionView, authz.ResourceTeacher))
	pg.PUT("/:id", s.updateTeacher, can(authz.ActionUpdate, authz.ResourceTeacher))
	pg.DELETE("/:id", s.destroyTeacher, can(authz.ActionDelete, authz.ResourceTeacher))
}

func (s *server) queryTeachers(ctx echo.Context) error {
	filter := new(staff.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []staff.Teacher{})
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// a Professor only ever sees their own profile
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			if errors.Cause(err) == staff.ErrTeacherNotFound {
				return ctx.JSON(http.StatusOK, []staff.Teacher{})
			}
			return err
		}
		return ctx.JSON(http.StatusOK, []staff.Teacher{teacher})
	}

	teachers, err := s.deps.StaffSvc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (s *server) createTeacher(ctx echo.Context) error {
	var data staff.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	teacher, err := s.deps.StaffSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, teacher)
}

func (s *server) retrieveTeacher(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	teacher, err := s.deps.StaffSvc.Get(id)
	if err != nil {
		if errors.Cause(err) == staff.ErrTeacherNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting teacher")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsProfessor() && (!teacher.UserID.Valid || int(teacher.UserID.Int64) != usr.ID) {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (s *server) updateTeacher(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data staff.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}

	teacher, err := s.deps.StaffSvc.Update(id, data)
	if err != nil {
		if errors.Cause(err) == staff.ErrTeacherNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (s *server) destroyTeacher(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.StaffSvc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) destroyTeachers(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := s.deps.StaffSvc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting teachers")
	}
	return ctx.NoContent(http.StatusNoContent)
}
