package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/planner"
	"github.com/escoladigital/secretaria/core/staff"
)

const errNoTeacherProfile = "Seu usuário tem cargo de Professor, mas não possui um perfil de Professor vinculado. " +
	"Contate a secretaria para vincular seu usuário a um perfil de Professor."

func (s *server) registerPlannerAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	pg := g.Group("/planejamentos-semanais", jwt)
	pg.GET("", s.queryPlans, can(authz.ActionView, authz.ResourceWeeklyPlan))
	pg.POST("", s.createPlan, can(authz.ActionCreate, authz.ResourceWeeklyPlan))
	pg.GET("/:id", s.retrievePlan, can(authz.ActionView, authz.ResourceWeeklyPlan))
	pg.PUT("/:id", s.updatePlan, can(authz.ActionUpdate, authz.ResourceWeeklyPlan))
	pg.DELETE("/:id", s.destroyPlan, can(authz.ActionDelete, authz.ResourceWeeklyPlan))

	g.GET("/planejamento-opcoes", s.planOptions, jwt)
}

func (s *server) queryPlans(ctx echo.Context) error {
	filter := new(planner.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []planner.WeeklyPlan{})
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// a Professor only sees their own plans; everyone else sees all
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			if errors.Cause(err) == staff.ErrTeacherNotFound {
				return ctx.JSON(http.StatusOK, []planner.WeeklyPlan{})
			}
			return err
		}
		filter.TeacherID = teacher.ID
	}

	plans, err := s.deps.PlannerSvc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying plans")
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (s *server) createPlan(ctx echo.Context) error {
	var data planner.NewWeeklyPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWeeklyPlan")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			if errors.Cause(err) == staff.ErrTeacherNotFound {
				return echo.NewHTTPError(http.StatusForbidden, errNoTeacherProfile)
			}
			return err
		}
		if data.TeacherID != 0 && data.TeacherID != teacher.ID {
			return echo.NewHTTPError(http.StatusForbidden, "Você só pode criar planejamentos para si mesmo.")
		}
		data.TeacherID = teacher.ID
	}

	if err := data.Validate(); err != nil {
		return err
	}

	plan, err := s.deps.PlannerSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating plan")
	}
	return ctx.JSON(http.StatusCreated, plan)
}

func (s *server) retrievePlan(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	plan, err := s.deps.PlannerSvc.Get(id)
	if err != nil {
		if errors.Cause(err) == planner.ErrPlanNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting plan")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil || teacher.ID != plan.TeacherID {
			return errHTTPNotFound
		}
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (s *server) updatePlan(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data planner.UpdateWeeklyPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWeeklyPlan")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsProfessor() {
		plan, err := s.deps.PlannerSvc.Get(id)
		if err != nil {
			if errors.Cause(err) == planner.ErrPlanNotFound {
				return errHTTPNotFound
			}
			return errors.Wrap(err, "getting plan")
		}
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			if errors.Cause(err) == staff.ErrTeacherNotFound {
				return echo.NewHTTPError(http.StatusForbidden, "Perfil de Professor não encontrado para este usuário.")
			}
			return err
		}
		if plan.TeacherID != teacher.ID {
			return echo.NewHTTPError(http.StatusForbidden, "Você não pode editar o planejamento de outro professor.")
		}
		if data.TeacherID != 0 && data.TeacherID != teacher.ID {
			return echo.NewHTTPError(http.StatusForbidden, "Você não pode transferir o planejamento para outro professor.")
		}
	}

	plan, err := s.deps.PlannerSvc.Update(id, data)
	if err != nil {
		if errors.Cause(err) == planner.ErrPlanNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating plan")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (s *server) destroyPlan(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsProfessor() {
		plan, err := s.deps.PlannerSvc.Get(id)
		if err != nil {
			if errors.Cause(err) == planner.ErrPlanNotFound {
				return errHTTPNotFound
			}
			return errors.Wrap(err, "getting plan")
		}
		teacher, err := s.contextTeacher(ctx)
		if err != nil || teacher.ID != plan.TeacherID {
			return errHTTPNotFound
		}
	}

	if err := s.deps.PlannerSvc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting plan")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) planOptions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.deps.PlannerSvc.FormOptions())
}
