package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/academics"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/roster"
	"github.com/escoladigital/secretaria/core/staff"
)

func (s *server) registerAcademicsAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	tg := g.Group("/bimestres", jwt)
	tg.GET("", s.queryTerms, can(authz.ActionView, authz.ResourceTerm))
	tg.POST("", s.createTerm, can(authz.ActionCreate, authz.ResourceTerm))
	tg.DELETE("/:id", s.destroyTerm, can(authz.ActionDelete, authz.ResourceTerm))

	ng := g.Group("/notas", jwt)
	ng.GET("", s.queryGrades, can(authz.ActionView, authz.ResourceGrade))
	ng.POST("", s.createGrade, can(authz.ActionCreate, authz.ResourceGrade))
	ng.GET("/:id", s.retrieveGrade, can(authz.ActionView, authz.ResourceGrade))
	ng.PUT("/:id", s.updateGrade, can(authz.ActionUpdate, authz.ResourceGrade))
	ng.DELETE("/:id", s.destroyGrade, can(authz.ActionDelete, authz.ResourceGrade))

	ag := g.Group("/atividades-pendentes", jwt)
	ag.GET("", s.queryTasks, can(authz.ActionView, authz.ResourcePendingTask))
	ag.POST("", s.createTask, can(authz.ActionCreate, authz.ResourcePendingTask))
	ag.GET("/:id", s.retrieveTask, can(authz.ActionView, authz.ResourcePendingTask))
	ag.PUT("/:id", s.updateTask, can(authz.ActionUpdate, authz.ResourcePendingTask))
	ag.DELETE("/:id", s.destroyTask, can(authz.ActionDelete, authz.ResourcePendingTask))

	// derived approval verdict; never stored
	g.GET("/alunos/:id/situacao", s.studentStanding, jwt, can(authz.ActionView, authz.ResourceStudent))
}

// Terms

func (s *server) queryTerms(ctx echo.Context) error {
	terms, err := s.deps.AcademicsSvc.FilterTerms()
	if err != nil {
		return errors.Wrap(err, "querying terms")
	}
	return ctx.JSON(http.StatusOK, terms)
}

func (s *server) createTerm(ctx echo.Context) error {
	var data academics.NewTerm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTerm")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	term, err := s.deps.AcademicsSvc.CreateTerm(data)
	if err != nil {
		return errors.Wrap(err, "creating term")
	}
	return ctx.JSON(http.StatusCreated, term)
}

func (s *server) destroyTerm(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.AcademicsSvc.DeleteTerms(id); err != nil {
		return errors.Wrap(err, "deleting term")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Grades

func (s *server) queryGrades(ctx echo.Context) error {
	filter := new(academics.GradeQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []academics.Grade{})
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	filter.StudentIDs = scope

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// a Professor only sees grades of their own discipline
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			if errors.Cause(err) == staff.ErrTeacherNotFound {
				return ctx.JSON(http.StatusOK, []academics.Grade{})
			}
			return err
		}
		filter.Discipline = teacher.Discipline
	}

	grades, err := s.deps.AcademicsSvc.FilterGrades(*filter)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (s *server) createGrade(ctx echo.Context) error {
	var data academics.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsProfessor() {
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			return err
		}
		if data.Discipline != "" && data.Discipline != teacher.Discipline {
			return echo.NewHTTPError(http.StatusForbidden, "Você só pode criar notas para a sua disciplina principal.")
		}
		data.Discipline = teacher.Discipline
	}

	if err := data.Validate(); err != nil {
		return err
	}

	grade, err := s.deps.AcademicsSvc.CreateGrade(data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, grade)
}

func (s *server) retrieveGrade(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	grade, err := s.deps.AcademicsSvc.GetGrade(id)
	if err != nil {
		if errors.Cause(err) == academics.ErrGradeNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting grade")
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	if !idInScope(grade.StudentID, scope) {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, grade)
}

func (s *server) updateGrade(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsProfessor() {
		grade, err := s.deps.AcademicsSvc.GetGrade(id)
		if err != nil {
			if errors.Cause(err) == academics.ErrGradeNotFound {
				return errHTTPNotFound
			}
			return errors.Wrap(err, "getting grade")
		}
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			return err
		}
		if grade.Discipline != teacher.Discipline {
			return echo.NewHTTPError(http.StatusForbidden, "Você só pode editar notas da sua disciplina principal.")
		}
	}

	var data academics.UpdateGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	grade, err := s.deps.AcademicsSvc.UpdateGrade(id, data)
	if err != nil {
		if errors.Cause(err) == academics.ErrGradeNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, grade)
}

func (s *server) destroyGrade(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.AcademicsSvc.DeleteGrades(id); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Pending tasks

func (s *server) queryTasks(ctx echo.Context) error {
	filter := new(academics.TaskQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []academics.PendingTask{})
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// unlike grades, tasks are visible to every Professor in full
	if usr.IsAluno() || usr.IsResponsavel() {
		scope, err := s.scopedStudentIDs(ctx)
		if err != nil {
			return err
		}
		filter.StudentIDs = scope
	}

	tasks, err := s.deps.AcademicsSvc.FilterTasks(*filter)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (s *server) createTask(ctx echo.Context) error {
	var data academics.NewPendingTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPendingTask")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	task, err := s.deps.AcademicsSvc.CreateTask(data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, task)
}

func (s *server) retrieveTask(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	task, err := s.deps.AcademicsSvc.GetTask(id)
	if err != nil {
		if errors.Cause(err) == academics.ErrTaskNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting task")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsAluno() || usr.IsResponsavel() {
		scope, err := s.scopedStudentIDs(ctx)
		if err != nil {
			return err
		}
		if !idInScope(task.StudentID, scope) {
			return errHTTPNotFound
		}
	}
	return ctx.JSON(http.StatusOK, task)
}

func (s *server) updateTask(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data academics.UpdatePendingTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePendingTask")
	}

	task, err := s.deps.AcademicsSvc.UpdateTask(id, data)
	if err != nil {
		if errors.Cause(err) == academics.ErrTaskNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, task)
}

func (s *server) destroyTask(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.AcademicsSvc.DeleteTasks(id); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Standing

func (s *server) studentStanding(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	if !idInScope(id, scope) {
		return errHTTPNotFound
	}

	report, err := s.deps.AcademicsSvc.ComputeStanding(id)
	if err != nil {
		if errors.Cause(err) == roster.ErrStudentNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "computing standing")
	}
	return ctx.JSON(http.StatusOK, report)
}
