package echoapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/roster"
)

func (s *server) registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	ag := g.Group("/alunos", jwt)
	ag.GET("", s.queryStudents, can(authz.ActionView, authz.ResourceStudent))
	ag.POST("", s.createStudent, can(authz.ActionCreate, authz.ResourceStudent))
	ag.DELETE("", s.destroyStudents, can(authz.ActionDelete, authz.ResourceStudent))
	ag.GET("/:id", s.retrieveStudent, can(authz.ActionView, authz.ResourceStudent))
	ag.PUT("/:id", s.updateStudent, can(authz.ActionUpdate, authz.ResourceStudent))
	ag.DELETE("/:id", s.destroyStudent, can(authz.ActionDelete, authz.ResourceStudent))

	rg := g.Group("/responsaveis", jwt)
	rg.GET("", s.queryGuardians, can(authz.ActionView, authz.ResourceGuardian))
	rg.POST("", s.createGuardian, can(authz.ActionCreate, authz.ResourceGuardian))
	rg.DELETE("", s.destroyGuardians, can(authz.ActionDelete, authz.ResourceGuardian))
	rg.GET("/:id", s.retrieveGuardian, can(authz.ActionView, authz.ResourceGuardian))
	rg.PUT("/:id", s.updateGuardian, can(authz.ActionUpdate, authz.ResourceGuardian))
	rg.DELETE("/:id", s.destroyGuardian, can(authz.ActionDelete, authz.ResourceGuardian))
}

// Students

func (s *server) queryStudents(ctx echo.Context) error {
	filter := new(roster.StudentQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []roster.Student{})
	}
	filter.Clean()

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}

	students, err := s.deps.RosterSvc.FilterStudents(*filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	students = scopeStudents(students, scope)
	return ctx.JSON(http.StatusOK, students)
}

func (s *server) createStudent(ctx echo.Context) error {
	var data roster.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	st, err := s.deps.RosterSvc.CreateStudent(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (s *server) retrieveStudent(ctx echo.Context) error {
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

	st, err := s.deps.RosterSvc.GetStudent(id)
	if err != nil {
		if errors.Cause(err) == roster.ErrStudentNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (s *server) updateStudent(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	if err = checkStudentFieldMask(claims.Cargo, body); err != nil {
		return err
	}

	var data roster.UpdateStudent
	if err = json.Unmarshal(body, &data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "JSON inválido")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	st, err := s.deps.RosterSvc.UpdateStudent(id, data)
	if err != nil {
		if errors.Cause(err) == roster.ErrStudentNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (s *server) destroyStudent(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.RosterSvc.DeleteStudents(id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) destroyStudents(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := s.deps.RosterSvc.DeleteStudents(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// checkStudentFieldMask rejects the update when the requester's role does not
// allow touching one of the submitted fields. Secretaria is unrestricted.
func checkStudentFieldMask(role authz.Role, body []byte) error {
	allowed, unrestricted := authz.StudentWritableFields(role)
	if unrestricted {
		return nil
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "JSON inválido")
	}
	for field := range data {
		if _, ok := allowed[field]; !ok {
			var who string
			switch role {
			case authz.RoleProfessor:
				who = "Professores"
			case authz.RoleAuxiliar:
				who = "Auxiliares"
			default:
				return errHTTPForbidden
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("%s não podem editar o campo: %s.", who, field))
		}
	}
	return nil
}

// Guardians

func (s *server) queryGuardians(ctx echo.Context) error {
	filter := new(roster.GuardianQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []roster.Guardian{})
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// a Responsavel only ever sees their own record
	if usr.IsResponsavel() {
		g, err := s.deps.RosterSvc.GetGuardianByUser(usr.ID)
		if err != nil {
			if errors.Cause(err) == roster.ErrGuardianNotFound {
				return ctx.JSON(http.StatusOK, []roster.Guardian{})
			}
			return errors.Wrap(err, "getting guardian profile")
		}
		return ctx.JSON(http.StatusOK, []roster.Guardian{g})
	}

	guardians, err := s.deps.RosterSvc.FilterGuardians(*filter)
	if err != nil {
		return errors.Wrap(err, "querying guardians")
	}
	return ctx.JSON(http.StatusOK, guardians)
}

func (s *server) createGuardian(ctx echo.Context) error {
	var data roster.NewGuardian
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGuardian")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	g, err := s.deps.RosterSvc.CreateGuardian(data)
	if err != nil {
		return errors.Wrap(err, "creating guardian")
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (s *server) retrieveGuardian(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	g, err := s.deps.RosterSvc.GetGuardian(id)
	if err != nil {
		if errors.Cause(err) == roster.ErrGuardianNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting guardian")
	}

	usr, err := s.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsResponsavel() && (!g.UserID.Valid || int(g.UserID.Int64) != usr.ID) {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, g)
}

func (s *server) updateGuardian(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data roster.UpdateGuardian
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGuardian")
	}

	g, err := s.deps.RosterSvc.UpdateGuardian(id, data)
	if err != nil {
		if errors.Cause(err) == roster.ErrGuardianNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating guardian")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (s *server) destroyGuardian(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.RosterSvc.DeleteGuardians(id); err != nil {
		return errors.Wrap(err, "deleting guardian")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) destroyGuardians(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := s.deps.RosterSvc.DeleteGuardians(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting guardians")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// scope helpers

func idInScope(id int, scope []int) bool {
	if scope == nil {
		return true
	}
	for _, allowed := range scope {
		if allowed == id {
			return true
		}
	}
	return false
}

func scopeStudents(students []roster.Student, scope []int) []roster.Student {
	if scope == nil {
		return students
	}
	scoped := make([]roster.Student, 0, len(students))
	for _, st := range students {
		if idInScope(st.ID, scope) {
			scoped = append(scoped, st)
		}
	}
	return scoped
}
