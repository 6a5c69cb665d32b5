package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allActions = []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete}

var allResources = []Resource{
	ResourceStudent, ResourceGuardian, ResourceTeacher, ResourceRoom,
	ResourceBook, ResourceLoan, ResourceDiscipline, ResourcePendingTask,
	ResourceGrade, ResourceTerm, ResourceReservation, ResourceCalendarEvent,
	ResourceWeeklyPlan, ResourceAdminPanel,
}

func TestCanPerform_deterministic(t *testing.T) {
	for _, role := range AllRoles {
		for _, action := range allActions {
			for _, res := range allResources {
				first := CanPerform(role, action, res)
				second := CanPerform(role, action, res)
				assert.Equal(t, first, second, "role=%s action=%s resource=%s", role, action, res)
			}
		}
	}
}

func TestCanPerform_failClosed(t *testing.T) {
	for _, role := range []Role{"", "Diretor", "secretaria" /* case matters */, "admin"} {
		for _, action := range allActions {
			for _, res := range allResources {
				assert.False(t, CanPerform(role, action, res), "role=%q action=%s resource=%s", role, action, res)
			}
		}
	}
	// unknown action / resource deny even for the strongest role
	assert.False(t, CanPerform(RoleSecretaria, "publish", ResourceStudent))
	assert.False(t, CanPerform(RoleSecretaria, ActionView, "boletim"))
}

func TestCanPerform_ruleTable(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		action   Action
		resource Resource
		want     bool
	}{
		// Secretaria administers people and rooms
		{"secretaria creates students", RoleSecretaria, ActionCreate, ResourceStudent, true},
		{"secretaria deletes students", RoleSecretaria, ActionDelete, ResourceStudent, true},
		{"secretaria creates guardians", RoleSecretaria, ActionCreate, ResourceGuardian, true},
		{"secretaria creates rooms", RoleSecretaria, ActionCreate, ResourceRoom, true},
		{"secretaria creates calendar events", RoleSecretaria, ActionCreate, ResourceCalendarEvent, true},
		{"secretaria records warnings", RoleSecretaria, ActionCreate, ResourceDiscipline, true},
		// ...but the library belongs to the Auxiliar
		{"secretaria views loans", RoleSecretaria, ActionView, ResourceLoan, true},
		{"secretaria cannot create loans", RoleSecretaria, ActionCreate, ResourceLoan, false},
		{"secretaria cannot edit books", RoleSecretaria, ActionUpdate, ResourceBook, false},
		{"auxiliar creates loans", RoleAuxiliar, ActionCreate, ResourceLoan, true},
		{"auxiliar deletes books", RoleAuxiliar, ActionDelete, ResourceBook, true},
		// Auxiliar edits attendance but never removes students
		{"auxiliar updates students", RoleAuxiliar, ActionUpdate, ResourceStudent, true},
		{"auxiliar cannot delete students", RoleAuxiliar, ActionDelete, ResourceStudent, false},
		// Professor
		{"professor updates students", RoleProfessor, ActionUpdate, ResourceStudent, true},
		{"professor cannot create students", RoleProfessor, ActionCreate, ResourceStudent, false},
		{"professor creates grades", RoleProfessor, ActionCreate, ResourceGrade, true},
		{"professor creates reservations", RoleProfessor, ActionCreate, ResourceReservation, true},
		{"professor cancels reservations", RoleProfessor, ActionDelete, ResourceReservation, true},
		{"professor cannot edit reservations", RoleProfessor, ActionUpdate, ResourceReservation, false},
		{"professor manages weekly plans", RoleProfessor, ActionCreate, ResourceWeeklyPlan, true},
		{"professor sees admin panel", RoleProfessor, ActionView, ResourceAdminPanel, true},
		{"professor cannot record warnings", RoleProfessor, ActionCreate, ResourceDiscipline, false},
		// Students and guardians are read-only
		{"aluno views grades", RoleAluno, ActionView, ResourceGrade, true},
		{"aluno views own loans", RoleAluno, ActionView, ResourceLoan, true},
		{"aluno cannot create anything", RoleAluno, ActionCreate, ResourceGrade, false},
		{"aluno cannot mutate calendar", RoleAluno, ActionCreate, ResourceCalendarEvent, false},
		{"aluno has no admin panel", RoleAluno, ActionView, ResourceAdminPanel, false},
		{"responsavel views students", RoleResponsavel, ActionView, ResourceStudent, true},
		{"responsavel cannot update students", RoleResponsavel, ActionUpdate, ResourceStudent, false},
		{"responsavel has no admin panel", RoleResponsavel, ActionView, ResourceAdminPanel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.role, tt.action, tt.resource))
		})
	}
}

func TestStudentWritableFields(t *testing.T) {
	_, unrestricted := StudentWritableFields(RoleSecretaria)
	assert.True(t, unrestricted)

	flds, unrestricted := StudentWritableFields(RoleProfessor)
	assert.False(t, unrestricted)
	assert.Equal(t, map[string]struct{}{"comentario_descritivo": {}}, flds)

	flds, unrestricted = StudentWritableFields(RoleAuxiliar)
	assert.False(t, unrestricted)
	assert.Equal(t, map[string]struct{}{"faltas_aluno": {}, "presencas_aluno": {}}, flds)

	for _, role := range []Role{RoleAluno, RoleResponsavel, "", "Diretor"} {
		flds, unrestricted = StudentWritableFields(role)
		assert.False(t, unrestricted)
		assert.Empty(t, flds)
	}
}

func TestVisibleResources(t *testing.T) {
	// every visible resource must be viewable; unknown role sees nothing
	for _, role := range AllRoles {
		for _, res := range VisibleResources(role) {
			assert.True(t, CanPerform(role, ActionView, res))
		}
	}
	assert.Empty(t, VisibleResources("Diretor"))

	// students never see the guardian registry or the admin panel
	for _, res := range VisibleResources(RoleAluno) {
		assert.NotEqual(t, ResourceGuardian, res)
		assert.NotEqual(t, ResourceAdminPanel, res)
	}
}
