// Package authz decides, per role, which resources and actions the rest of
// the system may expose. It is a static rule table: no I/O, no ambient
// session state, deterministic output for identical inputs. Unknown roles,
// actions or resources always deny.
//
// These answers gate UI affordances and are re-checked by the API handlers;
// neither side trusts the other's gating alone.
package authz

// Role is the closed set of user categories driving authorization.
// The string values match the `cargo` claim issued at login.
type Role string

const (
	RoleSecretaria  Role = "Secretaria"
	RoleProfessor   Role = "Professor"
	RoleAuxiliar    Role = "Auxiliar administrativo"
	RoleAluno       Role = "Aluno"
	RoleResponsavel Role = "Responsavel"
)

var AllRoles = []Role{RoleSecretaria, RoleProfessor, RoleAuxiliar, RoleAluno, RoleResponsavel}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Action is a CRUD capability on a Resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is an entity type (or screen) subject to authorization rules.
type Resource string

const (
	ResourceStudent       Resource = "aluno"
	ResourceGuardian      Resource = "responsavel"
	ResourceTeacher       Resource = "professor"
	ResourceRoom          Resource = "sala"
	ResourceBook          Resource = "livro"
	ResourceLoan          Resource = "emprestimo"
	ResourceDiscipline    Resource = "ocorrencia"
	ResourcePendingTask   Resource = "atividade-pendente"
	ResourceGrade         Resource = "nota"
	ResourceTerm          Resource = "bimestre"
	ResourceReservation   Resource = "reserva"
	ResourceCalendarEvent Resource = "evento-calendario"
	ResourceWeeklyPlan    Resource = "planejamento-semanal"
	ResourceAdminPanel    Resource = "administracao"
)

type roleSet map[Role]struct{}

func roles(rr ...Role) roleSet {
	set := make(roleSet, len(rr))
	for _, r := range rr {
		set[r] = struct{}{}
	}
	return set
}

var everyone = roles(AllRoles...)

// ruleTable is the whole policy. Row scoping (a Professor only sees students
// of their turmas, an Aluno only sees their own record, and so on) is the
// query layer's concern; this table answers whether the affordance exists at
// all for the role.
var ruleTable = map[Resource]map[Action]roleSet{
	ResourceStudent: {
		ActionView:   everyone,
		ActionCreate: roles(RoleSecretaria),
		ActionUpdate: roles(RoleSecretaria, RoleProfessor, RoleAuxiliar), // field masks below
		ActionDelete: roles(RoleSecretaria),
	},
	ResourceGuardian: {
		ActionView:   roles(RoleSecretaria, RoleResponsavel),
		ActionCreate: roles(RoleSecretaria),
		ActionUpdate: roles(RoleSecretaria),
		ActionDelete: roles(RoleSecretaria),
	},
	ResourceTeacher: {
		ActionView:   roles(RoleSecretaria, RoleProfessor),
		ActionCreate: roles(RoleSecretaria),
		ActionUpdate: roles(RoleSecretaria),
		ActionDelete: roles(RoleSecretaria),
	},
	ResourceRoom: {
		ActionView:   everyone,
		ActionCreate: roles(RoleSecretaria),
		ActionUpdate: roles(RoleSecretaria),
		ActionDelete: roles(RoleSecretaria),
	},
	ResourceBook: {
		ActionView:   everyone,
		ActionCreate: roles(RoleAuxiliar),
		ActionUpdate: roles(RoleAuxiliar),
		ActionDelete: roles(RoleAuxiliar),
	},
	ResourceLoan: {
		// Secretaria reads but does not manage the library; the Auxiliar owns it.
		ActionView:   roles(RoleSecretaria, RoleAuxiliar, RoleAluno, RoleResponsavel),
		ActionCreate: roles(RoleAuxiliar),
		ActionUpdate: roles(RoleAuxiliar),
		ActionDelete: roles(RoleAuxiliar),
	},
	ResourceDiscipline: {
		ActionView:   everyone,
		ActionCreate: roles(RoleSecretaria),
		ActionUpdate: roles(RoleSecretaria),
		ActionDelete: roles(RoleSecretaria),
	},
	ResourcePendingTask: {
		ActionView:   everyone,
		ActionCreate: roles(RoleSecretaria, RoleProfessor),
		ActionUpdate: roles(RoleSecretaria, RoleProfessor),
		ActionDelete: roles(RoleSecretaria, RoleProfessor),
	},
	ResourceGrade: {
		ActionView:   everyone,
		ActionCreate: roles(RoleSecretaria, RoleProfessor),
		ActionUpdate: roles(RoleSecretaria, RoleProfessor),
		ActionDelete: roles(RoleSecretaria, RoleProfessor),
	},
	ResourceTerm: {
		ActionView:   everyone,
		ActionCreate: roles(RoleSecretaria),
		ActionUpdate: roles(RoleSecretaria),
		ActionDelete: roles(RoleSecretaria),
	},
	ResourceReservation: {
		ActionView:   roles(RoleSecretaria, RoleProfessor),
		ActionCreate: roles(RoleSecretaria, RoleProfessor),
		ActionUpdate: roles(RoleSecretaria), // a Professor cancels and re-creates
		ActionDelete: roles(RoleSecretaria, RoleProfessor),
	},
	ResourceCalendarEvent: {
		ActionView:   everyone,
		ActionCreate: roles(RoleSecretaria, RoleAuxiliar),
		ActionUpdate: roles(RoleSecretaria, RoleAuxiliar),
		ActionDelete: roles(RoleSecretaria, RoleAuxiliar),
	},
	ResourceWeeklyPlan: {
		ActionView:   everyone,
		ActionCreate: roles(RoleSecretaria, RoleProfessor),
		ActionUpdate: roles(RoleSecretaria, RoleProfessor),
		ActionDelete: roles(RoleSecretaria, RoleProfessor),
	},
	ResourceAdminPanel: {
		ActionView: roles(RoleSecretaria, RoleAuxiliar, RoleProfessor),
	},
}

// CanPerform reports whether `role` may perform `action` on `resource`.
// It fails closed: any unknown input denies.
func CanPerform(role Role, action Action, resource Resource) bool {
	actions, ok := ruleTable[resource]
	if !ok {
		return false
	}
	allowed, ok := actions[action]
	if !ok {
		return false
	}
	_, ok = allowed[role]
	return ok
}

// StudentWritableFields returns the set of Student JSON fields `role` may
// update. An empty map means the role cannot touch any field; Secretaria is
// unrestricted and reported via the second return.
func StudentWritableFields(role Role) (fields map[string]struct{}, unrestricted bool) {
	switch role {
	case RoleSecretaria:
		return nil, true
	case RoleProfessor:
		return map[string]struct{}{"comentario_descritivo": {}}, false
	case RoleAuxiliar:
		return map[string]struct{}{"faltas_aluno": {}, "presencas_aluno": {}}, false
	default:
		return map[string]struct{}{}, false
	}
}

// AdminPanelTabs lists the administration sub-tabs visible to `role`,
// in display order. A Professor only gets the read-only student roster.
func AdminPanelTabs(role Role) []string {
	switch role {
	case RoleSecretaria:
		return []string{"Alunos", "Responsaveis", "Professores", "Salas & Recursos"}
	case RoleAuxiliar:
		return []string{"Alunos"}
	case RoleProfessor:
		return []string{"Alunos"}
	default:
		return nil
	}
}

// VisibleResources lists the sidebar link set for `role`: every resource the
// role may at least view, in a stable order.
func VisibleResources(role Role) []Resource {
	ordered := []Resource{
		ResourceStudent, ResourceGuardian, ResourceTeacher, ResourceRoom,
		ResourceBook, ResourceLoan, ResourceDiscipline, ResourcePendingTask,
		ResourceGrade, ResourceTerm, ResourceReservation, ResourceCalendarEvent,
		ResourceWeeklyPlan, ResourceAdminPanel,
	}
	var visible []Resource
	for _, res := range ordered {
		if CanPerform(role, ActionView, res) {
			visible = append(visible, res)
		}
	}
	return visible
}
