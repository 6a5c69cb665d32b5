package staff

import (
	"github.com/volatiletech/null/v8"

	"github.com/escoladigital/secretaria/core"
)

// Discipline codes as stored; labels are the display names.
const (
	DisciplineLING = "LING"
	DisciplineCH   = "CH"
	DisciplineCN   = "CN"
	DisciplineMAT  = "MAT"
	DisciplineDS   = "DS"
)

var DisciplineLabels = map[string]string{
	DisciplineLING: "Linguagens",
	DisciplineCH:   "Ciências Humanas",
	DisciplineCN:   "Ciências da Natureza",
	DisciplineMAT:  "Matemática",
	DisciplineDS:   "Itinerário técnico",
}

func DisciplineLabel(code string) string {
	if label, ok := DisciplineLabels[code]; ok {
		return label
	}
	return code
}

type Teacher struct {
	ID              int       `db:"id" json:"id"`
	UserID          null.Int64  `db:"user_id" json:"user"`
	Name            string    `db:"name" json:"name_professor"`
	Phone           string    `db:"phone" json:"phone_number_professor"`
	Email           string    `db:"email" json:"email_professor"`
	CPF             string    `db:"cpf" json:"cpf_professor"`
	Birthday        core.Date `db:"birthday" json:"birthday_professor"`
	Registration    string    `db:"registration" json:"matricula_professor"`
	Discipline      string    `db:"discipline" json:"disciplina"`
	DisciplineLabel string    `db:"-" json:"disciplina_label,omitempty"`
}

type NewTeacher struct {
	Name         string    `json:"name_professor" validate:"required"`
	Phone        string    `json:"phone_number_professor" validate:"required"`
	Email        string    `json:"email_professor" validate:"required,email"`
	CPF          string    `json:"cpf_professor" validate:"required,cpf"`
	Birthday     core.Date `json:"birthday_professor" validate:"required"`
	Registration string    `json:"matricula_professor" validate:"required"`
	Discipline   string    `json:"disciplina" validate:"required,disciplina"`
}

func (nt *NewTeacher) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true)
	nt.CPF = core.CleanCPF(nt.CPF)
	nt.Registration = core.CleanString(nt.Registration)
	return core.Validate.Struct(nt)
}

type UpdateTeacher struct {
	Name         string    `json:"name_professor"`
	Phone        string    `json:"phone_number_professor"`
	Email        string    `json:"email_professor" validate:"omitempty,email"`
	Birthday     core.Date `json:"birthday_professor"`
	Registration string    `json:"matricula_professor"`
	Discipline   string    `json:"disciplina" validate:"omitempty,disciplina"`
}

// Validate cleans the payload and fills unset fields from orig so the
// handler can bind partial updates.
func (ut *UpdateTeacher) Validate(orig Teacher) error {
	ut.Name = core.CleanString(ut.Name)
	ut.Email = core.CleanString(ut.Email, true)
	ut.Registration = core.CleanString(ut.Registration)
	if ut.Name == "" {
		ut.Name = orig.Name
	}
	if ut.Phone == "" {
		ut.Phone = orig.Phone
	}
	if ut.Email == "" {
		ut.Email = orig.Email
	}
	if ut.Birthday.IsZero() {
		ut.Birthday = orig.Birthday
	}
	if ut.Registration == "" {
		ut.Registration = orig.Registration
	}
	if ut.Discipline == "" {
		ut.Discipline = orig.Discipline
	}
	return core.Validate.Struct(ut)
}

type QueryFilter struct {
	Search     string `query:"search"`
	Discipline string `query:"disciplina"`
}
