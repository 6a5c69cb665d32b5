package roster

import (
	"github.com/volatiletech/null/v8"

	"github.com/escoladigital/secretaria/core"
)

// ClassCodes is the closed set of turmas.
var ClassCodes = []string{"1A", "1B", "1C", "2A", "2B", "2C", "3A", "3B", "3C"}

// Guardian (Responsavel) is a legal guardian; one Guardian may be referenced
// by many Students.
type Guardian struct {
	ID       int       `db:"id" json:"id"`
	UserID   null.Int64  `db:"user_id" json:"user"`
	Name     string    `db:"name" json:"name"`
	Phone    string    `db:"phone" json:"phone_number"`
	Email    string    `db:"email" json:"email"`
	CPF      string    `db:"cpf" json:"cpf"`
	Birthday core.Date `db:"birthday" json:"birthday"`
	Address  string    `db:"address" json:"endereco"`
}

type NewGuardian struct {
	Name     string    `json:"name" validate:"required"`
	Phone    string    `json:"phone_number" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	CPF      string    `json:"cpf" validate:"required,cpf"`
	Birthday core.Date `json:"birthday" validate:"required"`
	Address  string    `json:"endereco"`
}

func (ng *NewGuardian) Validate() error {
	ng.Name = core.CleanString(ng.Name)
	ng.Email = core.CleanString(ng.Email, true /* lower */)
	ng.CPF = core.CleanCPF(ng.CPF)
	return core.Validate.Struct(ng)
}

type UpdateGuardian struct {
	Name     string    `json:"name"`
	Phone    string    `json:"phone_number"`
	Email    string    `json:"email" validate:"omitempty,email"`
	Birthday core.Date `json:"birthday"`
	Address  string    `json:"endereco"`
}

func (ug *UpdateGuardian) Validate(orig Guardian) error {
	ug.Name = core.CleanString(ug.Name)
	if ug.Name == "" {
		ug.Name = orig.Name
	}
	ug.Email = core.CleanString(ug.Email, true /* lower */)
	if ug.Email == "" {
		ug.Email = orig.Email
	}
	if ug.Phone == "" {
		ug.Phone = orig.Phone
	}
	if ug.Birthday.IsZero() {
		ug.Birthday = orig.Birthday
	}
	if ug.Address == "" {
		ug.Address = orig.Address
	}
	return core.Validate.Struct(ug)
}

// Student (Aluno). The approval verdict is never stored on the record; it is
// derived from the attendance counters together with the grade list (see
// core/academics).
type Student struct {
	ID              int       `db:"id" json:"id"`
	UserID          null.Int64  `db:"user_id" json:"user"`
	Name            string    `db:"name" json:"name_aluno"`
	Phone           string    `db:"phone" json:"phone_number_aluno"`
	Email           string    `db:"email" json:"email_aluno"`
	CPF             string    `db:"cpf" json:"cpf_aluno"`
	Birthday        core.Date `db:"birthday" json:"birthday_aluno"`
	ClassCode       string    `db:"class_code" json:"class_choice"`
	EnrollmentMonth string    `db:"enrollment_month" json:"month_choice"`
	AcademicYear    int       `db:"academic_year" json:"ano_letivo"`
	GuardianID      null.Int64  `db:"guardian_id" json:"responsavel"`
	GuardianName    string    `db:"-" json:"responsavel_nome,omitempty"` // denormalized for listings
	Absences        int       `db:"absences" json:"faltas_aluno"`
	Presences       int       `db:"presences" json:"presencas_aluno"`
	Active          bool      `db:"active" json:"ativo"`
	Comment         string    `db:"comment" json:"comentario_descritivo"`
}

type NewStudent struct {
	Name            string    `json:"name_aluno" validate:"required"`
	Phone           string    `json:"phone_number_aluno" validate:"required"`
	Email           string    `json:"email_aluno" validate:"required,email"`
	CPF             string    `json:"cpf_aluno" validate:"required,cpf"`
	Birthday        core.Date `json:"birthday_aluno" validate:"required"`
	ClassCode       string    `json:"class_choice" validate:"required,classcode"`
	EnrollmentMonth string    `json:"month_choice"`
	AcademicYear    int       `json:"ano_letivo" validate:"required,min=2000"`
	GuardianID      null.Int64  `json:"responsavel"`
	Comment         string    `json:"comentario_descritivo"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.CPF = core.CleanCPF(ns.CPF)
	return core.Validate.Struct(ns)
}

// UpdateStudent carries a partial update. Which fields a given role may set
// is decided by authz.StudentWritableFields before this struct is ever
// populated; by the time it reaches the service the mask has been applied.
type UpdateStudent struct {
	Name            *string    `json:"name_aluno"`
	Phone           *string    `json:"phone_number_aluno"`
	Email           *string    `json:"email_aluno" validate:"omitempty"`
	Birthday        *core.Date `json:"birthday_aluno"`
	ClassCode       *string    `json:"class_choice" validate:"omitempty,classcode"`
	EnrollmentMonth *string    `json:"month_choice"`
	AcademicYear    *int       `json:"ano_letivo"`
	GuardianID      *null.Int64  `json:"responsavel"`
	Absences        *int       `json:"faltas_aluno" validate:"omitempty,min=0"`
	Presences       *int       `json:"presencas_aluno" validate:"omitempty,min=0"`
	Active          *bool      `json:"ativo"`
	Comment         *string    `json:"comentario_descritivo"`
}

func (us *UpdateStudent) Validate() error {
	if us.Name != nil {
		*us.Name = core.CleanString(*us.Name)
	}
	if us.Email != nil {
		*us.Email = core.CleanString(*us.Email, true /* lower */)
	}
	return core.Validate.Struct(us)
}

// Apply copies the set fields onto the record.
func (us UpdateStudent) Apply(st *Student) {
	if us.Name != nil {
		st.Name = *us.Name
	}
	if us.Phone != nil {
		st.Phone = *us.Phone
	}
	if us.Email != nil {
		st.Email = *us.Email
	}
	if us.Birthday != nil {
		st.Birthday = *us.Birthday
	}
	if us.ClassCode != nil {
		st.ClassCode = *us.ClassCode
	}
	if us.EnrollmentMonth != nil {
		st.EnrollmentMonth = *us.EnrollmentMonth
	}
	if us.AcademicYear != nil {
		st.AcademicYear = *us.AcademicYear
	}
	if us.GuardianID != nil {
		st.GuardianID = *us.GuardianID
	}
	if us.Absences != nil {
		st.Absences = *us.Absences
	}
	if us.Presences != nil {
		st.Presences = *us.Presences
	}
	if us.Active != nil {
		st.Active = *us.Active
	}
	if us.Comment != nil {
		st.Comment = *us.Comment
	}
}

type StudentQueryFilter struct {
	Search     string `query:"search"` // case-insensitive match on name, CPF or email
	ClassCode  string `query:"class_choice"`
	GuardianID int    `query:"responsavel"`
	Active     *bool  `query:"ativo"`
}

func (qf *StudentQueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

type GuardianQueryFilter struct {
	Search string `query:"search"`
}
