package planner

import (
	"github.com/escoladigital/secretaria/core"
)

// Shift codes with their display labels, as offered by the options
// endpoint.
const (
	ShiftMorning   = "MANHA"
	ShiftAfternoon = "TARDE"
	ShiftEvening   = "NOITE"
)

var ShiftLabels = map[string]string{
	ShiftMorning:   "Manhã",
	ShiftAfternoon: "Tarde",
	ShiftEvening:   "Noite",
}

type WeeklyPlan struct {
	ID          int       `db:"id" json:"id"`
	TeacherID   int       `db:"teacher_id" json:"professor"`
	TeacherName string    `db:"-" json:"professor_nome,omitempty"`
	ClassCode   string    `db:"class_code" json:"turma"`
	Discipline  string    `db:"discipline" json:"disciplina"`
	LessonDate  core.Date `db:"lesson_date" json:"data_aula"`
	Shift       string    `db:"shift" json:"turno"`
	Content     string    `db:"content" json:"conteudo"`
	Activities  string    `db:"activities" json:"atividades"`
	Resources   string    `db:"resources" json:"recursos"`
	Notes       string    `db:"notes" json:"observacoes"`
}

type NewWeeklyPlan struct {
	TeacherID  int       `json:"professor" validate:"required"`
	ClassCode  string    `json:"turma" validate:"required,classcode"`
	Discipline string    `json:"disciplina" validate:"required,disciplina"`
	LessonDate core.Date `json:"data_aula" validate:"required"`
	Shift      string    `json:"turno" validate:"omitempty,turno"`
	Content    string    `json:"conteudo"`
	Activities string    `json:"atividades"`
	Resources  string    `json:"recursos"`
	Notes      string    `json:"observacoes"`
}

func (np *NewWeeklyPlan) Validate() error {
	np.Content = core.CleanString(np.Content)
	np.Activities = core.CleanString(np.Activities)
	np.Resources = core.CleanString(np.Resources)
	np.Notes = core.CleanString(np.Notes)
	return core.Validate.Struct(np)
}

type UpdateWeeklyPlan struct {
	TeacherID  int        `json:"professor"`
	ClassCode  string     `json:"turma" validate:"omitempty,classcode"`
	Discipline string     `json:"disciplina" validate:"omitempty,disciplina"`
	LessonDate *core.Date `json:"data_aula"`
	Shift      string     `json:"turno" validate:"omitempty,turno"`
	Content    *string    `json:"conteudo"`
	Activities *string    `json:"atividades"`
	Resources  *string    `json:"recursos"`
	Notes      *string    `json:"observacoes"`
}

func (up *UpdateWeeklyPlan) Validate(orig WeeklyPlan) error {
	if up.TeacherID == 0 {
		up.TeacherID = orig.TeacherID
	}
	if up.ClassCode == "" {
		up.ClassCode = orig.ClassCode
	}
	if up.Discipline == "" {
		up.Discipline = orig.Discipline
	}
	if up.LessonDate == nil {
		d := orig.LessonDate
		up.LessonDate = &d
	}
	if up.Shift == "" {
		up.Shift = orig.Shift
	}
	return core.Validate.Struct(up)
}

func (up UpdateWeeklyPlan) Apply(p *WeeklyPlan) {
	p.TeacherID = up.TeacherID
	p.ClassCode = up.ClassCode
	p.Discipline = up.Discipline
	p.LessonDate = *up.LessonDate
	p.Shift = up.Shift
	if up.Content != nil {
		p.Content = core.CleanString(*up.Content)
	}
	if up.Activities != nil {
		p.Activities = core.CleanString(*up.Activities)
	}
	if up.Resources != nil {
		p.Resources = core.CleanString(*up.Resources)
	}
	if up.Notes != nil {
		p.Notes = core.CleanString(*up.Notes)
	}
}

type QueryFilter struct {
	TeacherID  int    `query:"professor"`
	ClassCode  string `query:"turma"`
	Discipline string `query:"disciplina"`
}

// Option is a value/label pair for form selects.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options is the payload of the planner options endpoint.
type Options struct {
	Shifts     []Option `json:"turnos"`
	ClassCodes []Option `json:"turmas"`
}
