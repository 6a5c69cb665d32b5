package academics

import (
	"fmt"
	"time"

	"github.com/escoladigital/secretaria/core"
)

// Task status values for atividades pendentes.
const (
	TaskStatusPending    = "Pendente"
	TaskStatusInProgress = "Em Andamento"
	TaskStatusDone       = "Concluida"
)

var TaskStatuses = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusDone}

// Term is a bimestre of the school year, numbered 1 through 4.
type Term struct {
	ID     int `db:"id" json:"id"`
	Number int `db:"number" json:"numero"`
	Year   int `db:"year" json:"ano"`
}

func (t Term) String() string {
	return fmt.Sprintf("%dº Bimestre", t.Number)
}

type NewTerm struct {
	Number int `json:"numero" validate:"required,min=1,max=4"`
	Year   int `json:"ano" validate:"required,min=2000"`
}

func (nt *NewTerm) Validate() error {
	return core.Validate.Struct(nt)
}

type Grade struct {
	ID          int     `db:"id" json:"id"`
	StudentID   int     `db:"student_id" json:"aluno"`
	StudentName string  `db:"-" json:"aluno_nome,omitempty"`
	TermID      int     `db:"term_id" json:"bimestre"`
	TermNumber  string  `db:"-" json:"bimestre_numero,omitempty"`
	Discipline  string  `db:"discipline" json:"disciplina"`
	Value       float64 `db:"value" json:"valor"`
}

type NewGrade struct {
	StudentID  int     `json:"aluno" validate:"required"`
	TermID     int     `json:"bimestre" validate:"required"`
	Discipline string  `json:"disciplina" validate:"required,disciplina"`
	Value      float64 `json:"valor" validate:"min=0,max=10"`
}

func (ng *NewGrade) Validate() error {
	return core.Validate.Struct(ng)
}

type UpdateGrade struct {
	Value float64 `json:"valor" validate:"min=0,max=10"`
}

func (ug *UpdateGrade) Validate() error {
	return core.Validate.Struct(ug)
}

type GradeQueryFilter struct {
	StudentID  int    `query:"aluno"`
	TermID     int    `query:"bimestre"`
	Discipline string `query:"disciplina"`
	// StudentIDs scopes to a caller's own students; nil means unrestricted.
	StudentIDs []int `query:"-"`
}

type PendingTask struct {
	ID          int       `db:"id" json:"id"`
	StudentID   int       `db:"student_id" json:"aluno"`
	StudentName string    `db:"-" json:"aluno_nome,omitempty"`
	Title       string    `db:"title" json:"titulo"`
	Description string    `db:"description" json:"descricao"`
	Deadline    core.Date `db:"deadline" json:"data_limite"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"data_criacao"`
}

type NewPendingTask struct {
	StudentID   int       `json:"aluno" validate:"required"`
	Title       string    `json:"titulo" validate:"required"`
	Description string    `json:"descricao"`
	Deadline    core.Date `json:"data_limite" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,atividadestatus"`
}

func (np *NewPendingTask) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	if np.Status == "" {
		np.Status = TaskStatusPending
	}
	return core.Validate.Struct(np)
}

type UpdatePendingTask struct {
	Title       string     `json:"titulo"`
	Description string     `json:"descricao"`
	Deadline    *core.Date `json:"data_limite"`
	Status      string     `json:"status" validate:"omitempty,atividadestatus"`
}

func (up *UpdatePendingTask) Validate(orig PendingTask) error {
	up.Title = core.CleanString(up.Title)
	up.Description = core.CleanString(up.Description)
	if up.Title == "" {
		up.Title = orig.Title
	}
	if up.Description == "" {
		up.Description = orig.Description
	}
	if up.Deadline == nil {
		d := orig.Deadline
		up.Deadline = &d
	}
	if up.Status == "" {
		up.Status = orig.Status
	}
	return core.Validate.Struct(up)
}

type TaskQueryFilter struct {
	StudentID int    `query:"aluno"`
	Status    string `query:"status"`
	// StudentIDs scopes to a caller's own students; nil means unrestricted.
	StudentIDs []int `query:"-"`
}

// Standing is the derived approval outcome for a student.
type Standing string

const (
	StandingApproved    Standing = "APROVADO"
	StandingNotApproved Standing = "NÃO APROVADO"
	StandingIncomplete  Standing = "INCOMPLETO"
)

// StandingReport carries the derived status plus the figures it was
// computed from so the dashboard can show its work.
type StandingReport struct {
	Status          Standing `json:"status"`
	AverageGrade    float64  `json:"media"`
	AttendanceRatio float64  `json:"frequencia"`
	GradeCount      int      `json:"total_notas"`
}
