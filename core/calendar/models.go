package calendar

import (
	"github.com/escoladigital/secretaria/core"
)

// Event type codes drive the dashboard calendar colors.
const (
	EventTypeExam    = "prova"
	EventTypeProject = "trabalho"
	EventTypeHoliday = "feriado"
	EventTypeGeneral = "evento"
)

var EventTypes = []string{EventTypeExam, EventTypeProject, EventTypeHoliday, EventTypeGeneral}

type Event struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"titulo"`
	Description string    `db:"description" json:"descricao"`
	Date        core.Date `db:"date" json:"data"`
	Type        string    `db:"type" json:"tipo"`
}

type NewEvent struct {
	Title       string    `json:"titulo" validate:"required"`
	Description string    `json:"descricao"`
	Date        core.Date `json:"data" validate:"required"`
	Type        string    `json:"tipo" validate:"required,eventotipo"`
}

func (ne *NewEvent) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	return core.Validate.Struct(ne)
}

type UpdateEvent struct {
	Title       string     `json:"titulo"`
	Description string     `json:"descricao"`
	Date        *core.Date `json:"data"`
	Type        string     `json:"tipo" validate:"omitempty,eventotipo"`
}

func (ue *UpdateEvent) Validate(orig Event) error {
	ue.Title = core.CleanString(ue.Title)
	ue.Description = core.CleanString(ue.Description)
	if ue.Title == "" {
		ue.Title = orig.Title
	}
	if ue.Description == "" {
		ue.Description = orig.Description
	}
	if ue.Date == nil {
		d := orig.Date
		ue.Date = &d
	}
	if ue.Type == "" {
		ue.Type = orig.Type
	}
	return core.Validate.Struct(ue)
}

type QueryFilter struct {
	Type string     `query:"tipo"`
	From *core.Date `query:"de"`
	To   *core.Date `query:"ate"`
}
