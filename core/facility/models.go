package facility

import (
	"github.com/escoladigital/secretaria/core"
)

// Room type codes as stored; labels are the display names.
const (
	RoomTypeSala   = "SALA"
	RoomTypeLab    = "LAB"
	RoomTypeQuadra = "QUADRA"
)

var RoomTypeLabels = map[string]string{
	RoomTypeSala:   "Sala de Aula",
	RoomTypeLab:    "Laboratório",
	RoomTypeQuadra: "Quadra/Esporte",
}

func RoomTypeLabel(code string) string {
	if label, ok := RoomTypeLabels[code]; ok {
		return label
	}
	return code
}

type Room struct {
	ID        int    `db:"id" json:"id"`
	Name      string `db:"name" json:"nome"`
	Type      string `db:"type" json:"tipo"`
	TypeLabel string `db:"-" json:"tipo_display,omitempty"`
	Capacity  int    `db:"capacity" json:"capacidade"`
	Resources string `db:"resources" json:"recursos"`
}

type NewRoom struct {
	Name      string `json:"nome" validate:"required"`
	Type      string `json:"tipo" validate:"required,salatipo"`
	Capacity  int    `json:"capacidade" validate:"required,min=1"`
	Resources string `json:"recursos"`
}

func (nr *NewRoom) Validate() error {
	nr.Name = core.CleanString(nr.Name)
	return core.Validate.Struct(nr)
}

type UpdateRoom struct {
	Name      string `json:"nome"`
	Type      string `json:"tipo" validate:"omitempty,salatipo"`
	Capacity  int    `json:"capacidade" validate:"omitempty,min=1"`
	Resources string `json:"recursos"`
}

func (ur *UpdateRoom) Validate(orig Room) error {
	ur.Name = core.CleanString(ur.Name)
	if ur.Name == "" {
		ur.Name = orig.Name
	}
	if ur.Type == "" {
		ur.Type = orig.Type
	}
	if ur.Capacity == 0 {
		ur.Capacity = orig.Capacity
	}
	if ur.Resources == "" {
		ur.Resources = orig.Resources
	}
	return core.Validate.Struct(ur)
}

// Reservation times are wall-clock "HH:MM" strings; ordering and overlap
// checks rely on that format comparing lexicographically.
type Reservation struct {
	ID          int       `db:"id" json:"id"`
	TeacherID   int       `db:"teacher_id" json:"professor"`
	TeacherName string    `db:"-" json:"professor_nome,omitempty"`
	RoomID      int       `db:"room_id" json:"sala"`
	RoomName    string    `db:"-" json:"sala_nome,omitempty"`
	Date        core.Date `db:"date" json:"data"`
	StartTime   string    `db:"start_time" json:"horario_inicio"`
	EndTime     string    `db:"end_time" json:"horario_fim"`
}

type NewReservation struct {
	TeacherID int       `json:"professor" validate:"required"`
	RoomID    int       `json:"sala" validate:"required"`
	Date      core.Date `json:"data" validate:"required"`
	StartTime string    `json:"horario_inicio" validate:"required,timestr"`
	EndTime   string    `json:"horario_fim" validate:"required,timestr"`
}

func (nr *NewReservation) Validate() error {
	return core.Validate.Struct(nr)
}

type UpdateReservation struct {
	RoomID    int       `json:"sala"`
	Date      core.Date `json:"data"`
	StartTime string    `json:"horario_inicio" validate:"omitempty,timestr"`
	EndTime   string    `json:"horario_fim" validate:"omitempty,timestr"`
}

func (ur *UpdateReservation) Validate(orig Reservation) error {
	if ur.RoomID == 0 {
		ur.RoomID = orig.RoomID
	}
	if ur.Date.IsZero() {
		ur.Date = orig.Date
	}
	if ur.StartTime == "" {
		ur.StartTime = orig.StartTime
	}
	if ur.EndTime == "" {
		ur.EndTime = orig.EndTime
	}
	return core.Validate.Struct(ur)
}

type ReservationQueryFilter struct {
	TeacherID int        `query:"professor"`
	RoomID    int        `query:"sala"`
	Date      *core.Date `query:"data"`
	DateFrom  *core.Date `query:"de"` // inclusive lower bound
}
