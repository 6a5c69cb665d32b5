package conduct

import (
	"github.com/escoladigital/secretaria/core"
)

// WarningReasons keys the advertência motivo codes to display labels.
var WarningReasons = map[string]string{
	"FJI":    "Faltas injustificadas",
	"DSP":    "Desrespeito a colegas ou professores",
	"CEL":    "Uso de celular sem autorização",
	"RGR":    "Descumprimento das regras da escola",
	"AGV":    "Agressões verbais",
	"DPM":    "Dano leve ao patrimônio escolar",
	"DOB":    "Desobediência a orientações",
	"IND":    "Atos de indisciplina em sala",
	"UNI":    "Uso inadequado do uniforme",
	"CPM":    "Comportamento impróprio no ambiente escolar",
	"LGF":    "Uso de linguagem ofensiva",
	"FRA":    "Cola ou fraude em avaliações",
	"BLG":    "Bullying ou assédio",
	"OUTROS": "Outros motivos",
}

// SuspensionReasons keys the suspensão motivo codes to display labels.
var SuspensionReasons = map[string]string{
	"AGF":   "Agressão física a colegas ou funcionários",
	"AME":   "Ameaças verbais ou físicas",
	"BLG-R": "Bullying recorrente ou grave",
	"DSP-G": "Desrespeito grave à autoridade escolar",
	"VDM":   "Vandalismo / dano intencional ao patrimônio",
	"SUB":   "Uso ou posse de substâncias proibidas",
	"REC":   "Reincidência em comportamentos advertidos",
	"IMP":   "Divulgação de conteúdo impróprio",
	"RFT":   "Roubo ou furto na escola",
	"BRG":   "Participação em brigas ou tumultos graves",
	"RSC":   "Comportamento de risco à integridade física",
	"PRG":   "Porte de armas ou objetos perigosos",
	"FAL":   "Falsificação de documentos ou assinaturas",
	"RES":   "Desrespeito extremo em ambiente escolar",
	"SEG":   "Violação grave de normas de segurança",
}

type Warning struct {
	ID          int       `db:"id" json:"id"`
	StudentID   int       `db:"student_id" json:"aluno"`
	StudentName string    `db:"-" json:"aluno_nome,omitempty"`
	Date        core.Date `db:"date" json:"data"`
	Reason      string    `db:"reason" json:"motivo"`
	Notes       string    `db:"notes" json:"observacao"`
}

type NewWarning struct {
	StudentID int       `json:"aluno" validate:"required"`
	Date      core.Date `json:"data" validate:"required"`
	Reason    string    `json:"motivo" validate:"required,advmotivo"`
	Notes     string    `json:"observacao"`
}

func (nw *NewWarning) Validate() error {
	nw.Notes = core.CleanString(nw.Notes)
	return core.Validate.Struct(nw)
}

type UpdateWarning struct {
	Date   *core.Date `json:"data"`
	Reason string     `json:"motivo" validate:"omitempty,advmotivo"`
	Notes  *string    `json:"observacao"`
}

func (uw *UpdateWarning) Validate() error {
	if uw.Notes != nil {
		*uw.Notes = core.CleanString(*uw.Notes)
	}
	return core.Validate.Struct(uw)
}

type Suspension struct {
	ID          int       `db:"id" json:"id"`
	StudentID   int       `db:"student_id" json:"aluno"`
	StudentName string    `db:"-" json:"aluno_nome,omitempty"`
	StartDate   core.Date `db:"start_date" json:"data_inicio"`
	EndDate     core.Date `db:"end_date" json:"data_fim"`
	Reason      string    `db:"reason" json:"motivo"`
	Notes       string    `db:"notes" json:"observacao"`
}

type NewSuspension struct {
	StudentID int       `json:"aluno" validate:"required"`
	StartDate core.Date `json:"data_inicio" validate:"required"`
	EndDate   core.Date `json:"data_fim" validate:"required"`
	Reason    string    `json:"motivo" validate:"required,suspmotivo"`
	Notes     string    `json:"observacao"`
}

func (ns *NewSuspension) Validate() error {
	ns.Notes = core.CleanString(ns.Notes)
	return core.Validate.Struct(ns)
}

type UpdateSuspension struct {
	StartDate *core.Date `json:"data_inicio"`
	EndDate   *core.Date `json:"data_fim"`
	Reason    string     `json:"motivo" validate:"omitempty,suspmotivo"`
	Notes     *string    `json:"observacao"`
}

func (us *UpdateSuspension) Validate() error {
	if us.Notes != nil {
		*us.Notes = core.CleanString(*us.Notes)
	}
	return core.Validate.Struct(us)
}

type QueryFilter struct {
	StudentID int `query:"aluno"`
	// StudentIDs scopes to a caller's own students; nil means unrestricted.
	StudentIDs []int `query:"-"`
}
