package conduct

import (
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/roster"
)

var (
	ErrWarningNotFound    = errors.New("advertência not found")
	ErrSuspensionNotFound = errors.New("suspensão not found")

	errEndBeforeStart = "A data final deve ser igual ou posterior à data inicial."
)

type (
	Repository interface {
		CreateWarning(w Warning) (Warning, error)
		GetWarningByID(id int) (Warning, error)
		FilterWarnings(filter QueryFilter) ([]Warning, error)
		UpdateWarning(w Warning) (Warning, error)
		DeleteWarningsByID(ids ...int) error

		CreateSuspension(s Suspension) (Suspension, error)
		GetSuspensionByID(id int) (Suspension, error)
		FilterSuspensions(filter QueryFilter) ([]Suspension, error)
		UpdateSuspension(s Suspension) (Suspension, error)
		DeleteSuspensionsByID(ids ...int) error
	}

	Service struct {
		repo      Repository
		rosterSvc *roster.Service
	}
)

func NewService(repo Repository, rosterSvc *roster.Service) *Service {
	return &Service{repo: repo, rosterSvc: rosterSvc}
}

func (svc *Service) CreateWarning(nw NewWarning) (Warning, error) {
	if _, err := svc.rosterSvc.GetStudent(nw.StudentID); err != nil {
		return Warning{}, core.NewValidationError(err, core.FieldError{Field: "aluno", Error: roster.ErrStudentNotFound.Error()})
	}
	w := Warning{
		StudentID: nw.StudentID,
		Date:      nw.Date,
		Reason:    nw.Reason,
		Notes:     nw.Notes,
	}
	w, err := svc.repo.CreateWarning(w)
	if err != nil {
		return Warning{}, err
	}
	return svc.warningWithName(w)
}

func (svc *Service) GetWarning(id int) (Warning, error) {
	w, err := svc.repo.GetWarningByID(id)
	if err != nil {
		return Warning{}, err
	}
	return svc.warningWithName(w)
}

func (svc *Service) FilterWarnings(filter QueryFilter) ([]Warning, error) {
	warnings, err := svc.repo.FilterWarnings(filter)
	if err != nil {
		return nil, err
	}
	for i, w := range warnings {
		named, err := svc.warningWithName(w)
		if err != nil {
			return nil, err
		}
		warnings[i] = named
	}
	return warnings, nil
}

func (svc *Service) UpdateWarning(id int, uw UpdateWarning) (Warning, error) {
	w, err := svc.repo.GetWarningByID(id)
	if err != nil {
		return Warning{}, err
	}
	if err = uw.Validate(); err != nil {
		return Warning{}, err
	}
	if uw.Date != nil {
		w.Date = *uw.Date
	}
	if uw.Reason != "" {
		w.Reason = uw.Reason
	}
	if uw.Notes != nil {
		w.Notes = *uw.Notes
	}
	w, err = svc.repo.UpdateWarning(w)
	if err != nil {
		return Warning{}, err
	}
	return svc.warningWithName(w)
}

func (svc *Service) DeleteWarnings(ids ...int) error {
	return svc.repo.DeleteWarningsByID(ids...)
}

func (svc *Service) CreateSuspension(ns NewSuspension) (Suspension, error) {
	if _, err := svc.rosterSvc.GetStudent(ns.StudentID); err != nil {
		return Suspension{}, core.NewValidationError(err, core.FieldError{Field: "aluno", Error: roster.ErrStudentNotFound.Error()})
	}
	if ns.EndDate.Before(ns.StartDate) {
		return Suspension{}, core.NewValidationError(
			errors.New(errEndBeforeStart),
			core.FieldError{Field: "data_fim", Error: errEndBeforeStart},
		)
	}
	s := Suspension{
		StudentID: ns.StudentID,
		StartDate: ns.StartDate,
		EndDate:   ns.EndDate,
		Reason:    ns.Reason,
		Notes:     ns.Notes,
	}
	s, err := svc.repo.CreateSuspension(s)
	if err != nil {
		return Suspension{}, err
	}
	return svc.suspensionWithName(s)
}

func (svc *Service) GetSuspension(id int) (Suspension, error) {
	s, err := svc.repo.GetSuspensionByID(id)
	if err != nil {
		return Suspension{}, err
	}
	return svc.suspensionWithName(s)
}

func (svc *Service) FilterSuspensions(filter QueryFilter) ([]Suspension, error) {
	suspensions, err := svc.repo.FilterSuspensions(filter)
	if err != nil {
		return nil, err
	}
	for i, s := range suspensions {
		named, err := svc.suspensionWithName(s)
		if err != nil {
			return nil, err
		}
		suspensions[i] = named
	}
	return suspensions, nil
}

func (svc *Service) UpdateSuspension(id int, us UpdateSuspension) (Suspension, error) {
	s, err := svc.repo.GetSuspensionByID(id)
	if err != nil {
		return Suspension{}, err
	}
	if err = us.Validate(); err != nil {
		return Suspension{}, err
	}
	if us.StartDate != nil {
		s.StartDate = *us.StartDate
	}
	if us.EndDate != nil {
		s.EndDate = *us.EndDate
	}
	if us.Reason != "" {
		s.Reason = us.Reason
	}
	if us.Notes != nil {
		s.Notes = *us.Notes
	}
	if s.EndDate.Before(s.StartDate) {
		return Suspension{}, core.NewValidationError(
			errors.New(errEndBeforeStart),
			core.FieldError{Field: "data_fim", Error: errEndBeforeStart},
		)
	}
	s, err = svc.repo.UpdateSuspension(s)
	if err != nil {
		return Suspension{}, err
	}
	return svc.suspensionWithName(s)
}

func (svc *Service) DeleteSuspensions(ids ...int) error {
	return svc.repo.DeleteSuspensionsByID(ids...)
}

func (svc *Service) warningWithName(w Warning) (Warning, error) {
	st, err := svc.rosterSvc.GetStudent(w.StudentID)
	if err == nil {
		w.StudentName = st.Name
	} else if err != roster.ErrStudentNotFound {
		return Warning{}, err
	}
	return w, nil
}

func (svc *Service) suspensionWithName(s Suspension) (Suspension, error) {
	st, err := svc.rosterSvc.GetStudent(s.StudentID)
	if err == nil {
		s.StudentName = st.Name
	} else if err != roster.ErrStudentNotFound {
		return Suspension{}, err
	}
	return s, nil
}
