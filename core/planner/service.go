package planner

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/roster"
	"github.com/escoladigital/secretaria/core/staff"
)

var ErrPlanNotFound = errors.New("planejamento not found")

type (
	Repository interface {
		CreatePlan(p WeeklyPlan) (WeeklyPlan, error)
		GetPlanByID(id int) (WeeklyPlan, error)
		FilterPlans(filter QueryFilter) ([]WeeklyPlan, error)
		UpdatePlan(p WeeklyPlan) (WeeklyPlan, error)
		DeletePlansByID(ids ...int) error
	}

	Service struct {
		repo     Repository
		staffSvc *staff.Service
	}
)

func NewService(repo Repository, staffSvc *staff.Service) *Service {
	return &Service{repo: repo, staffSvc: staffSvc}
}

func (svc *Service) Create(np NewWeeklyPlan) (WeeklyPlan, error) {
	if _, err := svc.staffSvc.Get(np.TeacherID); err != nil {
		return WeeklyPlan{}, err
	}
	p := WeeklyPlan{
		TeacherID:  np.TeacherID,
		ClassCode:  np.ClassCode,
		Discipline: np.Discipline,
		LessonDate: np.LessonDate,
		Shift:      np.Shift,
		Content:    np.Content,
		Activities: np.Activities,
		Resources:  np.Resources,
		Notes:      np.Notes,
	}
	p, err := svc.repo.CreatePlan(p)
	if err != nil {
		return WeeklyPlan{}, err
	}
	return svc.withName(p)
}

func (svc *Service) Get(id int) (WeeklyPlan, error) {
	p, err := svc.repo.GetPlanByID(id)
	if err != nil {
		return WeeklyPlan{}, err
	}
	return svc.withName(p)
}

func (svc *Service) Filter(filter QueryFilter) ([]WeeklyPlan, error) {
	plans, err := svc.repo.FilterPlans(filter)
	if err != nil {
		return nil, err
	}
	for i, p := range plans {
		named, err := svc.withName(p)
		if err != nil {
			return nil, err
		}
		plans[i] = named
	}
	return plans, nil
}

// ClassCodesOfTeacher lists the distinct turmas a teacher has planned
// lessons for; the roster uses it to scope a teacher's student list.
func (svc *Service) ClassCodesOfTeacher(teacherID int) ([]string, error) {
	plans, err := svc.repo.FilterPlans(QueryFilter{TeacherID: teacherID})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(plans))
	var codes []string
	for _, p := range plans {
		if _, ok := seen[p.ClassCode]; ok {
			continue
		}
		seen[p.ClassCode] = struct{}{}
		codes = append(codes, p.ClassCode)
	}
	return codes, nil
}

func (svc *Service) Update(id int, up UpdateWeeklyPlan) (WeeklyPlan, error) {
	p, err := svc.repo.GetPlanByID(id)
	if err != nil {
		return WeeklyPlan{}, err
	}
	if err = up.Validate(p); err != nil {
		return WeeklyPlan{}, err
	}
	up.Apply(&p)
	p, err = svc.repo.UpdatePlan(p)
	if err != nil {
		return WeeklyPlan{}, err
	}
	return svc.withName(p)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeletePlansByID(ids...)
}

// FormOptions returns the select options shown by the planning form.
func (svc *Service) FormOptions() Options {
	opts := Options{
		Shifts: []Option{
			{Value: ShiftMorning, Label: ShiftLabels[ShiftMorning]},
			{Value: ShiftAfternoon, Label: ShiftLabels[ShiftAfternoon]},
			{Value: ShiftEvening, Label: ShiftLabels[ShiftEvening]},
		},
	}
	for _, code := range roster.ClassCodes {
		opts.ClassCodes = append(opts.ClassCodes, Option{
			Value: code,
			Label: fmt.Sprintf("%c ANO %c", code[0], code[1]),
		})
	}
	return opts
}

func (svc *Service) withName(p WeeklyPlan) (WeeklyPlan, error) {
	t, err := svc.staffSvc.Get(p.TeacherID)
	if err == nil {
		p.TeacherName = t.Name
	} else if err != staff.ErrTeacherNotFound {
		return WeeklyPlan{}, err
	}
	return p, nil
}
