package calendar

import (
	"github.com/pkg/errors"
)

var ErrEventNotFound = errors.New("evento not found")

type (
	Repository interface {
		CreateEvent(e Event) (Event, error)
		GetEventByID(id int) (Event, error)
		FilterEvents(filter QueryFilter) ([]Event, error)
		UpdateEvent(e Event) (Event, error)
		DeleteEventsByID(ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ne NewEvent) (Event, error) {
	e := Event{
		Title:       ne.Title,
		Description: ne.Description,
		Date:        ne.Date,
		Type:        ne.Type,
	}
	return svc.repo.CreateEvent(e)
}

func (svc *Service) Get(id int) (Event, error) {
	return svc.repo.GetEventByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Event, error) {
	return svc.repo.FilterEvents(filter)
}

func (svc *Service) Update(id int, ue UpdateEvent) (Event, error) {
	e, err := svc.repo.GetEventByID(id)
	if err != nil {
		return Event{}, err
	}
	if err = ue.Validate(e); err != nil {
		return Event{}, err
	}
	e.Title = ue.Title
	e.Description = ue.Description
	e.Date = *ue.Date
	e.Type = ue.Type
	return svc.repo.UpdateEvent(e)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteEventsByID(ids...)
}
