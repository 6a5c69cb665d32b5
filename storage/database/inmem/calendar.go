package inmemdb

import (
	"sort"

	"github.com/escoladigital/secretaria/core/calendar"
)

type calendarRepository struct {
	events *table[calendar.Event]
}

var _ calendar.Repository = (*calendarRepository)(nil)

func NewCalendarRepository(db *DB) calendar.Repository {
	return &calendarRepository{events: db.events}
}

func (repo *calendarRepository) CreateEvent(e calendar.Event) (calendar.Event, error) {
	repo.events.mutex.Lock()
	defer repo.events.mutex.Unlock()

	repo.events.seq++
	e.ID = repo.events.seq
	repo.events.rows[e.ID] = &e
	return e, nil
}

func (repo *calendarRepository) GetEventByID(id int) (calendar.Event, error) {
	repo.events.mutex.RLock()
	defer repo.events.mutex.RUnlock()

	if e, ok := repo.events.rows[id]; ok {
		return *e, nil
	}
	return calendar.Event{}, calendar.ErrEventNotFound
}

func (repo *calendarRepository) FilterEvents(filter calendar.QueryFilter) ([]calendar.Event, error) {
	repo.events.mutex.RLock()
	defer repo.events.mutex.RUnlock()

	events := make([]calendar.Event, 0)
	for _, e := range repo.events.all() {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && filter.To.Before(e.Date) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date.Time) {
			return events[i].Date.Time.Before(events[j].Date.Time)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (repo *calendarRepository) UpdateEvent(e calendar.Event) (calendar.Event, error) {
	repo.events.mutex.Lock()
	defer repo.events.mutex.Unlock()

	if _, ok := repo.events.rows[e.ID]; !ok {
		return calendar.Event{}, calendar.ErrEventNotFound
	}
	repo.events.rows[e.ID] = &e
	return e, nil
}

func (repo *calendarRepository) DeleteEventsByID(ids ...int) error {
	repo.events.mutex.Lock()
	defer repo.events.mutex.Unlock()
	for _, id := range ids {
		delete(repo.events.rows, id)
	}
	return nil
}
