package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
)

// State is where a screen is in its lifecycle. Loading always supersedes a
// previous load instead of queueing behind it.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Criteria keys a filter input per field name. Empty values are ignored.
type Criteria map[string]string

// Screen drives one entity's list-and-CRUD view. It owns a snapshot of the
// collection, guards mutations with the rule table before any request goes
// out, and tags loads with a generation counter so a stale response never
// overwrites a newer one.
type Screen[T any] struct {
	client   *Client
	path     string
	resource authz.Resource

	// TextFields match criteria by case-insensitive substring; CodeFields
	// (turma, tipo...) match exactly. Unknown criteria keys are ignored.
	TextFields map[string]func(T) string
	CodeFields map[string]func(T) string

	// Confirm gates Remove. Leaving it unset makes Remove a no-op, which
	// forces callers to wire a real prompt.
	Confirm func(id int) bool

	mutex      sync.Mutex
	generation uint64
	state      State
	records    []T
	err        error
}

func NewScreen[T any](client *Client, path string, resource authz.Resource) *Screen[T] {
	return &Screen[T]{
		client:   client,
		path:     path,
		resource: resource,
		state:    StateIdle,
	}
}

// Load fetches the collection snapshot. A Load issued while another is in
// flight supersedes it: whichever response belongs to the newest generation
// wins, older responses are dropped on arrival. Errors land in the screen
// state and are also returned; the record list is emptied on failure.
func (s *Screen[T]) Load(ctx context.Context) error {
	s.mutex.Lock()
	s.generation++
	gen := s.generation
	s.state = StateLoading
	s.mutex.Unlock()

	items, err := s.client.List(ctx, s.path, nil)
	var records []T
	if err == nil {
		records, err = decodeRecords[T](items)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if gen != s.generation {
		// a newer load owns the screen now
		return nil
	}
	if err != nil {
		s.state = StateErrored
		s.err = err
		s.records = nil
		return err
	}
	s.state = StateLoaded
	s.err = nil
	s.records = records
	return nil
}

// Records returns the current snapshot.
func (s *Screen[T]) Records() []T {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.records
}

func (s *Screen[T]) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

func (s *Screen[T]) Err() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.err
}

// Filter derives a view of records matching criteria. It is pure: the input
// slice is never mutated, empty criteria return it unchanged, and applying
// the same criteria twice yields the same result.
func (s *Screen[T]) Filter(records []T, criteria Criteria) []T {
	active := make(Criteria, len(criteria))
	for k, v := range criteria {
		if v != "" {
			active[k] = v
		}
	}
	if len(active) == 0 {
		return records
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if s.matches(rec, active) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Screen[T]) matches(rec T, criteria Criteria) bool {
	for key, want := range criteria {
		if get, ok := s.TextFields[key]; ok {
			if !strings.Contains(strings.ToLower(get(rec)), strings.ToLower(want)) {
				return false
			}
			continue
		}
		if get, ok := s.CodeFields[key]; ok {
			if get(rec) != want {
				return false
			}
		}
	}
	return true
}

// Create posts a new record and reloads on success. The rule table is
// consulted first so a denied role never fires the request. A validation
// failure comes back to the form and leaves the loaded list intact.
func (s *Screen[T]) Create(ctx context.Context, payload interface{}) error {
	if err := s.can(authz.ActionCreate); err != nil {
		return err
	}
	if err := s.client.Post(ctx, s.path, payload, nil); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Update edits an existing record and reloads on success.
func (s *Screen[T]) Update(ctx context.Context, id int, payload interface{}) error {
	if err := s.can(authz.ActionUpdate); err != nil {
		return err
	}
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", s.path, id), payload, nil); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Remove deletes a record after the confirmation gate says yes. A declined
// confirmation is a silent no-op.
func (s *Screen[T]) Remove(ctx context.Context, id int) error {
	if err := s.can(authz.ActionDelete); err != nil {
		return err
	}
	if s.Confirm == nil || !s.Confirm(id) {
		return nil
	}
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", s.path, id)); err != nil {
		return err
	}
	return s.Load(ctx)
}

func (s *Screen[T]) can(action authz.Action) error {
	session := s.client.Session()
	if !session.Authenticated() {
		return ErrAuthenticationMissing
	}
	if !authz.CanPerform(session.Role, action, s.resource) {
		return &AuthorizationDeniedError{}
	}
	return nil
}

func decodeRecords[T any](items []json.RawMessage) ([]T, error) {
	records := make([]T, 0, len(items))
	for _, item := range items {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, errors.Wrap(err, "decoding record")
		}
		records = append(records, rec)
	}
	return records, nil
}

// CheckReservationTimes mirrors the server's ordering rule so the booking
// form rejects an inverted horário before any network call. Overlap and the
// per-teacher limit stay server-side; their messages surface verbatim.
func CheckReservationTimes(inicio, fim string) error {
	if inicio >= fim {
		return &ValidationError{Fields: map[string]string{
			"horario_fim": "O horário de término deve ser posterior ao horário de início.",
		}}
	}
	return nil
}
