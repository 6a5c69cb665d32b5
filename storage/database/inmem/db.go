package inmemdb

import (
	"sync"

	"github.com/escoladigital/secretaria/core/academics"
	"github.com/escoladigital/secretaria/core/calendar"
	"github.com/escoladigital/secretaria/core/conduct"
	"github.com/escoladigital/secretaria/core/facility"
	"github.com/escoladigital/secretaria/core/library"
	"github.com/escoladigital/secretaria/core/planner"
	"github.com/escoladigital/secretaria/core/roster"
	"github.com/escoladigital/secretaria/core/staff"
	"github.com/escoladigital/secretaria/core/user"
)

// table is a mutex-guarded map with its own primary key sequence.
type table[T any] struct {
	mutex sync.RWMutex
	rows  map[int]*T
	seq   int
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int]*T)}
}

// DB is the in-memory backend used by tests and local development.
type DB struct {
	users       *table[user.User]
	resetTokens *table[user.PasswordResetToken]

	students  *table[roster.Student]
	guardians *table[roster.Guardian]
	teachers  *table[staff.Teacher]

	rooms        *table[facility.Room]
	reservations *table[facility.Reservation]

	books *table[library.Book]
	loans *table[library.Loan]

	warnings    *table[conduct.Warning]
	suspensions *table[conduct.Suspension]

	terms  *table[academics.Term]
	grades *table[academics.Grade]
	tasks  *table[academics.PendingTask]

	plans  *table[planner.WeeklyPlan]
	events *table[calendar.Event]
}

func NewDB() *DB {
	return &DB{
		users:        newTable[user.User](),
		resetTokens:  newTable[user.PasswordResetToken](),
		students:     newTable[roster.Student](),
		guardians:    newTable[roster.Guardian](),
		teachers:     newTable[staff.Teacher](),
		rooms:        newTable[facility.Room](),
		reservations: newTable[facility.Reservation](),
		books:        newTable[library.Book](),
		loans:        newTable[library.Loan](),
		warnings:     newTable[conduct.Warning](),
		suspensions:  newTable[conduct.Suspension](),
		terms:        newTable[academics.Term](),
		grades:       newTable[academics.Grade](),
		tasks:        newTable[academics.PendingTask](),
		plans:        newTable[planner.WeeklyPlan](),
		events:       newTable[calendar.Event](),
	}
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, *row)
	}
	return out
}
