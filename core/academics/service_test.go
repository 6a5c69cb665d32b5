package academics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escoladigital/secretaria/core/roster"
)

const (
	minAverage    = 6.0
	minAttendance = 0.75
)

func grades(values ...float64) []Grade {
	gs := make([]Grade, len(values))
	for i, v := range values {
		gs[i] = Grade{Value: v}
	}
	return gs
}

func TestComputeStanding(t *testing.T) {
	tests := []struct {
		name       string
		student    roster.Student
		grades     []Grade
		wantStatus Standing
	}{
		{
			name:       "no grades is incomplete",
			student:    roster.Student{Presences: 40, Absences: 0},
			grades:     nil,
			wantStatus: StandingIncomplete,
		},
		{
			name:       "average and attendance above thresholds",
			student:    roster.Student{Presences: 30, Absences: 10},
			grades:     grades(8, 9, 7, 6),
			wantStatus: StandingApproved,
		},
		{
			name:       "attendance just below threshold",
			student:    roster.Student{Presences: 29, Absences: 11},
			grades:     grades(8, 9, 7, 6),
			wantStatus: StandingNotApproved,
		},
		{
			name:       "thresholds are inclusive",
			student:    roster.Student{Presences: 3, Absences: 1},
			grades:     grades(6, 6, 6, 6),
			wantStatus: StandingApproved,
		},
		{
			name:       "average below threshold",
			student:    roster.Student{Presences: 40, Absences: 0},
			grades:     grades(5, 5, 6, 6),
			wantStatus: StandingNotApproved,
		},
		{
			name:       "no recorded lessons counts as zero attendance",
			student:    roster.Student{Presences: 0, Absences: 0},
			grades:     grades(10, 10),
			wantStatus: StandingNotApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ComputeStanding(tt.student, tt.grades, minAverage, minAttendance)
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, len(tt.grades), report.GradeCount)
		})
	}
}

func TestComputeStandingFigures(t *testing.T) {
	st := roster.Student{Presences: 30, Absences: 10}
	report := ComputeStanding(st, grades(8, 9, 7, 6), minAverage, minAttendance)

	assert.Equal(t, StandingApproved, report.Status)
	assert.InDelta(t, 7.5, report.AverageGrade, 1e-9)
	assert.InDelta(t, 0.75, report.AttendanceRatio, 1e-9)
}
