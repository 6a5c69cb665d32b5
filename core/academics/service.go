package academics

import (
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/roster"
)

var (
	ErrTermNotFound  = errors.New("bimestre not found")
	ErrGradeNotFound = errors.New("nota not found")
	ErrTaskNotFound  = errors.New("atividade not found")
)

type (
	Repository interface {
		CreateTerm(t Term) (Term, error)
		GetTermByID(id int) (Term, error)
		FilterTerms() ([]Term, error)
		DeleteTermsByID(ids ...int) error

		CreateGrade(g Grade) (Grade, error)
		GetGradeByID(id int) (Grade, error)
		// GetGradeByKey looks up the unique (aluno, bimestre, disciplina) row.
		GetGradeByKey(studentID, termID int, discipline string) (Grade, error)
		FilterGrades(filter GradeQueryFilter) ([]Grade, error)
		UpdateGrade(g Grade) (Grade, error)
		DeleteGradesByID(ids ...int) error

		CreateTask(t PendingTask) (PendingTask, error)
		GetTaskByID(id int) (PendingTask, error)
		FilterTasks(filter TaskQueryFilter) ([]PendingTask, error)
		UpdateTask(t PendingTask) (PendingTask, error)
		DeleteTasksByID(ids ...int) error
	}

	Service struct {
		conf      *core.Config
		repo      Repository
		rosterSvc *roster.Service
	}
)

func NewService(conf *core.Config, repo Repository, rosterSvc *roster.Service) *Service {
	return &Service{conf: conf, repo: repo, rosterSvc: rosterSvc}
}

func (svc *Service) CreateTerm(nt NewTerm) (Term, error) {
	return svc.repo.CreateTerm(Term{Number: nt.Number, Year: nt.Year})
}

func (svc *Service) GetTerm(id int) (Term, error) {
	return svc.repo.GetTermByID(id)
}

func (svc *Service) FilterTerms() ([]Term, error) {
	return svc.repo.FilterTerms()
}

func (svc *Service) DeleteTerms(ids ...int) error {
	return svc.repo.DeleteTermsByID(ids...)
}

// CreateGrade records a nota; the (aluno, bimestre, disciplina) triple is
// unique, re-posting it updates the stored value instead of duplicating.
func (svc *Service) CreateGrade(ng NewGrade) (Grade, error) {
	if _, err := svc.rosterSvc.GetStudent(ng.StudentID); err != nil {
		return Grade{}, core.NewValidationError(err, core.FieldError{Field: "aluno", Error: roster.ErrStudentNotFound.Error()})
	}
	if _, err := svc.repo.GetTermByID(ng.TermID); err != nil {
		return Grade{}, core.NewValidationError(err, core.FieldError{Field: "bimestre", Error: ErrTermNotFound.Error()})
	}

	if existing, err := svc.repo.GetGradeByKey(ng.StudentID, ng.TermID, ng.Discipline); err == nil {
		existing.Value = ng.Value
		g, err := svc.repo.UpdateGrade(existing)
		if err != nil {
			return Grade{}, err
		}
		return svc.withNames(g)
	} else if err != ErrGradeNotFound {
		return Grade{}, err
	}

	g := Grade{
		StudentID:  ng.StudentID,
		TermID:     ng.TermID,
		Discipline: ng.Discipline,
		Value:      ng.Value,
	}
	g, err := svc.repo.CreateGrade(g)
	if err != nil {
		return Grade{}, err
	}
	return svc.withNames(g)
}

func (svc *Service) GetGrade(id int) (Grade, error) {
	g, err := svc.repo.GetGradeByID(id)
	if err != nil {
		return Grade{}, err
	}
	return svc.withNames(g)
}

func (svc *Service) FilterGrades(filter GradeQueryFilter) ([]Grade, error) {
	grades, err := svc.repo.FilterGrades(filter)
	if err != nil {
		return nil, err
	}
	for i, g := range grades {
		named, err := svc.withNames(g)
		if err != nil {
			return nil, err
		}
		grades[i] = named
	}
	return grades, nil
}

func (svc *Service) UpdateGrade(id int, ug UpdateGrade) (Grade, error) {
	g, err := svc.repo.GetGradeByID(id)
	if err != nil {
		return Grade{}, err
	}
	g.Value = ug.Value
	g, err = svc.repo.UpdateGrade(g)
	if err != nil {
		return Grade{}, err
	}
	return svc.withNames(g)
}

func (svc *Service) DeleteGrades(ids ...int) error {
	return svc.repo.DeleteGradesByID(ids...)
}

func (svc *Service) CreateTask(np NewPendingTask) (PendingTask, error) {
	if _, err := svc.rosterSvc.GetStudent(np.StudentID); err != nil {
		return PendingTask{}, core.NewValidationError(err, core.FieldError{Field: "aluno", Error: roster.ErrStudentNotFound.Error()})
	}
	t := PendingTask{
		StudentID:   np.StudentID,
		Title:       np.Title,
		Description: np.Description,
		Deadline:    np.Deadline,
		Status:      np.Status,
	}
	t, err := svc.repo.CreateTask(t)
	if err != nil {
		return PendingTask{}, err
	}
	return svc.taskWithName(t)
}

func (svc *Service) GetTask(id int) (PendingTask, error) {
	t, err := svc.repo.GetTaskByID(id)
	if err != nil {
		return PendingTask{}, err
	}
	return svc.taskWithName(t)
}

func (svc *Service) FilterTasks(filter TaskQueryFilter) ([]PendingTask, error) {
	tasks, err := svc.repo.FilterTasks(filter)
	if err != nil {
		return nil, err
	}
	for i, t := range tasks {
		named, err := svc.taskWithName(t)
		if err != nil {
			return nil, err
		}
		tasks[i] = named
	}
	return tasks, nil
}

func (svc *Service) UpdateTask(id int, up UpdatePendingTask) (PendingTask, error) {
	t, err := svc.repo.GetTaskByID(id)
	if err != nil {
		return PendingTask{}, err
	}
	if err = up.Validate(t); err != nil {
		return PendingTask{}, err
	}
	t.Title = up.Title
	t.Description = up.Description
	t.Deadline = *up.Deadline
	t.Status = up.Status
	t, err = svc.repo.UpdateTask(t)
	if err != nil {
		return PendingTask{}, err
	}
	return svc.taskWithName(t)
}

func (svc *Service) DeleteTasks(ids ...int) error {
	return svc.repo.DeleteTasksByID(ids...)
}

// ComputeStanding derives the approval outcome for a student from their
// recorded grades and attendance counters. No grades at all means the
// outcome cannot be computed yet.
func (svc *Service) ComputeStanding(studentID int) (StandingReport, error) {
	st, err := svc.rosterSvc.GetStudent(studentID)
	if err != nil {
		return StandingReport{}, err
	}
	grades, err := svc.repo.FilterGrades(GradeQueryFilter{StudentID: studentID})
	if err != nil {
		return StandingReport{}, err
	}
	return ComputeStanding(st, grades, svc.conf.Academic.MinPassingAverage, svc.conf.Academic.MinAttendanceRatio), nil
}

// ComputeStanding is the pure form of the approval rule. Both thresholds
// are inclusive; zero recorded lessons counts as zero attendance.
func ComputeStanding(st roster.Student, grades []Grade, minAverage, minAttendance float64) StandingReport {
	report := StandingReport{GradeCount: len(grades)}
	if len(grades) == 0 {
		report.Status = StandingIncomplete
		return report
	}

	var total float64
	for _, g := range grades {
		total += g.Value
	}
	report.AverageGrade = total / float64(len(grades))

	lessons := st.Presences + st.Absences
	if lessons > 0 {
		report.AttendanceRatio = float64(st.Presences) / float64(lessons)
	}

	if report.AverageGrade >= minAverage && report.AttendanceRatio >= minAttendance {
		report.Status = StandingApproved
	} else {
		report.Status = StandingNotApproved
	}
	return report
}

func (svc *Service) withNames(g Grade) (Grade, error) {
	st, err := svc.rosterSvc.GetStudent(g.StudentID)
	if err == nil {
		g.StudentName = st.Name
	} else if err != roster.ErrStudentNotFound {
		return Grade{}, err
	}
	term, err := svc.repo.GetTermByID(g.TermID)
	if err == nil {
		g.TermNumber = term.String()
	} else if err != ErrTermNotFound {
		return Grade{}, err
	}
	return g, nil
}

func (svc *Service) taskWithName(t PendingTask) (PendingTask, error) {
	st, err := svc.rosterSvc.GetStudent(t.StudentID)
	if err == nil {
		t.StudentName = st.Name
	} else if err != roster.ErrStudentNotFound {
		return PendingTask{}, err
	}
	return t, nil
}
