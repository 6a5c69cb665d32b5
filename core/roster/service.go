package roster

import (
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/user"
)

var (
	ErrStudentNotFound  = errors.New("aluno not found")
	ErrGuardianNotFound = errors.New("responsavel not found")
)

type (
	Repository interface {
		CreateStudent(st Student) (Student, error)
		GetStudentByID(id int) (Student, error)
		GetStudentByUserID(userID int) (Student, error)
		// FilterStudents applies AND on available filter fields; Search is a
		// case-insensitive match on name, CPF or email.
		FilterStudents(filter StudentQueryFilter) ([]Student, error)
		// StudentsByClassCodes lists students enrolled in any of the turmas.
		StudentsByClassCodes(codes []string) ([]Student, error)
		UpdateStudent(st Student) (Student, error)
		DeleteStudentsByID(ids ...int) error

		CreateGuardian(g Guardian) (Guardian, error)
		GetGuardianByID(id int) (Guardian, error)
		GetGuardianByUserID(userID int) (Guardian, error)
		FilterGuardians(filter GuardianQueryFilter) ([]Guardian, error)
		UpdateGuardian(g Guardian) (Guardian, error)
		DeleteGuardiansByID(ids ...int) error
	}

	Service struct {
		repo   Repository
		usrSvc *user.Service
	}
)

func NewService(repo Repository, usrSvc *user.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc}
}

// CreateStudent registers the Aluno profile and provisions its login account
// with a generated password; the owner claims it through the reset flow.
func (svc *Service) CreateStudent(ns NewStudent) (Student, error) {
	if ns.GuardianID.Valid {
		if _, err := svc.repo.GetGuardianByID(int(ns.GuardianID.Int64)); err != nil {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "responsavel", Error: ErrGuardianNotFound.Error()})
		}
	}

	usr, err := svc.usrSvc.Create(user.NewUser{
		Name:  ns.Name,
		CPF:   ns.CPF,
		Email: ns.Email,
		Role:  authz.RoleAluno,
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating login account")
	}

	st := Student{
		UserID:          null.Int64From(int64(usr.ID)),
		Name:            ns.Name,
		Phone:           ns.Phone,
		Email:           ns.Email,
		CPF:             ns.CPF,
		Birthday:        ns.Birthday,
		ClassCode:       ns.ClassCode,
		EnrollmentMonth: ns.EnrollmentMonth,
		AcademicYear:    ns.AcademicYear,
		GuardianID:      ns.GuardianID,
		Active:          true,
		Comment:         ns.Comment,
	}
	return svc.repo.CreateStudent(st)
}

func (svc *Service) GetStudent(id int) (Student, error) {
	st, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	return svc.withGuardianName(st)
}

func (svc *Service) GetStudentByUser(userID int) (Student, error) {
	st, err := svc.repo.GetStudentByUserID(userID)
	if err != nil {
		return Student{}, err
	}
	return svc.withGuardianName(st)
}

func (svc *Service) FilterStudents(filter StudentQueryFilter) ([]Student, error) {
	filter.Clean()
	students, err := svc.repo.FilterStudents(filter)
	if err != nil {
		return nil, err
	}
	return svc.withGuardianNames(students)
}

// StudentsOfGuardian lists the students a Responsavel account is linked to.
func (svc *Service) StudentsOfGuardian(userID int) ([]Student, error) {
	g, err := svc.repo.GetGuardianByUserID(userID)
	if err != nil {
		if err == ErrGuardianNotFound {
			return []Student{}, nil
		}
		return nil, err
	}
	return svc.repo.FilterStudents(StudentQueryFilter{GuardianID: g.ID})
}

// StudentsOfTeacher lists students of every turma the teacher plans lessons
// for. The turma list comes from the planner; an empty list yields no rows.
func (svc *Service) StudentsOfTeacher(classCodes []string) ([]Student, error) {
	if len(classCodes) == 0 {
		return []Student{}, nil
	}
	students, err := svc.repo.StudentsByClassCodes(classCodes)
	if err != nil {
		return nil, err
	}
	return svc.withGuardianNames(students)
}

func (svc *Service) UpdateStudent(id int, us UpdateStudent) (Student, error) {
	st, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if us.GuardianID != nil && us.GuardianID.Valid {
		if _, err := svc.repo.GetGuardianByID(int(us.GuardianID.Int64)); err != nil {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "responsavel", Error: ErrGuardianNotFound.Error()})
		}
	}
	us.Apply(&st)
	st, err = svc.repo.UpdateStudent(st)
	if err != nil {
		return Student{}, err
	}
	return svc.withGuardianName(st)
}

func (svc *Service) DeleteStudents(ids ...int) error {
	return svc.repo.DeleteStudentsByID(ids...)
}

func (svc *Service) CreateGuardian(ng NewGuardian) (Guardian, error) {
	usr, err := svc.usrSvc.Create(user.NewUser{
		Name:  ng.Name,
		CPF:   ng.CPF,
		Email: ng.Email,
		Role:  authz.RoleResponsavel,
	})
	if err != nil {
		return Guardian{}, errors.Wrap(err, "creating login account")
	}

	g := Guardian{
		UserID:   null.Int64From(int64(usr.ID)),
		Name:     ng.Name,
		Phone:    ng.Phone,
		Email:    ng.Email,
		CPF:      ng.CPF,
		Birthday: ng.Birthday,
		Address:  ng.Address,
	}
	return svc.repo.CreateGuardian(g)
}

func (svc *Service) GetGuardian(id int) (Guardian, error) {
	return svc.repo.GetGuardianByID(id)
}

func (svc *Service) GetGuardianByUser(userID int) (Guardian, error) {
	return svc.repo.GetGuardianByUserID(userID)
}

func (svc *Service) FilterGuardians(filter GuardianQueryFilter) ([]Guardian, error) {
	filter.Search = core.CleanString(filter.Search)
	return svc.repo.FilterGuardians(filter)
}

func (svc *Service) UpdateGuardian(id int, ug UpdateGuardian) (Guardian, error) {
	g, err := svc.repo.GetGuardianByID(id)
	if err != nil {
		return Guardian{}, err
	}
	if err = ug.Validate(g); err != nil {
		return Guardian{}, err
	}
	g.Name = ug.Name
	g.Phone = ug.Phone
	g.Email = ug.Email
	g.Birthday = ug.Birthday
	g.Address = ug.Address
	return svc.repo.UpdateGuardian(g)
}

func (svc *Service) DeleteGuardians(ids ...int) error {
	return svc.repo.DeleteGuardiansByID(ids...)
}

func (svc *Service) withGuardianName(st Student) (Student, error) {
	if !st.GuardianID.Valid {
		return st, nil
	}
	g, err := svc.repo.GetGuardianByID(int(st.GuardianID.Int64))
	if err != nil {
		if err == ErrGuardianNotFound {
			return st, nil
		}
		return Student{}, err
	}
	st.GuardianName = g.Name
	return st, nil
}

func (svc *Service) withGuardianNames(students []Student) ([]Student, error) {
	for i, st := range students {
		named, err := svc.withGuardianName(st)
		if err != nil {
			return nil, err
		}
		students[i] = named
	}
	return students, nil
}
