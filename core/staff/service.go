package staff

import (
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/user"
)

var (
	ErrTeacherNotFound    = errors.New("professor not found")
	ErrRegistrationExists = errors.New("matrícula já cadastrada")
)

type (
	Repository interface {
		CreateTeacher(t Teacher) (Teacher, error)
		GetTeacherByID(id int) (Teacher, error)
		GetTeacherByUserID(userID int) (Teacher, error)
		GetTeacherByRegistration(registration string) (Teacher, error)
		FilterTeachers(filter QueryFilter) ([]Teacher, error)
		UpdateTeacher(t Teacher) (Teacher, error)
		DeleteTeachersByID(ids ...int) error
	}

	Service struct {
		repo   Repository
		usrSvc *user.Service
	}
)

func NewService(repo Repository, usrSvc *user.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc}
}

// Create registers the Professor profile and provisions its login account.
func (svc *Service) Create(nt NewTeacher) (Teacher, error) {
	if _, err := svc.repo.GetTeacherByRegistration(nt.Registration); err == nil {
		return Teacher{}, core.NewValidationError(ErrRegistrationExists, core.FieldError{Field: "matricula_professor", Error: ErrRegistrationExists.Error()})
	} else if err != ErrTeacherNotFound {
		return Teacher{}, err
	}

	usr, err := svc.usrSvc.Create(user.NewUser{
		Name:  nt.Name,
		CPF:   nt.CPF,
		Email: nt.Email,
		Role:  authz.RoleProfessor,
	})
	if err != nil {
		return Teacher{}, errors.Wrap(err, "creating login account")
	}

	t := Teacher{
		UserID:       null.Int64From(int64(usr.ID)),
		Name:         nt.Name,
		Phone:        nt.Phone,
		Email:        nt.Email,
		CPF:          nt.CPF,
		Birthday:     nt.Birthday,
		Registration: nt.Registration,
		Discipline:   nt.Discipline,
	}
	t, err = svc.repo.CreateTeacher(t)
	if err != nil {
		return Teacher{}, err
	}
	return withLabel(t), nil
}

func (svc *Service) Get(id int) (Teacher, error) {
	t, err := svc.repo.GetTeacherByID(id)
	if err != nil {
		return Teacher{}, err
	}
	return withLabel(t), nil
}

func (svc *Service) GetByUser(userID int) (Teacher, error) {
	t, err := svc.repo.GetTeacherByUserID(userID)
	if err != nil {
		return Teacher{}, err
	}
	return withLabel(t), nil
}

func (svc *Service) Filter(filter QueryFilter) ([]Teacher, error) {
	filter.Search = core.CleanString(filter.Search)
	teachers, err := svc.repo.FilterTeachers(filter)
	if err != nil {
		return nil, err
	}
	for i, t := range teachers {
		teachers[i] = withLabel(t)
	}
	return teachers, nil
}

func (svc *Service) Update(id int, ut UpdateTeacher) (Teacher, error) {
	t, err := svc.repo.GetTeacherByID(id)
	if err != nil {
		return Teacher{}, err
	}
	if err = ut.Validate(t); err != nil {
		return Teacher{}, err
	}
	if ut.Registration != t.Registration {
		if _, err := svc.repo.GetTeacherByRegistration(ut.Registration); err == nil {
			return Teacher{}, core.NewValidationError(ErrRegistrationExists, core.FieldError{Field: "matricula_professor", Error: ErrRegistrationExists.Error()})
		} else if err != ErrTeacherNotFound {
			return Teacher{}, err
		}
	}
	t.Name = ut.Name
	t.Phone = ut.Phone
	t.Email = ut.Email
	t.Birthday = ut.Birthday
	t.Registration = ut.Registration
	t.Discipline = ut.Discipline
	t, err = svc.repo.UpdateTeacher(t)
	if err != nil {
		return Teacher{}, err
	}
	return withLabel(t), nil
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteTeachersByID(ids...)
}

func withLabel(t Teacher) Teacher {
	t.DisciplineLabel = DisciplineLabel(t.Discipline)
	return t
}
