package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/roster"
	"github.com/escoladigital/secretaria/core/staff"
)

// scopedStudentIDs resolves the set of students the requester may see.
// nil means unrestricted (Secretaria, Auxiliar); a non-nil empty slice
// means the requester has no linked students and sees no rows.
func (s *server) scopedStudentIDs(ctx echo.Context) ([]int, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}

	usr, err := s.getContextUser(ctx, claims)
	if err != nil {
		return nil, errors.Wrap(err, "getting context user")
	}

	none := make([]int, 0)

	switch {
	case usr.IsAluno():
		st, err := s.deps.RosterSvc.GetStudentByUser(usr.ID)
		if err != nil {
			if errors.Cause(err) == roster.ErrStudentNotFound {
				return none, nil
			}
			return nil, errors.Wrap(err, "finding student profile")
		}
		return []int{st.ID}, nil

	case usr.IsResponsavel():
		students, err := s.deps.RosterSvc.StudentsOfGuardian(usr.ID)
		if err != nil {
			return nil, errors.Wrap(err, "finding guardian students")
		}
		return studentIDs(students), nil

	case usr.IsProfessor():
		teacher, err := s.contextTeacher(ctx)
		if err != nil {
			if errors.Cause(err) == staff.ErrTeacherNotFound {
				return none, nil
			}
			return nil, err
		}
		codes, err := s.deps.PlannerSvc.ClassCodesOfTeacher(teacher.ID)
		if err != nil {
			return nil, errors.Wrap(err, "finding teacher turmas")
		}
		students, err := s.deps.RosterSvc.StudentsOfTeacher(codes)
		if err != nil {
			return nil, errors.Wrap(err, "finding teacher students")
		}
		return studentIDs(students), nil
	}

	return nil, nil
}

const teacherContextKey = "teacher"

// contextTeacher resolves the staff profile linked to the requesting user.
func (s *server) contextTeacher(ctx echo.Context) (staff.Teacher, error) {
	if t, ok := ctx.Get(teacherContextKey).(staff.Teacher); ok {
		return t, nil
	}
	usr, err := s.getContextUser(ctx)
	if err != nil {
		return staff.Teacher{}, errors.Wrap(err, "getting context user")
	}
	teacher, err := s.deps.StaffSvc.GetByUser(usr.ID)
	if err != nil {
		return staff.Teacher{}, errors.Wrap(err, "finding teacher profile")
	}
	ctx.Set(teacherContextKey, teacher)
	return teacher, nil
}

func studentIDs(students []roster.Student) []int {
	ids := make([]int, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids
}
