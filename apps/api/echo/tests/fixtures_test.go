package tests

import (
	"encoding/json"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/academics"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/planner"
	"github.com/escoladigital/secretaria/core/roster"
	"github.com/escoladigital/secretaria/core/staff"
	testutil "github.com/escoladigital/secretaria/tests"
)

const testPassword = "s3nh4forte"

// fixtures is a small school: one account per cargo, a guardian with one
// student, a second unrelated student, and a Professor de Matemática who
// plans lessons for turma 1A only.
type fixtures struct {
	secToken, auxToken, profToken, alunoToken, respToken string

	teacher  staff.Teacher
	guardian roster.Guardian
	st1, st2 roster.Student
	term     academics.Term
}

func seedSchool(t *testing.T) fixtures {
	t.Helper()

	sec := testutil.CreateUser(t, usrRepo, "Maria Silva", "52998224725", "maria@escola.test", testPassword, authz.RoleSecretaria, true)
	aux := testutil.CreateUser(t, usrRepo, "Carlos Nunes", "11144477735", "carlos@escola.test", testPassword, authz.RoleAuxiliar, true)
	prof := testutil.CreateUser(t, usrRepo, "Paulo Lima", "12345678909", "paulo@escola.test", testPassword, authz.RoleProfessor, true)
	aluno := testutil.CreateUser(t, usrRepo, "Joana Reis", "39053344705", "joana@escola.test", testPassword, authz.RoleAluno, true)
	resp := testutil.CreateUser(t, usrRepo, "Rita Reis", "16899535009", "rita@escola.test", testPassword, authz.RoleResponsavel, true)
	_ = sec
	_ = aux

	guardian, err := rosterRepo.CreateGuardian(roster.Guardian{
		UserID:   null.Int64From(int64(resp.ID)),
		Name:     "Rita Reis",
		Phone:    "11999990000",
		Email:    "rita@escola.test",
		CPF:      "16899535009",
		Birthday: core.NewDate(1980, 5, 12),
	})
	if err != nil {
		t.Fatalf("CreateGuardian() failed: %v", err)
	}

	st1, err := rosterRepo.CreateStudent(roster.Student{
		UserID:       null.Int64From(int64(aluno.ID)),
		Name:         "Joana Reis",
		Phone:        "11988880000",
		Email:        "joana@escola.test",
		CPF:          "39053344705",
		Birthday:     core.NewDate(2009, 3, 2),
		ClassCode:    "1A",
		AcademicYear: 2026,
		GuardianID:   null.Int64From(int64(guardian.ID)),
		Absences:     4,
		Presences:    36,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	st2, err := rosterRepo.CreateStudent(roster.Student{
		Name:         "Bruno Costa",
		Phone:        "11977770000",
		Email:        "bruno@escola.test",
		CPF:          "52998224725",
		Birthday:     core.NewDate(2008, 11, 20),
		ClassCode:    "2B",
		AcademicYear: 2026,
		Absences:     10,
		Presences:    30,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	teacher, err := staffRepo.CreateTeacher(staff.Teacher{
		UserID:       null.Int64From(int64(prof.ID)),
		Name:         "Paulo Lima",
		Phone:        "11966660000",
		Email:        "paulo@escola.test",
		CPF:          "12345678909",
		Birthday:     core.NewDate(1975, 1, 30),
		Registration: "P-001",
		Discipline:   staff.DisciplineMAT,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}

	// the Professor plans lessons for 1A only; st2 (2B) is out of reach
	if _, err := plannerRepo.CreatePlan(planner.WeeklyPlan{
		TeacherID:  teacher.ID,
		ClassCode:  "1A",
		Discipline: staff.DisciplineMAT,
		LessonDate: core.Today(),
		Content:    "Equações do 1º grau",
	}); err != nil {
		t.Fatalf("CreatePlan() failed: %v", err)
	}

	term, err := academicsRepo.CreateTerm(academics.Term{Number: 1, Year: 2026})
	if err != nil {
		t.Fatalf("CreateTerm() failed: %v", err)
	}

	return fixtures{
		secToken:   getToken(t, sec.CPF, testPassword),
		auxToken:   getToken(t, aux.CPF, testPassword),
		profToken:  getToken(t, prof.CPF, testPassword),
		alunoToken: getToken(t, aluno.CPF, testPassword),
		respToken:  getToken(t, resp.CPF, testPassword),
		teacher:    teacher,
		guardian:   guardian,
		st1:        st1,
		st2:        st2,
		term:       term,
	}
}

func decodeStudentIDs(t *testing.T, data []byte) []int {
	t.Helper()
	var students []roster.Student
	if err := json.Unmarshal(data, &students); err != nil {
		t.Fatalf("decoding students: %v", err)
	}
	ids := make([]int, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		seen[id]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
