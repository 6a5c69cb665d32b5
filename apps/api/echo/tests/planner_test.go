package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/planner"
	"github.com/escoladigital/secretaria/core/staff"
)

// seedSecondTeacher adds another Professor (without a login) plus one plan.
func seedSecondTeacher(t *testing.T) (staff.Teacher, planner.WeeklyPlan) {
	t.Helper()
	other, err := staffRepo.CreateTeacher(staff.Teacher{
		Name:         "Lucia Prado",
		Phone:        "11944440000",
		Email:        "lucia@escola.test",
		CPF:          "22233344405",
		Birthday:     core.NewDate(1982, 7, 19),
		Registration: "P-002",
		Discipline:   staff.DisciplineLING,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	plan, err := plannerRepo.CreatePlan(planner.WeeklyPlan{
		TeacherID:  other.ID,
		ClassCode:  "2B",
		Discipline: staff.DisciplineLING,
		LessonDate: core.Today(),
		Content:    "Interpretação de texto",
	})
	if err != nil {
		t.Fatalf("CreatePlan() failed: %v", err)
	}
	return other, plan
}

func ownPlanID(t *testing.T, teacherID int) int {
	t.Helper()
	plans, err := plannerRepo.FilterPlans(planner.QueryFilter{TeacherID: teacherID})
	if err != nil || len(plans) == 0 {
		t.Fatalf("FilterPlans() failed: %v (%d rows)", err, len(plans))
	}
	return plans[0].ID
}

func Test_plannerApi_queryPlans(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	_, otherPlan := seedSecondTeacher(t)
	own := ownPlanID(t, fx.teacher.ID)

	tests := []struct {
		name    string
		token   string
		wantIDs []int
	}{
		{name: "Secretaria sees every plan", token: fx.secToken, wantIDs: []int{own, otherPlan.ID}},
		{name: "Professor sees own plans only", token: fx.profToken, wantIDs: []int{own}},
		{name: "Aluno sees every plan", token: fx.alunoToken, wantIDs: []int{own, otherPlan.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/planejamentos-semanais", tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
			}
			var plans []planner.WeeklyPlan
			if err := json.Unmarshal(rec.Body.Bytes(), &plans); err != nil {
				t.Fatalf("decoding plans: %v", err)
			}
			ids := make([]int, 0, len(plans))
			for _, p := range plans {
				ids = append(ids, p.ID)
			}
			if !equalIDs(ids, tt.wantIDs) {
				t.Errorf("ids = %v; want %v", ids, tt.wantIDs)
			}
		})
	}
}

func Test_plannerApi_createPlan(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	other, _ := seedSecondTeacher(t)

	newPlan := func(teacherID int) []byte {
		return marshallObj(t, planner.NewWeeklyPlan{
			TeacherID:  teacherID,
			ClassCode:  "1B",
			Discipline: staff.DisciplineMAT,
			LessonDate: core.Today(),
			Content:    "Frações",
		})
	}

	tests := []httpTest{
		{name: "auth required", body: newPlan(fx.teacher.ID), wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "Aluno may not create", token: fx.alunoToken, body: newPlan(fx.teacher.ID),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "Professor may not impersonate", token: fx.profToken, body: newPlan(other.ID),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "Você só pode criar planejamentos para si mesmo."}),
		},
		{
			name: "Professor creates for self implicitly", token: fx.profToken, body: newPlan(0),
			wantCode: http.StatusCreated,
		},
		{
			name: "Secretaria creates for anyone", token: fx.secToken, body: newPlan(other.ID),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/planejamentos-semanais", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.name == "Professor creates for self implicitly" {
				if rec.Code != http.StatusCreated {
					t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
				}
				var plan planner.WeeklyPlan
				if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
					t.Fatalf("unmarshalling WeeklyPlan: %v", err)
				}
				if plan.TeacherID != fx.teacher.ID {
					t.Errorf("teacher = %d; want %d", plan.TeacherID, fx.teacher.ID)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_plannerApi_updatePlan(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	other, otherPlan := seedSecondTeacher(t)
	own := ownPlanID(t, fx.teacher.ID)

	tests := []httpTest{
		{
			name: "Professor updates own plan", token: fx.profToken,
			path: fmt.Sprintf("/api/planejamentos-semanais/%d", own),
			body: []byte(`{"conteudo": "Equações do 2º grau"}`), wantCode: http.StatusOK,
		},
		{
			name: "Professor may not edit another teacher's plan", token: fx.profToken,
			path: fmt.Sprintf("/api/planejamentos-semanais/%d", otherPlan.ID),
			body: []byte(`{"conteudo": "hack"}`), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "Você não pode editar o planejamento de outro professor."}),
		},
		{
			name: "Professor may not transfer a plan", token: fx.profToken,
			path: fmt.Sprintf("/api/planejamentos-semanais/%d", own),
			body: marshallObj(t, map[string]int{"professor": other.ID}), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "Você não pode transferir o planejamento para outro professor."}),
		},
		{
			name: "Secretaria edits any plan", token: fx.secToken,
			path: fmt.Sprintf("/api/planejamentos-semanais/%d", otherPlan.ID),
			body: []byte(`{"observacoes": "Revisar"}`), wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	plan, err := plannerRepo.GetPlanByID(own)
	if err != nil {
		t.Fatalf("GetPlanByID() failed: %v", err)
	}
	if plan.Content != "Equações do 2º grau" {
		t.Errorf("content = %q", plan.Content)
	}
	if plan.TeacherID != fx.teacher.ID {
		t.Errorf("plan must not change hands; teacher = %d", plan.TeacherID)
	}
}

func Test_plannerApi_destroyPlan(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	_, otherPlan := seedSecondTeacher(t)
	own := ownPlanID(t, fx.teacher.ID)

	// another teacher's plan is invisible, not forbidden
	req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/planejamentos-semanais/%d", otherPlan.ID), fx.profToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)}, rec)

	req, rec = newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/planejamentos-semanais/%d", own), fx.profToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	if _, err := plannerRepo.GetPlanByID(own); err != planner.ErrPlanNotFound {
		t.Errorf("expected ErrPlanNotFound; got %v", err)
	}
}

func Test_plannerApi_formOptions(t *testing.T) {
	setup(t)
	fx := seedSchool(t)

	req, rec := newAuthRequest(http.MethodGet, "/api/planejamento-opcoes", fx.profToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var opts planner.Options
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decoding options: %v", err)
	}
	if len(opts.ClassCodes) == 0 || len(opts.Shifts) == 0 {
		t.Errorf("expected turmas and turnos; got %+v", opts)
	}
}
