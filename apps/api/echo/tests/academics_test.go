package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/escoladigital/secretaria/core/academics"
	"github.com/escoladigital/secretaria/core/staff"
)

func seedGrades(t *testing.T, fx fixtures) (mat1, ling1, mat2 academics.Grade) {
	t.Helper()
	var err error
	if mat1, err = academicsRepo.CreateGrade(academics.Grade{StudentID: fx.st1.ID, TermID: fx.term.ID, Discipline: staff.DisciplineMAT, Value: 8.5}); err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	if ling1, err = academicsRepo.CreateGrade(academics.Grade{StudentID: fx.st1.ID, TermID: fx.term.ID, Discipline: staff.DisciplineLING, Value: 7}); err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	if mat2, err = academicsRepo.CreateGrade(academics.Grade{StudentID: fx.st2.ID, TermID: fx.term.ID, Discipline: staff.DisciplineMAT, Value: 5}); err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return mat1, ling1, mat2
}

func decodeGradeIDs(t *testing.T, data []byte) []int {
	t.Helper()
	var grades []academics.Grade
	if err := json.Unmarshal(data, &grades); err != nil {
		t.Fatalf("decoding grades: %v", err)
	}
	ids := make([]int, 0, len(grades))
	for _, g := range grades {
		ids = append(ids, g.ID)
	}
	return ids
}

func Test_academicsApi_queryGrades(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	mat1, ling1, mat2 := seedGrades(t, fx)

	tests := []struct {
		name    string
		token   string
		wantIDs []int
	}{
		{name: "Secretaria sees every grade", token: fx.secToken, wantIDs: []int{mat1.ID, ling1.ID, mat2.ID}},
		{name: "Professor sees own discipline of own turmas", token: fx.profToken, wantIDs: []int{mat1.ID}},
		{name: "Aluno sees own grades", token: fx.alunoToken, wantIDs: []int{mat1.ID, ling1.ID}},
		{name: "Responsavel sees linked students' grades", token: fx.respToken, wantIDs: []int{mat1.ID, ling1.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/notas", tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
			}
			if got := decodeGradeIDs(t, rec.Body.Bytes()); !equalIDs(got, tt.wantIDs) {
				t.Errorf("ids = %v; want %v", got, tt.wantIDs)
			}
		})
	}
}

func Test_academicsApi_createGrade(t *testing.T) {
	setup(t)
	fx := seedSchool(t)

	tests := []httpTest{
		{name: "auth required", body: []byte(`{}`), wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "Aluno may not create", token: fx.alunoToken,
			body:     marshallObj(t, academics.NewGrade{StudentID: fx.st1.ID, TermID: fx.term.ID, Discipline: staff.DisciplineMAT, Value: 9}),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "Professor may not grade another discipline", token: fx.profToken,
			body:     marshallObj(t, academics.NewGrade{StudentID: fx.st1.ID, TermID: fx.term.ID, Discipline: staff.DisciplineLING, Value: 9}),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "Você só pode criar notas para a sua disciplina principal."}),
		},
		{
			name: "Professor defaults to own discipline", token: fx.profToken,
			body:     marshallObj(t, map[string]interface{}{"aluno": fx.st1.ID, "bimestre": fx.term.ID, "valor": 9.5}),
			wantCode: http.StatusCreated,
		},
		{
			name: "Secretaria creates any discipline", token: fx.secToken,
			body:     marshallObj(t, academics.NewGrade{StudentID: fx.st2.ID, TermID: fx.term.ID, Discipline: staff.DisciplineCN, Value: 6.5}),
			wantCode: http.StatusCreated,
		},
		{
			name: "validation", token: fx.secToken, body: []byte(`{"valor": 11}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/notas", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.name == "Professor defaults to own discipline" {
				if rec.Code != http.StatusCreated {
					t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
				}
				var grade academics.Grade
				if err := json.Unmarshal(rec.Body.Bytes(), &grade); err != nil {
					t.Fatalf("unmarshalling Grade: %v", err)
				}
				if grade.Discipline != staff.DisciplineMAT {
					t.Errorf("discipline = %q; want %q", grade.Discipline, staff.DisciplineMAT)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_academicsApi_updateGrade(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	mat1, ling1, _ := seedGrades(t, fx)

	tests := []httpTest{
		{
			name: "Professor updates own discipline", token: fx.profToken,
			path: fmt.Sprintf("/api/notas/%d", mat1.ID), body: marshallObj(t, academics.UpdateGrade{Value: 9}),
			wantCode: http.StatusOK,
		},
		{
			name: "Professor may not touch another discipline", token: fx.profToken,
			path: fmt.Sprintf("/api/notas/%d", ling1.ID), body: marshallObj(t, academics.UpdateGrade{Value: 9}),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "Você só pode editar notas da sua disciplina principal."}),
		},
		{
			name: "Secretaria updates anything", token: fx.secToken,
			path: fmt.Sprintf("/api/notas/%d", ling1.ID), body: marshallObj(t, academics.UpdateGrade{Value: 7.5}),
			wantCode: http.StatusOK,
		},
		{
			name: "unknown id", token: fx.secToken, path: "/api/notas/999",
			body: marshallObj(t, academics.UpdateGrade{Value: 5}), wantCode: http.StatusNotFound,
			wantData: marshallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	g, err := academicsRepo.GetGradeByID(mat1.ID)
	if err != nil {
		t.Fatalf("GetGradeByID() failed: %v", err)
	}
	if g.Value != 9 {
		t.Errorf("value = %v; want 9", g.Value)
	}
}

func Test_academicsApi_tasks(t *testing.T) {
	setup(t)
	fx := seedSchool(t)

	task1, err := academicsRepo.CreateTask(academics.PendingTask{StudentID: fx.st1.ID, Title: "Trabalho de MAT", Deadline: fx.st1.Birthday, Status: "PENDENTE"})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	task2, err := academicsRepo.CreateTask(academics.PendingTask{StudentID: fx.st2.ID, Title: "Leitura", Deadline: fx.st1.Birthday, Status: "PENDENTE"})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantIDs []int
	}{
		// tasks are not discipline or turma bound for staff
		{name: "Secretaria sees all tasks", token: fx.secToken, wantIDs: []int{task1.ID, task2.ID}},
		{name: "Professor sees all tasks", token: fx.profToken, wantIDs: []int{task1.ID, task2.ID}},
		{name: "Aluno sees own tasks", token: fx.alunoToken, wantIDs: []int{task1.ID}},
		{name: "Responsavel sees linked students' tasks", token: fx.respToken, wantIDs: []int{task1.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/atividades-pendentes", tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
			}
			var tasks []academics.PendingTask
			if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
				t.Fatalf("decoding tasks: %v", err)
			}
			ids := make([]int, 0, len(tasks))
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			if !equalIDs(ids, tt.wantIDs) {
				t.Errorf("ids = %v; want %v", ids, tt.wantIDs)
			}
		})
	}

	t.Run("Aluno cannot read another student's task", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/atividades-pendentes/%d", task2.ID), fx.alunoToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)}, rec)
	})
}

func Test_academicsApi_studentStanding(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	seedGrades(t, fx)

	// st1: average 7.75, attendance 36/40 = 0.9
	wantSt1 := academics.StandingReport{
		Status:          academics.StandingApproved,
		AverageGrade:    7.75,
		AttendanceRatio: 0.9,
		GradeCount:      2,
	}
	// st2: average 5, attendance 30/40 = 0.75
	wantSt2 := academics.StandingReport{
		Status:          academics.StandingNotApproved,
		AverageGrade:    5,
		AttendanceRatio: 0.75,
		GradeCount:      1,
	}

	tests := []httpTest{
		{name: "auth required", path: fmt.Sprintf("/api/alunos/%d/situacao", fx.st1.ID), wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "approved", path: fmt.Sprintf("/api/alunos/%d/situacao", fx.st1.ID), token: fx.secToken,
			wantCode: http.StatusOK, wantData: marshallObj(t, wantSt1),
		},
		{
			name: "not approved on low average", path: fmt.Sprintf("/api/alunos/%d/situacao", fx.st2.ID), token: fx.secToken,
			wantCode: http.StatusOK, wantData: marshallObj(t, wantSt2),
		},
		{
			name: "Aluno reads own standing", path: fmt.Sprintf("/api/alunos/%d/situacao", fx.st1.ID), token: fx.alunoToken,
			wantCode: http.StatusOK, wantData: marshallObj(t, wantSt1),
		},
		{
			name: "Aluno cannot read another standing", path: fmt.Sprintf("/api/alunos/%d/situacao", fx.st2.ID), token: fx.alunoToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound),
		},
		{name: "unknown id", path: "/api/alunos/999/situacao", token: fx.secToken, wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
