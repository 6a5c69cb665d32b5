package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/conduct"
)

func seedWarning(t *testing.T, studentID int, reason string) conduct.Warning {
	t.Helper()
	w, err := conductRepo.CreateWarning(conduct.Warning{
		StudentID: studentID, Date: core.Today(), Reason: reason,
	})
	if err != nil {
		t.Fatalf("CreateWarning() failed: %v", err)
	}
	return w
}

func decodeWarningIDs(t *testing.T, data []byte) []int {
	t.Helper()
	var warnings []conduct.Warning
	if err := json.Unmarshal(data, &warnings); err != nil {
		t.Fatalf("decoding warnings: %v", err)
	}
	ids := make([]int, 0, len(warnings))
	for _, w := range warnings {
		ids = append(ids, w.ID)
	}
	return ids
}

func Test_conductApi_createWarning(t *testing.T) {
	setup(t)
	fx := seedSchool(t)

	newWarning := func(studentID int, reason string) []byte {
		return marshallObj(t, conduct.NewWarning{StudentID: studentID, Date: core.Today(), Reason: reason})
	}

	tests := []httpTest{
		{name: "auth required", body: newWarning(fx.st1.ID, "CEL"), wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "Professor may not create", token: fx.profToken, body: newWarning(fx.st1.ID, "CEL"),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "Auxiliar may not create", token: fx.auxToken, body: newWarning(fx.st1.ID, "CEL"),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{name: "unknown motivo rejected", token: fx.secToken, body: newWarning(fx.st1.ID, "XYZ"), wantCode: http.StatusBadRequest},
		{name: "Secretaria creates", token: fx.secToken, body: newWarning(fx.st1.ID, "CEL"), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/advertencias", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_conductApi_warningScope(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	w1 := seedWarning(t, fx.st1.ID, "FJI")
	w2 := seedWarning(t, fx.st2.ID, "DSP")

	tests := []struct {
		name    string
		token   string
		wantIDs []int
	}{
		{name: "Secretaria sees every warning", token: fx.secToken, wantIDs: []int{w1.ID, w2.ID}},
		{name: "Auxiliar sees every warning", token: fx.auxToken, wantIDs: []int{w1.ID, w2.ID}},
		{name: "Professor sees own turmas", token: fx.profToken, wantIDs: []int{w1.ID}},
		{name: "Aluno sees own record", token: fx.alunoToken, wantIDs: []int{w1.ID}},
		{name: "Responsavel sees linked students", token: fx.respToken, wantIDs: []int{w1.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/advertencias", tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
			}
			if ids := decodeWarningIDs(t, rec.Body.Bytes()); !equalIDs(ids, tt.wantIDs) {
				t.Errorf("ids = %v; want %v", ids, tt.wantIDs)
			}
		})
	}

	// a warning outside the scope reads as missing
	req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/advertencias/%d", w2.ID), fx.alunoToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)}, rec)
}

func Test_conductApi_suspensions(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	tomorrow := core.Date{Time: core.Today().AddDate(0, 0, 1)}

	newSuspension := marshallObj(t, conduct.NewSuspension{
		StudentID: fx.st2.ID, StartDate: core.Today(), EndDate: tomorrow, Reason: "BRG",
	})

	tests := []httpTest{
		{
			name: "Professor may not suspend", method: http.MethodPost, path: "/api/suspensoes",
			token: fx.profToken, body: newSuspension,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "unknown motivo rejected", method: http.MethodPost, path: "/api/suspensoes", token: fx.secToken,
			body:     []byte(fmt.Sprintf(`{"aluno": %d, "data_inicio": "2026-09-01", "data_fim": "2026-09-03", "motivo": "CEL"}`, fx.st2.ID)),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "Secretaria suspends", method: http.MethodPost, path: "/api/suspensoes",
			token: fx.secToken, body: newSuspension, wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// st2 is outside the aluno's scope; their responsavel sees nothing either
	req, rec := newAuthRequest(http.MethodGet, "/api/suspensoes", fx.respToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var suspensions []conduct.Suspension
	if err := json.Unmarshal(rec.Body.Bytes(), &suspensions); err != nil {
		t.Fatalf("decoding suspensions: %v", err)
	}
	if len(suspensions) != 0 {
		t.Errorf("expected no visible suspensions; got %d", len(suspensions))
	}
}
