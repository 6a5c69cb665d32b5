package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/calendar"
)

func seedEvent(t *testing.T, title, typ string, date core.Date) calendar.Event {
	t.Helper()
	e, err := calendarRepo.CreateEvent(calendar.Event{Title: title, Type: typ, Date: date})
	if err != nil {
		t.Fatalf("CreateEvent() failed: %v", err)
	}
	return e
}

func decodeEventIDs(t *testing.T, data []byte) []int {
	t.Helper()
	var events []calendar.Event
	if err := json.Unmarshal(data, &events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	ids := make([]int, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

func Test_calendarApi_events(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	prova := seedEvent(t, "Prova de Matemática", calendar.EventTypeExam, core.NewDate(2026, 9, 15))
	feriado := seedEvent(t, "Independência", calendar.EventTypeHoliday, core.NewDate(2026, 9, 7))

	newEvent := marshallObj(t, calendar.NewEvent{
		Title: "Feira de Ciências", Date: core.NewDate(2026, 10, 20), Type: calendar.EventTypeGeneral,
	})

	tests := []httpTest{
		{name: "auth required", method: http.MethodGet, path: "/api/eventos-calendario", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "anyone lists events", method: http.MethodGet, path: "/api/eventos-calendario", token: fx.alunoToken, wantCode: http.StatusOK},
		{
			name: "Professor may not create", method: http.MethodPost, path: "/api/eventos-calendario",
			token: fx.profToken, body: newEvent,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "invalid tipo rejected", method: http.MethodPost, path: "/api/eventos-calendario", token: fx.secToken,
			body: []byte(`{"titulo": "Show", "data": "2026-10-01", "tipo": "festa"}`), wantCode: http.StatusBadRequest,
		},
		{name: "Auxiliar creates", method: http.MethodPost, path: "/api/eventos-calendario", token: fx.auxToken, body: newEvent, wantCode: http.StatusCreated},
		{
			name: "Secretaria updates", method: http.MethodPut, path: fmt.Sprintf("/api/eventos-calendario/%d", prova.ID),
			token: fx.secToken, body: []byte(`{"data": "2026-09-16"}`), wantCode: http.StatusOK,
		},
		{
			name: "Aluno may not delete", method: http.MethodDelete, path: fmt.Sprintf("/api/eventos-calendario/%d", feriado.ID),
			token: fx.alunoToken, wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "unknown event", method: http.MethodGet, path: "/api/eventos-calendario/999",
			token: fx.secToken, wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	got, err := calendarRepo.GetEventByID(prova.ID)
	if err != nil {
		t.Fatalf("GetEventByID() failed: %v", err)
	}
	if got.Date.String() != "2026-09-16" {
		t.Errorf("data = %s; want 2026-09-16", got.Date)
	}
}

func Test_calendarApi_queryFilters(t *testing.T) {
	setup(t)
	fx := seedSchool(t)
	prova := seedEvent(t, "Prova de Matemática", calendar.EventTypeExam, core.NewDate(2026, 9, 15))
	trabalho := seedEvent(t, "Trabalho de História", calendar.EventTypeProject, core.NewDate(2026, 10, 2))
	feriado := seedEvent(t, "Independência", calendar.EventTypeHoliday, core.NewDate(2026, 9, 7))

	tests := []struct {
		name    string
		path    string
		wantIDs []int
	}{
		{name: "no filter", path: "/api/eventos-calendario", wantIDs: []int{prova.ID, trabalho.ID, feriado.ID}},
		{name: "by tipo", path: "/api/eventos-calendario?tipo=prova", wantIDs: []int{prova.ID}},
		{name: "from a date", path: "/api/eventos-calendario?de=2026-09-10", wantIDs: []int{prova.ID, trabalho.ID}},
		{name: "within a range", path: "/api/eventos-calendario?de=2026-09-01&ate=2026-09-30", wantIDs: []int{prova.ID, feriado.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, fx.respToken)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
			}
			if ids := decodeEventIDs(t, rec.Body.Bytes()); !equalIDs(ids, tt.wantIDs) {
				t.Errorf("ids = %v; want %v", ids, tt.wantIDs)
			}
		})
	}
}
