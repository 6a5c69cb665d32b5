package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	echoapi "github.com/escoladigital/secretaria/apps/api/echo"
	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/academics"
	"github.com/escoladigital/secretaria/core/calendar"
	"github.com/escoladigital/secretaria/core/conduct"
	"github.com/escoladigital/secretaria/core/facility"
	"github.com/escoladigital/secretaria/core/library"
	"github.com/escoladigital/secretaria/core/planner"
	"github.com/escoladigital/secretaria/core/roster"
	"github.com/escoladigital/secretaria/core/staff"
	"github.com/escoladigital/secretaria/core/user"
	emailsvc "github.com/escoladigital/secretaria/services/email"
	inmemdb "github.com/escoladigital/secretaria/storage/database/inmem"
	testutil "github.com/escoladigital/secretaria/tests"
)

var (
	conf *core.Config
	app  echoapi.Server

	usrRepo       user.Repository
	rosterRepo    roster.Repository
	staffRepo     staff.Repository
	facilityRepo  facility.Repository
	libraryRepo   library.Repository
	conductRepo   conduct.Repository
	academicsRepo academics.Repository
	plannerRepo   planner.Repository
	calendarRepo  calendar.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "Você não tem permissão para executar esta ação."}
	errNotFound     = httpErr{Error: "não encontrado"}
)

// setup rebuilds the whole stack on a fresh in-memory database.
func setup(t *testing.T) {
	t.Helper()
	conf = testutil.NewConfig()
	db := inmemdb.NewDB()

	usrRepo = inmemdb.NewUserRepository(db)
	rosterRepo = inmemdb.NewRosterRepository(db)
	staffRepo = inmemdb.NewStaffRepository(db)
	facilityRepo = inmemdb.NewFacilityRepository(db)
	libraryRepo = inmemdb.NewLibraryRepository(db)
	conductRepo = inmemdb.NewConductRepository(db)
	academicsRepo = inmemdb.NewAcademicsRepository(db)
	plannerRepo = inmemdb.NewPlannerRepository(db)
	calendarRepo = inmemdb.NewCalendarRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	rosterSvc := roster.NewService(rosterRepo, usrSvc)
	staffSvc := staff.NewService(staffRepo, usrSvc)

	app = echoapi.NewServer(
		&echoapi.Options{
			Conf:           conf,
			Logger:         testutil.NewLogger(conf),
			DisableReqLogs: true,
		},
		&echoapi.Deps{
			UserSvc:      usrSvc,
			RosterSvc:    rosterSvc,
			StaffSvc:     staffSvc,
			FacilitySvc:  facility.NewService(facilityRepo, staffSvc),
			LibrarySvc:   library.NewService(libraryRepo, rosterSvc),
			ConductSvc:   conduct.NewService(conductRepo, rosterSvc),
			AcademicsSvc: academics.NewService(conf, academicsRepo, rosterSvc),
			PlannerSvc:   planner.NewService(plannerRepo, staffSvc),
			CalendarSvc:  calendar.NewService(calendarRepo),
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// getToken logs in through the API and returns the access token.
func getToken(t *testing.T, cpf, pwd string) string {
	t.Helper()
	body := marshallObj(t, echoapi.TokenRequest{CPF: cpf, Password: pwd})
	req, rec := newRequest(http.MethodPost, "/api/token", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("getToken(): code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var resp echoapi.TokenPairResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return resp.Access
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
		return
	}
	if !ok {
		t.Errorf("failed! response mismatch:\n%s", testutil.JSONDiff(t, tt.wantData, rec.Body.Bytes()))
	}
}
