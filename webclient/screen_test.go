package webclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/escoladigital/secretaria/core/authz"
)

type testStudent struct {
	ID    int    `json:"id"`
	Name  string `json:"nome_aluno"`
	Class string `json:"turma"`
}

func newStudentScreen(cli *Client) *Screen[testStudent] {
	scr := NewScreen[testStudent](cli, "/alunos", authz.ResourceStudent)
	scr.TextFields = map[string]func(testStudent) string{
		"nome": func(st testStudent) string { return st.Name },
	}
	scr.CodeFields = map[string]func(testStudent) string{
		"turma": func(st testStudent) string { return st.Class },
	}
	return scr
}

func authedClient(baseURL string, role authz.Role) *Client {
	return NewClient(baseURL, &Session{Access: "tok", Role: role}, nil)
}

func Test_Screen_Load(t *testing.T) {
	bodies := []string{
		`[{"id":1,"nome_aluno":"Joana Reis","turma":"1A"},{"id":2,"nome_aluno":"Bruno Costa","turma":"2B"}]`,
		`{"results":[{"id":1,"nome_aluno":"Joana Reis","turma":"1A"},{"id":2,"nome_aluno":"Bruno Costa","turma":"2B"}]}`,
	}
	var serve atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		_, _ = w.Write([]byte(bodies[serve.Load()]))
	}))
	defer srv.Close()

	scr := newStudentScreen(authedClient(srv.URL, authz.RoleSecretaria))
	if scr.State() != StateIdle {
		t.Errorf("state = %v; want idle", scr.State())
	}

	// both envelope shapes normalize to the same records
	for i := range bodies {
		serve.Store(int32(i))
		if err := scr.Load(context.Background()); err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if scr.State() != StateLoaded {
			t.Errorf("state = %v; want loaded", scr.State())
		}
		if got := scr.Records(); len(got) != 2 || got[0].Name != "Joana Reis" {
			t.Errorf("records = %+v", got)
		}
	}
}

func Test_Screen_Load_missingToken(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	scr := newStudentScreen(NewClient(srv.URL, &Session{}, nil))
	if err := scr.Load(context.Background()); err != ErrAuthenticationMissing {
		t.Errorf("err = %v; want ErrAuthenticationMissing", err)
	}
	if scr.State() != StateErrored {
		t.Errorf("state = %v; want errored", scr.State())
	}
	if hits.Load() != 0 {
		t.Errorf("screen must not touch the network without a token; hits = %d", hits.Load())
	}
}

func Test_Screen_Load_forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Você não tem permissão para executar esta ação."})
	}))
	defer srv.Close()

	scr := newStudentScreen(authedClient(srv.URL, authz.RoleAluno))
	err := scr.Load(context.Background())
	if _, ok := err.(*AuthorizationDeniedError); !ok {
		t.Fatalf("err = %T (%v)", err, err)
	}
	if scr.State() != StateErrored || len(scr.Records()) != 0 {
		t.Errorf("state = %v, records = %d; want errored and empty", scr.State(), len(scr.Records()))
	}
}

// A stale response must never overwrite the result of a newer load.
func Test_Screen_Load_supersession(t *testing.T) {
	listA := `[{"id":1,"nome_aluno":"Antiga","turma":"1A"}]`
	listB := `[{"id":2,"nome_aluno":"Atual","turma":"1A"}]`

	firstArrived := make(chan struct{})
	release := make(chan struct{})
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			close(firstArrived)
			<-release // hold the first response until the second one landed
			_, _ = w.Write([]byte(listA))
			return
		}
		_, _ = w.Write([]byte(listB))
	}))
	defer srv.Close()

	scr := newStudentScreen(authedClient(srv.URL, authz.RoleSecretaria))

	done := make(chan error, 1)
	go func() { done <- scr.Load(context.Background()) }()
	<-firstArrived

	if err := scr.Load(context.Background()); err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Load() failed: %v", err)
	}

	got := scr.Records()
	if len(got) != 1 || got[0].Name != "Atual" {
		t.Errorf("stale response overwrote the newer one: %+v", got)
	}
	if scr.State() != StateLoaded {
		t.Errorf("state = %v; want loaded", scr.State())
	}
}

func Test_Screen_Filter(t *testing.T) {
	scr := newStudentScreen(authedClient("http://unused", authz.RoleSecretaria))
	records := []testStudent{
		{ID: 1, Name: "Joana Reis", Class: "1A"},
		{ID: 2, Name: "Bruno Costa", Class: "2B"},
		{ID: 3, Name: "Ana Joana Prado", Class: "2B"},
	}

	t.Run("empty criteria is the identity", func(t *testing.T) {
		got := scr.Filter(records, Criteria{})
		if !reflect.DeepEqual(got, records) {
			t.Errorf("got %+v", got)
		}
		got = scr.Filter(records, Criteria{"nome": ""})
		if !reflect.DeepEqual(got, records) {
			t.Errorf("blank values must be ignored: %+v", got)
		}
	})

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		got := scr.Filter(records, Criteria{"nome": "JOANA"})
		if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("coded fields match exactly", func(t *testing.T) {
		got := scr.Filter(records, Criteria{"turma": "2B"})
		if len(got) != 2 {
			t.Errorf("got %+v", got)
		}
		if got := scr.Filter(records, Criteria{"turma": "2"}); len(got) != 0 {
			t.Errorf("partial code must not match: %+v", got)
		}
	})

	t.Run("criteria combine as AND", func(t *testing.T) {
		got := scr.Filter(records, Criteria{"nome": "joana", "turma": "2B"})
		if len(got) != 1 || got[0].ID != 3 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("idempotence", func(t *testing.T) {
		c := Criteria{"nome": "joana"}
		once := scr.Filter(records, c)
		twice := scr.Filter(once, c)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("once = %+v, twice = %+v", once, twice)
		}
	})

	t.Run("source is never mutated", func(t *testing.T) {
		before := make([]testStudent, len(records))
		copy(before, records)
		scr.Filter(records, Criteria{"turma": "1A"})
		if !reflect.DeepEqual(records, before) {
			t.Errorf("records mutated: %+v", records)
		}
	})
}

func Test_Screen_Create(t *testing.T) {
	var posts, gets atomic.Int32
	list := `[{"id":1,"nome_aluno":"Joana Reis","turma":"1A"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets.Add(1)
			_, _ = w.Write([]byte(list))
		case http.MethodPost:
			posts.Add(1)
			var body map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["cpf_aluno"] == "bad" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"cpf_aluno": "CPF inválido"})
				return
			}
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	t.Run("denied role never fires the request", func(t *testing.T) {
		scr := newStudentScreen(authedClient(srv.URL, authz.RoleProfessor)) // create is Secretaria-only
		err := scr.Create(context.Background(), map[string]string{"nome_aluno": "x"})
		if _, ok := err.(*AuthorizationDeniedError); !ok {
			t.Fatalf("err = %T (%v)", err, err)
		}
		if posts.Load() != 0 {
			t.Errorf("posts = %d; want 0", posts.Load())
		}
	})

	scr := newStudentScreen(authedClient(srv.URL, authz.RoleSecretaria))
	if err := scr.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	t.Run("validation failure keeps the loaded list", func(t *testing.T) {
		err := scr.Create(context.Background(), map[string]string{"cpf_aluno": "bad"})
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("err = %T (%v)", err, err)
		}
		if verr.Fields["cpf_aluno"] != "CPF inválido" {
			t.Errorf("fields = %v", verr.Fields)
		}
		if scr.State() != StateLoaded || len(scr.Records()) != 1 {
			t.Errorf("list torn down: state = %v, records = %d", scr.State(), len(scr.Records()))
		}
	})

	t.Run("success reloads the snapshot", func(t *testing.T) {
		list = `[{"id":1,"nome_aluno":"Joana Reis","turma":"1A"},{"id":2,"nome_aluno":"Ana Prado","turma":"3C"}]`
		if err := scr.Create(context.Background(), map[string]string{"nome_aluno": "Ana Prado"}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if got := scr.Records(); len(got) != 2 {
			t.Errorf("records = %+v", got)
		}
	})
}

func Test_Screen_Remove(t *testing.T) {
	var deletes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes.Add(1)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	scr := newStudentScreen(authedClient(srv.URL, authz.RoleSecretaria))

	// no confirmation gate wired: nothing happens
	if err := scr.Remove(context.Background(), 1); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	scr.Confirm = func(id int) bool { return false }
	if err := scr.Remove(context.Background(), 1); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if deletes.Load() != 0 {
		t.Errorf("deletes = %d; want 0 before confirmation", deletes.Load())
	}

	scr.Confirm = func(id int) bool { return id == 1 }
	if err := scr.Remove(context.Background(), 1); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if deletes.Load() != 1 {
		t.Errorf("deletes = %d; want 1", deletes.Load())
	}
}

func Test_CheckReservationTimes(t *testing.T) {
	if err := CheckReservationTimes("08:00", "10:00"); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	for _, pair := range [][2]string{{"10:00", "08:00"}, {"09:00", "09:00"}} {
		err := CheckReservationTimes(pair[0], pair[1])
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("(%s, %s): err = %T", pair[0], pair[1], err)
		}
		if verr.Fields["horario_fim"] == "" {
			t.Errorf("expected a horario_fim field error; got %v", verr.Fields)
		}
	}
}
