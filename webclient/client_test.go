package webclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/escoladigital/secretaria/core/authz"
)

// fakeJWT builds an unsigned compact token carrying a cargo claim; the
// client only ever reads the payload segment.
func fakeJWT(t *testing.T, cargo authz.Role) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]interface{}{"cargo": cargo, "sub": "1"})
	if err != nil {
		t.Fatalf("marshalling claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func Test_Client_Login(t *testing.T) {
	access := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["cpf"] != "52998224725" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "CPF ou senha inválidos"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": access, "refresh": "r-token"})
	}))
	defer srv.Close()

	session := new(Session)
	cli := NewClient(srv.URL, session, nil)
	access = fakeJWT(t, authz.RoleSecretaria)

	if err := cli.Login(context.Background(), "00000000000", "nope"); err != ErrAuthenticationMissing {
		t.Errorf("bad credentials: err = %v; want ErrAuthenticationMissing", err)
	}
	if session.Authenticated() {
		t.Error("session must stay unauthenticated after a failed login")
	}

	if err := cli.Login(context.Background(), "52998224725", "s3nh4forte"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if !session.Authenticated() {
		t.Error("session not authenticated")
	}
	if session.Role != authz.RoleSecretaria {
		t.Errorf("cargo = %q; want Secretaria", session.Role)
	}
	if session.Refresh != "r-token" {
		t.Errorf("refresh = %q", session.Refresh)
	}

	session.Clear()
	if session.Authenticated() || session.Role != "" {
		t.Errorf("Clear() left state behind: %+v", session)
	}
}

func Test_Client_RefreshAccess(t *testing.T) {
	fresh := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token/refresh" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh"] != "r-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "token inválido ou expirado"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": fresh})
	}))
	defer srv.Close()

	fresh = fakeJWT(t, authz.RoleProfessor)

	cli := NewClient(srv.URL, &Session{}, nil)
	if err := cli.RefreshAccess(context.Background()); err != ErrAuthenticationMissing {
		t.Errorf("no refresh token: err = %v; want ErrAuthenticationMissing", err)
	}

	session := &Session{Access: "stale", Refresh: "r-token", Role: authz.RoleProfessor}
	cli = NewClient(srv.URL, session, nil)
	if err := cli.RefreshAccess(context.Background()); err != nil {
		t.Fatalf("RefreshAccess() failed: %v", err)
	}
	if session.Access != fresh {
		t.Errorf("access not replaced: %q", session.Access)
	}
}

func Test_normalizeList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
		wantErr bool
	}{
		{name: "bare array", body: `[{"id":1},{"id":2}]`, wantLen: 2},
		{name: "results envelope", body: `{"count":2,"results":[{"id":1},{"id":2}]}`, wantLen: 2},
		{name: "empty array", body: `[]`, wantLen: 0},
		{name: "empty envelope", body: `{"results":[]}`, wantLen: 0},
		{name: "garbage", body: `nonsense`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := normalizeList([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeList() failed: %v", err)
			}
			if len(items) != tt.wantLen {
				t.Errorf("len = %d; want %d", len(items), tt.wantLen)
			}
		})
	}
}

func Test_translateError(t *testing.T) {
	t.Run("401 drops the session", func(t *testing.T) {
		if err := translateError(http.StatusUnauthorized, nil, "GET /alunos"); err != ErrAuthenticationMissing {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("403 carries the server message", func(t *testing.T) {
		err := translateError(http.StatusForbidden, []byte(`{"error":"Você não tem permissão para executar esta ação."}`), "POST /alunos")
		denied, ok := err.(*AuthorizationDeniedError)
		if !ok {
			t.Fatalf("err = %T", err)
		}
		if denied.Message != "Você não tem permissão para executar esta ação." {
			t.Errorf("message = %q", denied.Message)
		}
	})

	t.Run("400 with field map", func(t *testing.T) {
		err := translateError(http.StatusBadRequest, []byte(`{"cpf":"CPF inválido","email":"obrigatório"}`), "POST /alunos")
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("err = %T", err)
		}
		if verr.Fields["cpf"] != "CPF inválido" || verr.Fields["email"] != "obrigatório" {
			t.Errorf("fields = %v", verr.Fields)
		}
	})

	t.Run("400 with form-level message", func(t *testing.T) {
		err := translateError(http.StatusBadRequest, []byte(`{"error":"Não há exemplares disponíveis deste livro."}`), "POST /emprestimos")
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("err = %T", err)
		}
		if verr.Message != "Não há exemplares disponíveis deste livro." {
			t.Errorf("message = %q", verr.Message)
		}
		if len(verr.Fields) != 0 {
			t.Errorf("fields = %v", verr.Fields)
		}
	})

	t.Run("anything else is a network failure", func(t *testing.T) {
		err := translateError(http.StatusInternalServerError, nil, "GET /alunos")
		if _, ok := err.(*NetworkError); !ok {
			t.Errorf("err = %T", err)
		}
	})
}

func Test_decodeCargo(t *testing.T) {
	if got := decodeCargo(fakeJWT(t, authz.RoleAuxiliar)); got != authz.RoleAuxiliar {
		t.Errorf("cargo = %q", got)
	}
	if got := decodeCargo("not-a-token"); got != "" {
		t.Errorf("cargo = %q; want empty", got)
	}
	if got := decodeCargo("a.!!!.c"); got != "" {
		t.Errorf("cargo = %q; want empty", got)
	}
}
