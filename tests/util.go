package testutil

import (
	"encoding/json"
	"io"
	"log"
	"net/mail"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/user"
	logsvc "github.com/escoladigital/secretaria/services/logger"
)

// NewConfig returns a self-contained configuration for tests;
// nothing is read from the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		AppName:          "Secretaria",
		Debug:            false,
		TestMode:         true,
		SecretKey:        []byte("chave-secreta-de-teste"),
		FrontendBaseURL:  "http://localhost:5173",
		DefaultFromEmail: mail.Address{Address: "noreply@localhost"},
		Server: core.ServerConfig{
			JWTExpirationDelta:        30 * time.Minute,
			JWTRefreshExpirationDelta: 7 * 24 * time.Hour,
			PasswordResetTimeoutDelta: time.Hour,
			ShutdownTimeout:           time.Second,
		},
		Academic: core.AcademicConfig{
			MinPassingAverage:  6.0,
			MinAttendanceRatio: 0.75,
		},
	}
}

// NewLogger returns a disabled logger writing nowhere.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, cpf, email, pwd string,
	role authz.Role,
	isActive bool,
) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		CPF:       cpf,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// JSONDiff renders a unified diff of two JSON documents after indenting
// them, so test failures show which fields differ.
func JSONDiff(t *testing.T, want, got []byte) string {
	t.Helper()
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(indentJSON(t, want)),
		B:        difflib.SplitLines(indentJSON(t, got)),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		t.Fatalf("JSONDiff() failed: %v", err)
	}
	return diff
}

func indentJSON(t *testing.T, data []byte) string {
	t.Helper()
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return string(data)
	}
	out, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("indentJSON() failed: %v", err)
	}
	return string(out) + "\n"
}
