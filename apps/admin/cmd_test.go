package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/user"
	inmemdb "github.com/escoladigital/secretaria/storage/database/inmem"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()
	usrRepo = inmemdb.NewUserRepository(inmemdb.NewDB())

	// start CLI
	return &commandLine{
		usrRepo: usrRepo,
	}
}

func createUser(t *testing.T, name, cpf, email, pwd string, role authz.Role) user.User {
	t.Helper()
	usr := user.User{
		Name:     name,
		CPF:      cpf,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := usrRepo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "turma", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "missing email", args: []string{"adduser", "-name", "Ana Souza", "-cpf", "52998224725"}, wantErr: errHelp},
		{name: "flags but no password", args: []string{"adduser", "-name", "Ana Souza", "-cpf", "52998224725", "-email", "ana@escola.test"}, wantErr: errHelp},
		{
			name:       "unknown cargo",
			args:       []string{"adduser", "-name", "Ana Souza", "-cpf", "52998224725", "-email", "ana@escola.test", "-cargo", "Diretor"},
			extra:      extra{pwd: "s3gr3d0!"},
			wantErrStr: "unknown cargo \"Diretor\"",
		},
		{name: "create", args: []string{"adduser", "-name", "Ana Souza", "-cpf", "529.982.247-25", "-email", "Ana@escola.test"}, extra: extra{pwd: "s3gr3d0!"}},
		{name: "update existing", args: []string{"adduser", "-name", "Ana S. Lima", "-cpf", "52998224725", "-email", "ana@escola.test", "-cargo", "Professor"}, extra: extra{pwd: "0utr0s3gr3d0"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				usr, err := usrRepo.GetUserByCPF("52998224725")
				if err != nil {
					t.Fatalf("GetUserByCPF() failed, %v", err)
				}
				if usr.Email != "ana@escola.test" {
					t.Errorf("addUser() email = %s, want ana@escola.test", usr.Email)
				}
				if !usr.IsActive {
					t.Error("addUser() expected an active account")
				}
				if extra, ok := tt.extra.(extra); ok {
					if err := usr.CheckPassword(extra.pwd); err != nil {
						t.Error("failed to set new password")
					}
				}
			} else if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if tt.wantErrStr != "" {
				if err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
				}
			} else {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	// update-or-create keys on CPF; no duplicate account may appear
	users, err := usrRepo.FilterUsers(user.QueryFilter{})
	if err != nil {
		t.Fatalf("FilterUsers() failed, %v", err)
	}
	if len(users) != 1 {
		t.Errorf("addUser() created %d accounts, want 1", len(users))
	}
	if users[0].Role != authz.RoleProfessor {
		t.Errorf("addUser() cargo = %s, want %s", users[0].Role, authz.RoleProfessor)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := createUser(t, "Carla Dias", "11144477735", "carla@escola.test", "antig4senha", authz.RoleSecretaria)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "cpf but no password", args: []string{"resetpassword", "-cpf", "00000000000"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-cpf", "00000000000"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with bare cpf", args: []string{"resetpassword", "-cpf", usr.CPF}, extra: extra{pwd: "n0v4senha!"}},
		{name: "reset with formatted cpf", args: []string{"resetpassword", "-cpf", "111.444.777-35"}, extra: extra{pwd: "m4isum4senha"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
