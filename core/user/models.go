package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
)

// User is a login account. Every Student, Guardian and Teacher profile is
// linked to exactly one User; Secretaria and Auxiliar accounts stand alone.
// The CPF (digits only) is the login identifier.
type User struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	CPF          string     `db:"cpf" json:"cpf"`
	Email        string     `db:"email" json:"email"`
	Role         authz.Role `db:"role" json:"cargo"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	PasswordHash []byte     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"` // UTC
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"` // UTC
	LastLogin    time.Time  `db:"last_login" json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsSecretaria() bool  { return u.Role == authz.RoleSecretaria }
func (u *User) IsProfessor() bool   { return u.Role == authz.RoleProfessor }
func (u *User) IsAuxiliar() bool    { return u.Role == authz.RoleAuxiliar }
func (u *User) IsAluno() bool       { return u.Role == authz.RoleAluno }
func (u *User) IsResponsavel() bool { return u.Role == authz.RoleResponsavel }

// NewUser contains information needed to create a new User.
// An empty Password means a random one is generated; the account owner is
// expected to go through the password-reset flow to pick their own.
type NewUser struct {
	Name     string     `json:"name" validate:"required"`
	CPF      string     `json:"cpf" validate:"required,cpf"`
	Email    string     `json:"email" validate:"required,email"`
	Role     authz.Role `json:"cargo" validate:"required,cargo"`
	Password string     `json:"password" validate:"omitempty,min=8"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.CPF = core.CleanCPF(nu.CPF)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.CPF, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name     string     `json:"name"`
	Email    string     `json:"email" validate:"omitempty,email"`
	Role     authz.Role `json:"cargo" validate:"omitempty,cargo"`
	IsActive *bool      `json:"is_active"`
	Password string     `json:"password" validate:"omitempty,min=8"`
}

func (uu *UpdateUser) Validate(origUsr User, svc *Service) error {
	uu.Name = core.CleanString(uu.Name)
	if uu.Name == "" {
		uu.Name = origUsr.Name
	}
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	if uu.Email == "" {
		uu.Email = origUsr.Email
	}
	if uu.Role == "" {
		uu.Role = origUsr.Role
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.checkUniqueness(origUsr.CPF, uu.Email, origUsr)
}

// PasswordResetToken is a single-use, time-boxed token mailed to the account
// owner. Requesting a new one invalidates any outstanding token.
type PasswordResetToken struct {
	Token     string    `db:"token" json:"token"`
	UserID    int       `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
}

type ResetUserPassword struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }

type QueryFilter struct {
	Search   string     `query:"search"`
	Role     authz.Role `query:"cargo"`
	IsActive *bool      `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
