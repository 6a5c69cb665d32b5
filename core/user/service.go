package user

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrCPFExists    = errors.New("a user with this CPF already exists")
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("the reset token has expired")
)

type (
	Repository interface {
		CheckUniqueness(cpf, email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		GetUserByID(id int) (User, error)
		GetUserByCPF(cpf string) (User, error)
		GetUserByEmail(email string) (User, error)
		// FilterUsers applies AND on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Name, CPF or Email.
		FilterUsers(filter QueryFilter) ([]User, error)
		UpdateUser(usr User, isActive *bool) (User, error)
		DeleteUsersByID(ids ...int) error

		CreatePasswordResetToken(tok PasswordResetToken) (PasswordResetToken, error)
		GetPasswordResetToken(token string) (PasswordResetToken, error)
		DeletePasswordResetTokens(userID int) error
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{conf: conf, repo: repo, mailSvc: mailSvc}
}

func (svc *Service) checkUniqueness(cpf, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUniqueness(cpf, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrCPFExists:
			field = "cpf"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		CPF:       nu.CPF,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	pwd := nu.Password
	if pwd == "" {
		var err error
		if pwd, err = randomPassword(12); err != nil {
			return User{}, errors.Wrap(err, "generating password")
		}
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) GetByID(id int) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByCPF(cpf string) (User, error) {
	return svc.repo.GetUserByCPF(core.CleanCPF(cpf))
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) Filter(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}

func (svc *Service) Update(id int, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Email:     uu.Email,
		Role:      uu.Role,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteUsersByID(ids...)
}

// Authenticate checks the CPF/password pair and stamps LastLogin.
func (svc *Service) Authenticate(cpf, pwd string) (User, error) {
	usr, err := svc.GetByCPF(cpf)
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrNotFound
	}
	return svc.SetLastLogin(usr)
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr, nil)
}

// RequestPasswordReset mails a single-use reset link. Any outstanding token
// for the account is invalidated first.
func (svc *Service) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	if err = svc.repo.DeletePasswordResetTokens(usr.ID); err != nil {
		return errors.Wrap(err, "deleting old tokens")
	}
	tok, err := svc.repo.CreatePasswordResetToken(PasswordResetToken{
		Token:     uuid.New().String(),
		UserID:    usr.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "creating token")
	}

	link := fmt.Sprintf("%s/resetar-senha/%s", svc.conf.FrontendBaseURL, tok.Token)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Seu link de redefinição de senha",
		Body: fmt.Sprintf(
			"Olá, %s.\n\nClique no link a seguir para redefinir sua senha:\n%s\n\nEste link expira em %v.",
			usr.Name, link, svc.conf.Server.PasswordResetTimeoutDelta,
		),
	})
	return nil
}

// ResetPassword redeems a reset token and sets the new password.
func (svc *Service) ResetPassword(rp ResetUserPassword) error {
	tok, err := svc.repo.GetPasswordResetToken(rp.Token)
	if err != nil {
		if err == ErrNotFound {
			return core.NewValidationError(ErrTokenInvalid, core.FieldError{Field: "token", Error: ErrTokenInvalid.Error()})
		}
		return err
	}
	if time.Since(tok.CreatedAt) > svc.conf.Server.PasswordResetTimeoutDelta {
		_ = svc.repo.DeletePasswordResetTokens(tok.UserID)
		return core.NewValidationError(ErrTokenExpired, core.FieldError{Field: "token", Error: ErrTokenExpired.Error()})
	}

	usr, err := svc.GetByID(tok.UserID)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateUser(usr, nil); err != nil {
		return err
	}
	return svc.repo.DeletePasswordResetTokens(tok.UserID)
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomPassword(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
