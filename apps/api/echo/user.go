package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/user"
)

func (s *server) registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	// un-authed endpoints
	// TODO: rate limit `/password-reset/request` & `/password-reset/confirm`
	g.POST("/token", s.obtainTokenPair)
	g.POST("/token/refresh", s.refreshToken)
	g.POST("/password-reset/request", s.requestPasswordReset)
	g.POST("/password-reset/confirm", s.confirmPasswordReset)

	// the provisioning flow is Secretaria-only
	g.POST("/secretaria/create-user", s.createUser, jwt, roleMiddleware(authz.RoleSecretaria))
}

type (
	TokenRequest struct {
		CPF      string `json:"cpf" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	TokenPairResponse struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}

	TokenRefreshRequest struct {
		Refresh string `json:"refresh" validate:"required"`
	}

	TokenRefreshResponse struct {
		Access string `json:"access"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (tr *TokenRequest) Validate() error {
	tr.CPF = core.CleanCPF(tr.CPF)
	return core.Validate.Struct(tr)
}

func (pr *PasswordResetRequest) Validate() error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}

func (s *server) obtainTokenPair(ctx echo.Context) error {
	var data TokenRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TokenRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := s.authenticate(data.CPF, data.Password)
	if err != nil {
		return err
	}

	access, err := s.tokens.GenerateToken(s.tokens.GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating access token")
	}
	refresh, err := s.tokens.GenerateToken(s.tokens.getRefreshClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating refresh token")
	}

	return ctx.JSON(http.StatusOK, TokenPairResponse{Access: access, Refresh: refresh})
}

func (s *server) refreshToken(ctx echo.Context) error {
	var data TokenRefreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TokenRefreshRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	access, err := s.refreshAccessToken(data.Refresh)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TokenRefreshResponse{Access: access})
}

func (s *server) requestPasswordReset(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := s.deps.UserSvc.RequestPasswordReset(data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "Se o email informado estiver associado a uma conta ativa, " +
			"você receberá em instantes as instruções para redefinir sua senha.",
	})
}

func (s *server) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := s.deps.UserSvc.ResetPassword(data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Senha redefinida com sucesso."})
}

func (s *server) createUser(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(s.deps.UserSvc); err != nil {
		return err
	}

	usr, err := s.deps.UserSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}
