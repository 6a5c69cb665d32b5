package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/user"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"

	claimsContextKey = "userToken"
	userContextKey   = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
// Cargo drives every authorization decision downstream.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64      `json:"oriat,omitempty"`
	Name         string     `json:"name,omitempty"`
	CPF          string     `json:"cpf,omitempty"`
	Email        string     `json:"email,omitempty"`
	Cargo        authz.Role `json:"cargo,omitempty"`
	TokenUse     string     `json:"use,omitempty"`
}

func (c Claims) userID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

type tokenManager struct {
	conf *core.Config
}

func (tm tokenManager) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    tm.conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsContextKey,
		Claims:        new(Claims),
	}
}

// GetUserClaims builds access token claims for usr.
func (tm tokenManager) GetUserClaims(usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    tm.conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			ExpiresAt: now.Add(tm.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         usr.Name,
		CPF:          usr.CPF,
		Email:        usr.Email,
		Cargo:        usr.Role,
		TokenUse:     tokenUseAccess,
	}
}

func (tm tokenManager) getRefreshClaims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    tm.conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			ExpiresAt: now.Add(tm.conf.Server.JWTRefreshExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Unix(),
		Cargo:        usr.Role,
		TokenUse:     tokenUseRefresh,
	}
}

// GenerateToken signs claims into a compact JWT string.
func (tm tokenManager) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString(tm.conf.SecretKey)
	return ss, errors.Wrap(err, "signing token")
}

// parseToken validates a compact JWT string and returns its claims.
func (tm tokenManager) parseToken(ss string) (Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(ss, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != middleware.AlgorithmHS256 {
			return nil, errors.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return tm.conf.SecretKey, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, errTokenInvalid
	}
	return *claims, nil
}

func (s *server) authenticate(cpf, pwd string) (user.User, error) {
	usr, err := s.deps.UserSvc.Authenticate(cpf, pwd)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errAuthenticationFailed
		}
		return user.User{}, errors.Wrap(err, "authenticating")
	}
	if !usr.IsActive {
		return user.User{}, errAccountDeactivated
	}
	if usr, err = s.deps.UserSvc.SetLastLogin(usr); err != nil {
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(claimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func (s *server) getContextUser(ctx echo.Context, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(userContextKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		if claims, err = getContextClaims(ctx); err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := s.deps.UserSvc.GetByID(claims.userID())
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(userContextKey, usr)
	return usr, nil
}

func (s *server) refreshAccessToken(refresh string) (string, error) {
	claims, err := s.tokens.parseToken(refresh)
	if err != nil {
		return "", err
	}
	if claims.TokenUse != tokenUseRefresh {
		return "", errTokenInvalid
	}

	usr, err := s.deps.UserSvc.GetByID(claims.userID())
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return "", errTokenInvalid
		}
		return "", errors.Wrap(err, "finding user by ID")
	}
	if !usr.IsActive {
		return "", errAccountDeactivated
	}

	return s.tokens.GenerateToken(s.tokens.GetUserClaims(usr, claims.OrigIssuedAt))
}
