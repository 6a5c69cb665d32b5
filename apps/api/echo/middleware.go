package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
)

// can gates a route on the rule table: the requester's cargo must be
// allowed to perform action on resource. Row scoping stays in the handlers.
func can(action authz.Action, resource authz.Resource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !authz.CanPerform(claims.Cargo, action, resource) {
				return errHTTPForbidden
			}
			return next(ctx)
		}
	}
}

func roleMiddleware(allowed ...authz.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range allowed {
				if claims.Cargo == role {
					return next(ctx)
				}
			}
			return errHTTPForbidden
		}
	}
}
