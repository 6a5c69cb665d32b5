package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// idParam parses the `:id` route parameter. A malformed ID behaves like a
// missing record.
func idParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHTTPNotFound
	}
	return id, nil
}

type DestroyMultipleRequest struct {
	IDs []int `query:"id"`
}
