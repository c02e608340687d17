package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d20tracker/d20-api/internal/errors"
)

type errorResponse struct {
	Code    errors.Code    `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// renderError writes err as {"code","message","meta"}. Server-side failures
// are logged and their details withheld.
func renderError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	resp := errorResponse{Code: code, Message: errors.RootMessage(err), Meta: errors.GetMeta(err)}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"request_id", c.GetString(requestIDKey),
			"route", c.FullPath(),
			"error", err,
		)
		if code != errors.CodeUnavailable {
			resp.Message = "internal error"
			resp.Meta = nil
		}
	}

	c.AbortWithStatusJSON(status, resp)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		renderError(c, errors.InvalidArgumentf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		renderError(c, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid request body"))
		return false
	}
	return true
}
