package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

type errorResponse struct {
	Error  string  `json:"error"`
	Kind   string  `json:"kind"`
	Orders []int64 `json:"blocking_orders,omitempty"`
}

// statusFor сопоставляет категорию доменной ошибки с HTTP-статусом.
func statusFor(err error) (int, string) {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest, "validation"
	case domain.IsDuplicate(err):
		return http.StatusConflict, "duplicate"
	case domain.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case domain.IsReferentialIntegrity(err):
		return http.StatusConflict, "referential_integrity"
	case domain.IsInvalidState(err):
		return http.StatusConflict, "invalid_state"
	default:
		return http.StatusInternalServerError, "persistence"
	}
}

func (h *handler) fail(c *gin.Context, err error) {
	code, kind := statusFor(err)
	resp := errorResponse{Error: err.Error(), Kind: kind}

	var refErr *domain.ReferenceError
	if errors.As(err, &refErr) {
		resp.Orders = refErr.Orders
	}
	if code == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		resp.Error = "internal error"
	}
	c.AbortWithStatusJSON(code, resp)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
}
