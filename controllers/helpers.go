package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-billing-backend/services"
)

func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(v), true
}

// respondServiceError maps domain errors onto HTTP statuses. Unknown
// errors become 500s without leaking internals beyond the message.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrFolioNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrAuditNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidItemType),
		errors.Is(err, services.ErrEmptyBatch),
		errors.Is(err, services.ErrDuplicateFolioInBatch):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrFolioClosed),
		errors.Is(err, services.ErrPaymentAlreadyVoided),
		errors.Is(err, services.ErrAuditAlreadyCompleted),
		errors.Is(err, services.ErrAuditNotInProgress):
		status = http.StatusConflict
	case errors.Is(err, services.ErrCreditLimitExceeded):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"status":  "error",
		"message": err.Error(),
	})
}
