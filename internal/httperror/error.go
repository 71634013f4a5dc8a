// Package httperror maps errors to HTTP responses.
package httperror

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Error is the body of all error responses.
type Error struct {
	Message string `json:"error" example:"Sync failed: re-authentication required"`
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}

// Status returns the HTTP status for a model error.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAccountNameNotUnique),
		errors.Is(err, models.ErrCategoryNameNotUnique),
		errors.Is(err, models.ErrTransactionNotUnique),
		errors.Is(err, models.ErrRecurringPatternNotUnique):
		return http.StatusConflict
	case errors.Is(err, models.ErrAccountTypeInvalid), errors.Is(err, models.ErrAccountInstitutionRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Handler writes the error response for err. Server errors are logged and
// their details are not sent to the client.
func Handler(c *gin.Context, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		c.JSON(status, New(errors.New("an error occurred on the server during your request. The request id is '"+requestid.Get(c)+"'")))
		return
	}

	c.JSON(status, New(err))
}
