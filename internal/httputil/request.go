package httputil

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/hearth-ledger/backend/internal/httperror"
	"github.com/rs/zerolog/log"
)

// RequestHost returns the scheme and host the client used.
//
// The scheme is http unless x-forwarded-proto is "https". Behind a proxy
// setting x-forwarded-host, the x-forwarded-prefix header is appended,
// falling back to "/api".
func RequestHost(c *gin.Context) string {
	scheme := "http"
	if c.Request.Header.Get("x-forwarded-proto") == "https" {
		scheme = "https"
	}

	host := c.Request.Host
	var forwardedPrefix string

	if forwardedHost := c.Request.Header.Get("x-forwarded-host"); forwardedHost != "" {
		host = forwardedHost

		forwardedPrefix = c.Request.Header.Get("x-forwarded-prefix")
		if forwardedPrefix == "" {
			forwardedPrefix = "/api"
		}
	}

	return scheme + "://" + host + forwardedPrefix
}

// BindData binds the JSON body to data. On failure, the error response is
// already written.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, httperror.New(ErrRequestBodyEmpty))
			return ErrRequestBodyEmpty
		}

		log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		c.JSON(http.StatusBadRequest, httperror.New(ErrInvalidBody))
		return ErrInvalidBody
	}

	return nil
}
