package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/hearth-ledger/backend/internal/httperror"
	"github.com/hearth-ledger/backend/internal/httputil"
	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/internal/scraper/onezero"
	"github.com/rs/zerolog/log"
)

var (
	errEnrollmentRejected    = errors.New("the institution rejected the request")
	errEnrollmentUnreachable = errors.New("the institution could not be reached")
)

type OTPTriggerBody struct {
	PhoneNumber string `json:"phoneNumber" binding:"required" example:"+972501234567"`
}

type OTPTriggerResponse struct {
	Data onezero.OTPChallenge `json:"data"`
}

type OTPVerifyBody struct {
	OTPContext string `json:"otpContext" binding:"required"`
	Code       string `json:"code" binding:"required" example:"123456"`
}

type OTPVerifyResponse struct {
	Data OTPVerifyResult `json:"data"`
}

type OTPVerifyResult struct {
	LongTermToken string `json:"longTermToken"` // Store as the otpLongTermToken credential
}

// RegisterOneZeroRoutes registers the enrollment routes with
// the RouterGroup that is passed.
func (co Controller) RegisterOneZeroRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/otp/trigger", httputil.OptionsPost)
	r.POST("/otp/trigger", co.TriggerOTP)
	r.OPTIONS("/otp/verify", httputil.OptionsPost)
	r.POST("/otp/verify", co.VerifyOTP)
}

// enrollmentError writes the response for a failed enrollment step.
// Institution responses are logged, never returned.
func enrollmentError(c *gin.Context, err error) {
	log.Warn().Str("request-id", requestid.Get(c)).Err(err).Msg("onezero enrollment failed")

	var statusErr *scraper.StatusError
	if errors.As(err, &statusErr) && statusErr.Code < http.StatusInternalServerError {
		c.JSON(http.StatusBadRequest, httperror.New(errEnrollmentRejected))
		return
	}

	c.JSON(http.StatusBadGateway, httperror.New(errEnrollmentUnreachable))
}

// TriggerOTP sends the enrollment SMS.
//
//	@Summary		Trigger One Zero OTP
//	@Description	Registers a device and sends a one time password to the phone number
//	@Tags			One Zero
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	OTPTriggerResponse
//	@Failure		400		{object}	httperror.Error
//	@Failure		502		{object}	httperror.Error
//	@Param			request	body		OTPTriggerBody	true	"Phone number"
//	@Router			/v1/onezero/otp/trigger [post]
func (co Controller) TriggerOTP(c *gin.Context) {
	var body OTPTriggerBody
	if err := httputil.BindData(c, &body); err != nil {
		return
	}

	challenge, err := co.Enroller.TriggerOTP(c.Request.Context(), body.PhoneNumber)
	if err != nil {
		enrollmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, OTPTriggerResponse{Data: challenge})
}

// VerifyOTP exchanges the one time password for the long term token.
//
//	@Summary		Verify One Zero OTP
//	@Description	Verifies the code from the SMS and returns the long term token
//	@Tags			One Zero
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	OTPVerifyResponse
//	@Failure		400		{object}	httperror.Error
//	@Failure		502		{object}	httperror.Error
//	@Param			request	body		OTPVerifyBody	true	"OTP context and code"
//	@Router			/v1/onezero/otp/verify [post]
func (co Controller) VerifyOTP(c *gin.Context) {
	var body OTPVerifyBody
	if err := httputil.BindData(c, &body); err != nil {
		return
	}

	token, err := co.Enroller.VerifyOTP(c.Request.Context(), body.OTPContext, body.Code)
	if err != nil {
		enrollmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, OTPVerifyResponse{Data: OTPVerifyResult{LongTermToken: token}})
}
