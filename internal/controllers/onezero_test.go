package controllers_test

import (
	"fmt"
	"net/http"

	"github.com/hearth-ledger/backend/internal/controllers"
	"github.com/hearth-ledger/backend/internal/httperror"
	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/test"
)

func (suite *TestSuiteStandard) TestTriggerOTP() {
	recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, "http://example.com/v1/onezero/otp/trigger", controllers.OTPTriggerBody{PhoneNumber: "+972501234567"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.OTPTriggerResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("device-1", response.Data.DeviceToken)
	suite.Assert().Equal("ctx-1", response.Data.OTPContext)
	suite.Assert().Equal("+972501234567", suite.enroller.phone)
}

func (suite *TestSuiteStandard) TestVerifyOTP() {
	recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, "http://example.com/v1/onezero/otp/verify", controllers.OTPVerifyBody{OTPContext: "ctx-1", Code: "123456"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.OTPVerifyResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("long-term-ctx-1-123456", response.Data.LongTermToken)
}

func (suite *TestSuiteStandard) TestOTPBadBodies() {
	tests := []struct {
		path string
		body any
	}{
		{"/otp/trigger", ""},
		{"/otp/trigger", map[string]string{"phone": "+972501234567"}},
		{"/otp/verify", controllers.OTPVerifyBody{OTPContext: "ctx-1"}},
		{"/otp/verify", "{"},
	}

	for _, tt := range tests {
		suite.Run(fmt.Sprintf("%s %v", tt.path, tt.body), func() {
			recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, "http://example.com/v1/onezero"+tt.path, tt.body)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestOTPInstitutionErrors() {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"rejected", &scraper.StatusError{Code: http.StatusBadRequest, URL: "https://identity.example.com/otp/verify"}, http.StatusBadRequest},
		{"server error", &scraper.StatusError{Code: http.StatusServiceUnavailable, URL: "https://identity.example.com/otp/verify"}, http.StatusBadGateway},
		{"network", fmt.Errorf("%w: connection refused", scraper.ErrNetwork), http.StatusBadGateway},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.enroller.err = tt.err

			recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, "http://example.com/v1/onezero/otp/verify", controllers.OTPVerifyBody{OTPContext: "ctx-1", Code: "000000"})
			test.AssertHTTPStatus(suite.T(), &recorder, tt.code)

			var response httperror.Error
			test.DecodeResponse(suite.T(), &recorder, &response)
			suite.Assert().NotContains(response.Message, "identity.example.com")
		})
	}
}
