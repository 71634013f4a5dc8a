package controllers_test

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/controllers"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/test"
	"github.com/shopspring/decimal"
)

func householdURL(id uuid.UUID, path string) string {
	return "http://example.com/v1/households/" + id.String() + path
}

func (suite *TestSuiteStandard) salary() {
	now := time.Now().In(time.UTC)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 5; i >= 0; i-- {
		t := models.Transaction{
			AccountID:   suite.account.ID,
			HouseholdID: suite.household.ID,
			ExternalID:  uuid.NewString(),
			Date:        first.AddDate(0, -i, 0),
			Description: "Salary Inc.",
			Amount:      decimal.NewFromInt(15000),
			Type:        models.TransactionTypeIncome,
		}
		suite.Require().NoError(suite.db.Create(&t).Error)
	}
}

func (suite *TestSuiteStandard) TestDetectRecurring() {
	suite.salary()
	co := suite.controller()

	recorder := test.Request(suite.T(), co, http.MethodPost, householdURL(suite.household.ID, "/recurring/detect"), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var detected controllers.DetectResponse
	test.DecodeResponse(suite.T(), &recorder, &detected)
	suite.Assert().Equal(1, detected.Data.Detected)
	suite.Assert().Equal(0, detected.Data.Updated)

	recorder = test.Request(suite.T(), co, http.MethodGet, householdURL(suite.household.ID, "/recurring-patterns"), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var patterns controllers.RecurringPatternListResponse
	test.DecodeResponse(suite.T(), &recorder, &patterns)
	suite.Require().Len(patterns.Data, 1)
	suite.Assert().Equal(models.FrequencyMonthly, patterns.Data[0].Frequency)
	suite.Assert().True(decimal.NewFromInt(15000).Equal(patterns.Data[0].ExpectedAmount))
}

func (suite *TestSuiteStandard) TestGetRecurringPatternsEmpty() {
	recorder := test.Request(suite.T(), suite.controller(), http.MethodGet, householdURL(suite.household.ID, "/recurring-patterns"), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().JSONEq(`{"data": []}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestRecurringUnknownHousehold() {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/recurring/detect"},
		{http.MethodGet, "/recurring-patterns"},
	}

	for _, tt := range tests {
		suite.Run(tt.path, func() {
			recorder := test.Request(suite.T(), suite.controller(), tt.method, householdURL(uuid.New(), tt.path), "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

			recorder = test.Request(suite.T(), suite.controller(), tt.method, "http://example.com/v1/households/nope"+tt.path, "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}
