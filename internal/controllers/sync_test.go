package controllers_test

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/controllers"
	"github.com/hearth-ledger/backend/internal/httperror"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/runner"
	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/test"
)

func syncURL(id uuid.UUID) string {
	return "http://example.com/v1/accounts/" + id.String() + "/sync"
}

func (suite *TestSuiteStandard) TestSyncAccount() {
	suite.scraped = []scraper.RawTransaction{
		raw("voucher-1", 3, -120, "Shufersal"),
		raw("voucher-2", 4, -35, "Aroma"),
	}
	co := suite.controller()

	recorder := test.Request(suite.T(), co, http.MethodPost, syncURL(suite.account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.SyncResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(runner.StatusSuccess, response.Data.Status)
	suite.Assert().Equal(2, response.Data.Added)
	suite.Assert().Equal(0, response.Data.Duplicates)
	suite.Assert().Equal(2, response.Data.Classified)
	suite.Assert().Empty(response.Error)

	// Repeating the sync adds nothing and classifies nothing
	recorder = test.Request(suite.T(), co, http.MethodPost, syncURL(suite.account.ID)+"?full=true", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(0, response.Data.Added)
	suite.Assert().Equal(2, response.Data.Duplicates)
	suite.Assert().Equal(0, response.Data.Classified)
	suite.Assert().Equal(1, suite.processor.calls)
}

func (suite *TestSuiteStandard) TestSyncAccountNothingNew() {
	recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, syncURL(suite.account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.SyncResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(runner.StatusSuccess, response.Data.Status)
	suite.Assert().Zero(response.Data.Added)
	suite.Assert().Zero(suite.processor.calls)
}

func (suite *TestSuiteStandard) TestSyncAccountFailures() {
	tests := []struct {
		status runner.Status
		code   int
	}{
		{runner.StatusNotFound, http.StatusNotFound},
		{runner.StatusNoCredentials, http.StatusPreconditionFailed},
		{runner.StatusUnsupported, http.StatusUnprocessableEntity},
		{runner.StatusReauthRequired, http.StatusUnauthorized},
		{runner.StatusAuthFailed, http.StatusUnauthorized},
		{runner.StatusFetchFailed, http.StatusBadGateway},
		{runner.StatusError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Run(string(tt.status), func() {
			co := suite.controller()
			co.Syncer = fakeSyncer{result: runner.Result{Status: tt.status, Message: "Sync failed: " + string(tt.status)}}

			recorder := test.Request(suite.T(), co, http.MethodPost, syncURL(suite.account.ID), "")
			test.AssertHTTPStatus(suite.T(), &recorder, tt.code)

			var response controllers.SyncResponse
			test.DecodeResponse(suite.T(), &recorder, &response)
			suite.Assert().Equal(tt.status, response.Data.Status)
			suite.Assert().Equal("Sync failed: "+string(tt.status), response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestSyncAccountUnknown() {
	recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, syncURL(uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestSyncAccountNoCredentials() {
	account := test.Account(suite.T(), suite.db, models.Account{HouseholdID: suite.household.ID})

	recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, syncURL(account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusPreconditionFailed)

	var response controllers.SyncResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("Sync failed: no credentials configured", response.Error)
}

func (suite *TestSuiteStandard) TestSyncAccountUnsupported() {
	account := test.Account(suite.T(), suite.db, models.Account{HouseholdID: suite.household.ID, Institution: "leumi", Credentials: suite.account.Credentials})

	recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, syncURL(account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnprocessableEntity)
}

func (suite *TestSuiteStandard) TestSyncAccountBadRequests() {
	tests := []struct {
		name string
		url  string
	}{
		{"invalid ID", "http://example.com/v1/accounts/not-a-uuid/sync"},
		{"invalid full flag", syncURL(suite.account.ID) + "?full=maybe"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			recorder := test.Request(suite.T(), suite.controller(), http.MethodPost, tt.url, "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestGetSyncOutcomes() {
	co := suite.controller()

	recorder := test.Request(suite.T(), co, http.MethodPost, syncURL(suite.account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	// Break the credentials to get a failed run
	suite.Require().NoError(suite.db.Model(&suite.account).Update("credentials", []byte("garbage")).Error)
	recorder = test.Request(suite.T(), co, http.MethodPost, syncURL(suite.account.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusPreconditionFailed)

	recorder = test.Request(suite.T(), co, http.MethodGet, "http://example.com/v1/accounts/"+suite.account.ID.String()+"/sync-outcomes", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.SyncOutcomeListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal(models.SyncStatusError, response.Data[0].Status, "newest first")
	suite.Assert().Equal(models.SyncStatusSuccess, response.Data[1].Status)
}

func (suite *TestSuiteStandard) TestGetSyncOutcomesUnknownAccount() {
	recorder := test.Request(suite.T(), suite.controller(), http.MethodGet, "http://example.com/v1/accounts/"+uuid.NewString()+"/sync-outcomes", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	var response httperror.Error
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Contains(response.Message, "account")
}

func (suite *TestSuiteStandard) TestSyncRoutesOptions() {
	for _, path := range []string{"/sync", "/sync-outcomes"} {
		recorder := test.Request(suite.T(), suite.controller(), http.MethodOptions, "http://example.com/v1/accounts/"+suite.account.ID.String()+path, "")
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	}
}
