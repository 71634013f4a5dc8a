package controllers

import (
	"context"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/httperror"
	"github.com/hearth-ledger/backend/internal/httputil"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/runner"
	"github.com/rs/zerolog/log"
)

type SyncQuery struct {
	Full bool `form:"full"` // Ignore the last sync time and fetch the default window
}

type SyncResult struct {
	AccountID  uuid.UUID     `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Status     runner.Status `json:"status" example:"success"`
	Added      int           `json:"added" example:"4"`
	Duplicates int           `json:"duplicates" example:"12"`
	Classified int           `json:"classified" example:"4"` // Newly added transactions that got a category
}

type SyncResponse struct {
	Data  SyncResult `json:"data"`
	Error string     `json:"error,omitempty" example:"Sync failed: re-authentication required"`
}

type SyncOutcomeListResponse struct {
	Data []models.SyncOutcome `json:"data"`
}

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id/sync", httputil.OptionsPost)
	r.POST("/:id/sync", co.SyncAccount)
	r.OPTIONS("/:id/sync-outcomes", httputil.OptionsGet)
	r.GET("/:id/sync-outcomes", co.GetSyncOutcomes)
}

// syncStatus maps a sync result to the HTTP status.
func syncStatus(s runner.Status) int {
	switch s {
	case runner.StatusSuccess:
		return http.StatusOK
	case runner.StatusNotFound:
		return http.StatusNotFound
	case runner.StatusNoCredentials:
		return http.StatusPreconditionFailed
	case runner.StatusUnsupported:
		return http.StatusUnprocessableEntity
	case runner.StatusReauthRequired, runner.StatusAuthFailed:
		return http.StatusUnauthorized
	case runner.StatusFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// SyncAccount syncs one account and classifies what was added.
//
//	@Summary		Sync account
//	@Description	Fetches new transactions from the institution. A sync that adds nothing is a success.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200		{object}	SyncResponse
//	@Failure		400		{object}	httperror.Error
//	@Failure		401		{object}	SyncResponse
//	@Failure		404		{object}	SyncResponse
//	@Failure		412		{object}	SyncResponse
//	@Failure		422		{object}	SyncResponse
//	@Failure		502		{object}	SyncResponse
//	@Param			id		path		string	true	"ID formatted as string"
//	@Param			full	query		bool	false	"Fetch the full default window"
//	@Router			/v1/accounts/{id}/sync [post]
func (co Controller) SyncAccount(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
		return
	}

	var query SyncQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	result := co.Syncer.Run(c.Request.Context(), uri.ID.UUID, runner.Options{Full: query.Full})
	response := SyncResponse{
		Data: SyncResult{
			AccountID:  uri.ID.UUID,
			Status:     result.Status,
			Added:      result.Added,
			Duplicates: result.Duplicates,
		},
	}

	if result.Status != runner.StatusSuccess {
		response.Error = result.Message
		c.JSON(syncStatus(result.Status), response)
		return
	}

	if co.Processor != nil && len(result.NewlyInserted) > 0 {
		// The transactions are stored, classification must not be cut short
		// by the client going away
		classified, err := co.Processor.Process(context.WithoutCancel(c.Request.Context()), result.HouseholdID, result.NewlyInserted)
		if err != nil {
			log.Error().Str("request-id", requestid.Get(c)).Str("account", uri.ID.String()).Err(err).Msg("classification failed")
		}
		response.Data.Classified = classified
	}

	c.JSON(http.StatusOK, response)
}

// GetSyncOutcomes returns the sync audit trail of an account.
//
//	@Summary		List sync outcomes
//	@Description	Returns all sync attempts of the account, newest first
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	SyncOutcomeListResponse
//	@Failure		400	{object}	httperror.Error
//	@Failure		404	{object}	httperror.Error
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/accounts/{id}/sync-outcomes [get]
func (co Controller) GetSyncOutcomes(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
		return
	}

	db := co.DB.WithContext(c.Request.Context())

	var account models.Account
	if err := db.First(&account, "id = ?", uri.ID.UUID).Error; err != nil {
		httperror.Handler(c, err)
		return
	}

	outcomes := []models.SyncOutcome{}
	if err := db.Where(models.SyncOutcome{AccountID: account.ID}).Order("started_at DESC, created_at DESC").Find(&outcomes).Error; err != nil {
		httperror.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, SyncOutcomeListResponse{Data: outcomes})
}
