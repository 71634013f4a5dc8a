package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearth-ledger/backend/internal/httperror"
	"github.com/hearth-ledger/backend/internal/httputil"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/recurring"
)

type DetectResponse struct {
	Data recurring.Result `json:"data"`
}

type RecurringPatternListResponse struct {
	Data []models.RecurringPattern `json:"data"`
}

// RegisterHouseholdRoutes registers the routes for households with
// the RouterGroup that is passed.
func (co Controller) RegisterHouseholdRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id/recurring/detect", httputil.OptionsPost)
	r.POST("/:id/recurring/detect", co.DetectRecurring)
	r.OPTIONS("/:id/recurring-patterns", httputil.OptionsGet)
	r.GET("/:id/recurring-patterns", co.GetRecurringPatterns)
}

// household binds the ID and checks that the household exists. On failure,
// the error response is already written.
func (co Controller) household(c *gin.Context) (models.Household, bool) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
		return models.Household{}, false
	}

	var household models.Household
	if err := co.DB.WithContext(c.Request.Context()).First(&household, "id = ?", uri.ID.UUID).Error; err != nil {
		httperror.Handler(c, err)
		return models.Household{}, false
	}

	return household, true
}

// DetectRecurring refreshes the recurring patterns of a household.
//
//	@Summary		Detect recurring patterns
//	@Description	Scans the last 12 months of transactions and upserts the recurring patterns
//	@Tags			Households
//	@Produce		json
//	@Success		200	{object}	DetectResponse
//	@Failure		400	{object}	httperror.Error
//	@Failure		404	{object}	httperror.Error
//	@Failure		500	{object}	httperror.Error
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/households/{id}/recurring/detect [post]
func (co Controller) DetectRecurring(c *gin.Context) {
	household, ok := co.household(c)
	if !ok {
		return
	}

	result, err := co.Detector.Detect(c.Request.Context(), household.ID)
	if err != nil {
		httperror.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, DetectResponse{Data: result})
}

// GetRecurringPatterns lists the recurring patterns of a household.
//
//	@Summary		List recurring patterns
//	@Description	Returns the household's recurring patterns, most confident first
//	@Tags			Households
//	@Produce		json
//	@Success		200	{object}	RecurringPatternListResponse
//	@Failure		400	{object}	httperror.Error
//	@Failure		404	{object}	httperror.Error
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/households/{id}/recurring-patterns [get]
func (co Controller) GetRecurringPatterns(c *gin.Context) {
	household, ok := co.household(c)
	if !ok {
		return
	}

	patterns, err := co.Detector.Patterns(c.Request.Context(), household.ID)
	if err != nil {
		httperror.Handler(c, err)
		return
	}

	if patterns == nil {
		patterns = []models.RecurringPattern{}
	}

	c.JSON(http.StatusOK, RecurringPatternListResponse{Data: patterns})
}
