package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"famledger/internal/services"
)

// SummaryHandler serves per-category totals
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetSummary returns the total spent per category for the filtered records
// @Summary     Summarize records
// @Description Sum of amounts per category over the records matching the same filters as the record list, ordered by category id
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Param       type       query string false "Scope: personal, family or owned (default)"
// @Param       date_range query string false "Inclusive range start,end (YYYY-MM-DD,YYYY-MM-DD)"
// @Param       year       query int    false "Year"
// @Param       month      query int    false "Month (needs year)"
// @Param       day        query int    false "Day (needs year and month)"
// @Param       category   query string false "Category ID"
// @Success     200 {array}  services.CategoryTotal "Totals"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Profile missing or server error"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	query, err := services.ParseRecordQuery(c.Request.URL.Query())
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.summaryService.Summarize(userID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}
