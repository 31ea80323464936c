package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/money"
	"famledger/internal/services"
	"famledger/internal/storage"
)

// RecordHandler handles expense record requests
type RecordHandler struct {
	recordService  services.RecordServicer
	imageURL       imageURL
	maxUploadBytes int64
}

// NewRecordHandler creates a new RecordHandler. Image keys are rendered
// through store's URL.
func NewRecordHandler(recordService services.RecordServicer, store storage.Storage, maxUploadBytes int64) *RecordHandler {
	h := &RecordHandler{recordService: recordService, maxUploadBytes: maxUploadBytes}
	if store != nil {
		h.imageURL = store.URL
	}
	return h
}

// RecordRequest is the payload for creating, replacing and patching a
// record. The owner is always the caller.
type RecordRequest struct {
	Category *string                   `json:"category" binding:"omitempty,uuid"`
	Family   services.Nullable[string] `json:"family" swaggertype:"string"`
	Date     *string                   `json:"date" binding:"omitempty,isodate" example:"2024-03-15"`
	Amount   *money.Amount             `json:"amount" binding:"omitempty,money" swaggertype:"string" example:"12.50"`
	Notes    services.Nullable[string] `json:"notes" swaggertype:"string"`
}

func (r RecordRequest) input() services.RecordInput {
	in := services.RecordInput{
		CategoryID: r.Category,
		Family:     r.Family,
		Amount:     r.Amount,
		Notes:      r.Notes,
	}
	if r.Date != nil {
		// already validated by the isodate binding
		d, _ := time.Parse(models.DateLayout, *r.Date)
		in.Date = &d
	}
	return in
}

// ListRecords returns the caller's records matching the query filters
// @Summary     List records
// @Description Records in the selected scope, newest first. Filters combine with AND; year/month/day take precedence from the most specific complete combination.
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       type       query string false "Scope: personal, family or owned (default)"
// @Param       date_range query string false "Inclusive range start,end (YYYY-MM-DD,YYYY-MM-DD)"
// @Param       year       query int    false "Year"
// @Param       month      query int    false "Month (needs year)"
// @Param       day        query int    false "Day (needs year and month)"
// @Param       category   query string false "Category ID"
// @Success     200 {array}  RecordDetail "Records"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Profile missing or server error"
// @Router      /record [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
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

	records, err := h.recordService.List(userID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]RecordDetail, 0, len(records))
	for i := range records {
		resp = append(resp, newRecordDetail(&records[i], h.imageURL))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRecord handles record creation
// @Summary     Create record
// @Description Create an expense record owned by the caller. category, date and amount are required.
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordRequest true "Record details"
// @Success     201 {object} RecordResponse "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /record [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.Create(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRecordResponse(record, h.imageURL))
}

// GetRecord handles retrieving a specific record
// @Summary     Get record
// @Description Get a record within the selected scope
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Record ID"
// @Param       type query string false "Scope: personal, family or owned (default)"
// @Success     200 {object} RecordDetail "Record"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /record/{id} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id", apperrors.ErrRecordNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.Get(userID, recordID, services.ParseRecordScope(c.Query("type")))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecordDetail(record, h.imageURL))
}

// ReplaceRecord handles a full record update
// @Summary     Replace record
// @Description Update a record within the selected scope. category, date and amount are required.
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path  string        true  "Record ID"
// @Param       type    query string        false "Scope: personal, family or owned (default)"
// @Param       request body  RecordRequest true  "Record details"
// @Success     200 {object} RecordResponse "Record updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /record/{id} [put]
func (h *RecordHandler) ReplaceRecord(c *gin.Context) {
	h.update(c, false)
}

// PatchRecord handles a partial record update
// @Summary     Patch record
// @Description Update only the supplied fields of a record within the selected scope
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path  string        true  "Record ID"
// @Param       type    query string        false "Scope: personal, family or owned (default)"
// @Param       request body  RecordRequest true  "Fields to change"
// @Success     200 {object} RecordResponse "Record updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /record/{id} [patch]
func (h *RecordHandler) PatchRecord(c *gin.Context) {
	h.update(c, true)
}

func (h *RecordHandler) update(c *gin.Context, partial bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id", apperrors.ErrRecordNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	scope := services.ParseRecordScope(c.Query("type"))
	record, err := h.recordService.Update(userID, recordID, scope, req.input(), partial)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecordResponse(record, h.imageURL))
}

// DeleteRecord handles record deletion
// @Summary     Delete record
// @Description Delete a record within the selected scope
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Record ID"
// @Param       type query string false "Scope: personal, family or owned (default)"
// @Success     204 "Record deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /record/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id", apperrors.ErrRecordNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recordService.Delete(userID, recordID, services.ParseRecordScope(c.Query("type"))); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage attaches a receipt image to a record
// @Summary     Upload record image
// @Description Attach an image to a record within the selected scope, replacing any previous one
// @Tags        records
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id    path     string true  "Record ID"
// @Param       type  query    string false "Scope: personal, family or owned (default)"
// @Param       image formData file   true  "Image file"
// @Success     200 {object} RecordResponse "Record with image"
// @Failure     400 {object} ErrorResponse "Missing or invalid image"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /record/{id}/upload-image [post]
func (h *RecordHandler) UploadImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id", apperrors.ErrRecordNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || (h.maxUploadBytes > 0 && c.Request.ContentLength > h.maxUploadBytes) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidImage, "Image is too large"))
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "image file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	scope := services.ParseRecordScope(c.Query("type"))
	record, err := h.recordService.AttachImage(c.Request.Context(), userID, recordID, scope, services.ImageUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecordResponse(record, h.imageURL))
}
