package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"famledger/internal/services"
)

// FamilyHandler handles family requests
type FamilyHandler struct {
	familyService services.FamilyServicer
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyService services.FamilyServicer) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// CreateFamilyRequest represents the family creation payload
type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// FamilyResponse is a family with its members.
type FamilyResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Members []UserRef `json:"members"`
}

// CreateFamily creates a family with the caller as its first member
// @Summary     Create a family
// @Description Create a family. The caller becomes its first member and must not belong to a family yet.
// @Tags        families
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFamilyRequest true "Family details"
// @Success     201 {object} FamilyRef "Family created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Already in a family"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /families [post]
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFamilyRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	family, err := h.familyService.CreateFamily(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newFamilyRef(family))
}

// GetFamily returns the caller's family
// @Summary     Get current family
// @Description Get the authenticated user's family and its members
// @Tags        families
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} FamilyResponse "Family"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Profile missing or server error"
// @Router      /families/current [get]
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.familyService.GetFamily(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := FamilyResponse{
		ID:      detail.Family.ID,
		Name:    detail.Family.Name,
		Members: make([]UserRef, 0, len(detail.Members)),
	}
	for i := range detail.Members {
		resp.Members = append(resp.Members, newUserRef(&detail.Members[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteFamily deletes the caller's family
// @Summary     Delete current family
// @Description Delete the authenticated user's family with its categories, tagged records and member profiles
// @Tags        families
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Family deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Profile missing or server error"
// @Router      /families/current [delete]
func (h *FamilyHandler) DeleteFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.familyService.DeleteFamily(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Family deleted successfully"})
}
