package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest is the payload for creating, replacing and patching a
// category. The owner is always the caller; a user field in the body is
// ignored.
type CategoryRequest struct {
	Name     *string                   `json:"name" binding:"omitempty,max=255"`
	IsPublic *bool                     `json:"is_public"`
	Family   services.Nullable[string] `json:"family" swaggertype:"string"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{Name: r.Name, IsPublic: r.IsPublic, Family: r.Family}
}

// ListCategories returns every category visible to the caller
// @Summary     List categories
// @Description Public categories, the caller's own and those of the caller's family, ordered by id
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  CategoryDetail "Visible categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Profile missing or server error"
// @Router      /category [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListVisible(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]CategoryDetail, 0, len(categories))
	for i := range categories {
		resp = append(resp, newCategoryDetail(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCategory handles category creation
// @Summary     Create category
// @Description Create a category owned by the caller, optionally shared with the caller's family or made public
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} CategoryResponse "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /category [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.Create(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCategoryResponse(category))
}

// GetCategory handles retrieving a specific category
// @Summary     Get category
// @Description Get a category visible to the caller
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} CategoryDetail "Category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /category/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.Get(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCategoryDetail(category))
}

// ReplaceCategory handles a full category update
// @Summary     Replace category
// @Description Update a visible category. name is required; omitted optional fields keep their value.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Category ID"
// @Param       request body CategoryRequest true "Category details"
// @Success     200 {object} CategoryResponse "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Public category owned by someone else"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /category/{id} [put]
func (h *CategoryHandler) ReplaceCategory(c *gin.Context) {
	h.update(c, false)
}

// PatchCategory handles a partial category update
// @Summary     Patch category
// @Description Update only the supplied fields of a visible category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Category ID"
// @Param       request body CategoryRequest true "Fields to change"
// @Success     200 {object} CategoryResponse "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Public category owned by someone else"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /category/{id} [patch]
func (h *CategoryHandler) PatchCategory(c *gin.Context) {
	h.update(c, true)
}

func (h *CategoryHandler) update(c *gin.Context, partial bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.Update(userID, categoryID, req.input(), partial)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCategoryResponse(category))
}

// DeleteCategory handles category deletion
// @Summary     Delete category
// @Description Delete a visible category together with every record filed under it
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     204 "Category deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Public category owned by someone else"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /category/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.Delete(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
