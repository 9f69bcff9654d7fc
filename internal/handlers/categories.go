package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk/api/internal/models"
	"helpdesk/api/internal/service"
)

type categoryRequest struct {
	Name            string  `json:"category_name" binding:"required"`
	Answer          *string `json:"answer"`
	ContactPersonID *string `json:"contact_person"`
	ParentID        *string `json:"parent_category"`
	Active          *bool   `json:"is_active"`
}

type categoryResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"category_name"`
	Answer           *string            `json:"answer"`
	ContactPersonID  *string            `json:"contact_person"`
	ParentID         *string            `json:"parent_category,omitempty"`
	Active           bool               `json:"is_active"`
	CreatedOn        time.Time          `json:"created_on"`
	UpdatedOn        time.Time          `json:"updated_on"`
	Subcategories    []categoryResponse `json:"subcategories,omitempty"`
	HasSubcategories bool               `json:"has_subcategories"`
}

func toCategoryResponse(category models.Category) categoryResponse {
	return categoryResponse{
		ID:              category.ID,
		Name:            category.Name,
		Answer:          category.Answer,
		ContactPersonID: category.ContactPersonID,
		ParentID:        category.ParentID,
		Active:          category.Active,
		CreatedOn:       category.CreatedAt,
		UpdatedOn:       category.UpdatedAt,
	}
}

func toCategoryTreeResponse(node models.CategoryNode) categoryResponse {
	resp := toCategoryResponse(node.Category)
	resp.HasSubcategories = node.HasSubcategories
	for _, child := range node.Subcategories {
		resp.Subcategories = append(resp.Subcategories, toCategoryTreeResponse(child))
	}
	return resp
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	category, err := h.categories.Create(c.Request.Context(), service.CategoryInput{
		Name:            req.Name,
		Answer:          req.Answer,
		ContactPersonID: req.ContactPersonID,
		ParentID:        req.ParentID,
		Active:          req.Active,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	category, err := h.categories.Update(c.Request.Context(), c.Param("id"), service.CategoryInput{
		Name:            req.Name,
		Answer:          req.Answer,
		ContactPersonID: req.ContactPersonID,
		ParentID:        req.ParentID,
		Active:          req.Active,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCategoryResponse(category))
}

type categoryPatchRequest struct {
	Name            *string `json:"category_name"`
	Answer          *string `json:"answer"`
	ContactPersonID *string `json:"contact_person"`
	ParentID        *string `json:"parent_category"`
	Active          *bool   `json:"is_active"`
}

// PatchCategory applies a partial update; fields absent from the payload keep
// their stored value.
func (h HandlerSet) PatchCategory(c *gin.Context) {
	var req categoryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	category, err := h.categories.Patch(c.Request.Context(), c.Param("id"), service.CategoryPatch{
		Name:            req.Name,
		Answer:          req.Answer,
		ContactPersonID: req.ContactPersonID,
		ParentID:        req.ParentID,
		Active:          req.Active,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCategoryResponse(category))
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategories returns root categories with their subcategory trees.
func (h HandlerSet) ListCategories(c *gin.Context) {
	roots, err := h.categories.ListRoots(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]categoryResponse, 0, len(roots))
	for _, node := range roots {
		resp = append(resp, toCategoryTreeResponse(node))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategory expands the subcategory tree to arbitrary depth.
func (h HandlerSet) GetCategory(c *gin.Context) {
	node, err := h.categories.Tree(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryTreeResponse(node))
}

// ListParentCategories returns categories that have at least one
// subcategory.
func (h HandlerSet) ListParentCategories(c *gin.Context) {
	h.listFlat(c, h.categories.ListParents)
}

// ListLeafCategories returns categories with no subcategories.
func (h HandlerSet) ListLeafCategories(c *gin.Context) {
	h.listFlat(c, h.categories.ListLeaves)
}

func (h HandlerSet) listFlat(c *gin.Context, list func(ctx context.Context) ([]models.Category, error)) {
	categories, err := list(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, toCategoryResponse(category))
	}
	c.JSON(http.StatusOK, resp)
}
