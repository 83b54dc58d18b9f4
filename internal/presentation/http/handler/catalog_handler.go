package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qmenu/selforder-api/internal/application/service"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/request"
	"github.com/qmenu/selforder-api/internal/presentation/http/dto/response"
	"github.com/qmenu/selforder-api/pkg/pagination"
)

// CatalogHandler handles menu HTTP requests
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCategories handles listing the branch's menu categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	branchID := GetBranchID(c)
	if branchID == nil {
		response.Unauthorized(c, "Session not bound to a branch")
		return
	}

	categories, err := h.catalogService.ListCategories(c.Request.Context(), *branchID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// ListProducts handles listing the branch's orderable products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	branchID := GetBranchID(c)
	if branchID == nil {
		response.Unauthorized(c, "Session not bound to a branch")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	input := &service.ListProductsInput{
		BranchID: *branchID,
		Search:   c.Query("search"),
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			input.CategoryID = &categoryID
		}
	}

	result, err := h.catalogService.ListProducts(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// GetProduct handles retrieving one product with variants and options
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Sync handles a bulk menu sync from the ordering platform
func (h *CatalogHandler) Sync(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branchId"))
	if err != nil {
		response.BadRequest(c, "Invalid branch id")
		return
	}

	var req request.SyncCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.catalogService.SyncCatalog(c.Request.Context(), branchID, req.ToEntities(branchID)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog synced successfully", nil)
}
