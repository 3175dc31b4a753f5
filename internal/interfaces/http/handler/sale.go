package handler

import (
	salesapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// SaleHandler serves daily sale endpoints
type SaleHandler struct {
	BaseHandler
	sales *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// Submit godoc
// @ID           submitSale
// @Summary      Submit a daily sale
// @Description  Records a sale awaiting Owner approval. One sale per restaurant per day.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body salesapp.SubmitSaleRequest true "Sale"
// @Success      201 {object} APIResponse[sales.Sale]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "A sale already exists for the date"
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Submit(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req salesapp.SubmitSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.sales.SubmitSale(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        status query string false "Status" Enums(Pending, Approved, Rejected)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]sales.Sale]
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var filter salesapp.SaleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.sales.ListSales(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getSale
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[sales.Sale]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	sale, err := h.sales.GetSale(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}
