// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	orderService *order.Service
	storeService *store.Service
	products     product.Reader
	pdfService   *pdf.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, storeService *store.Service, products product.Reader, pdfService *pdf.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		storeService: storeService,
		products:     products,
		pdfService:   pdfService,
	}
}

// UpdateStatusRequest represents the order status update payload
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PlaceOrder handles POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	placed, err := h.orderService.PlaceOrder(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    gin.H{"orders": placed},
	})
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orders, err := h.orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": orders,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondBindError(c, err)
		return
	}

	ord, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": ord,
	})
}

// DownloadInvoice handles GET /orders/:id/invoice
func (h *OrderHandler) DownloadInvoice(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondBindError(c, err)
		return
	}

	ord, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	lines, err := h.invoiceLines(c, ord)
	if err != nil {
		respondError(c, err)
		return
	}

	buf, err := h.pdfService.GenerateInvoice(ord, lines)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", ord.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// invoiceLines resolves order lines to product names for the invoice.
// Deleted products render with a placeholder name.
func (h *OrderHandler) invoiceLines(c *gin.Context, ord *order.Order) ([]pdf.InvoiceLine, error) {
	ids := make([]uint, 0, len(ord.Lines))
	for _, line := range ord.Lines {
		ids = append(ids, line.ProductID)
	}

	products, err := h.products.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	lines := make([]pdf.InvoiceLine, 0, len(ord.Lines))
	for _, line := range ord.Lines {
		name, ok := names[line.ProductID]
		if !ok {
			name = fmt.Sprintf("Product #%d", line.ProductID)
		}
		lines = append(lines, pdf.InvoiceLine{
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: line.PriceAtPurchase,
			Subtotal:  int64(line.Quantity) * line.PriceAtPurchase,
		})
	}
	return lines, nil
}

// storeOrderLineView is an order line annotated with its product name.
type storeOrderLineView struct {
	order.OrderLine
	ProductName string `json:"product_name"`
}

// storeOrderView is the seller-facing order representation.
type storeOrderView struct {
	order.Order
	Lines []storeOrderLineView `json:"lines"`
}

// ListStoreOrders handles GET /seller/orders and GET /stores/:id/orders
func (h *OrderHandler) ListStoreOrders(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	st, err := h.storeService.GetStoreByOwner(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if idParam := c.Param("id"); idParam != "" {
		storeID, err := parseIDParam(c, "id")
		if err != nil {
			respondBindError(c, err)
			return
		}
		if storeID != st.ID {
			respondError(c, apperror.NotFound(apperror.CodeNotFound, "store not found"))
			return
		}
	}

	orders, err := h.orderService.ListStoreOrders(c.Request.Context(), st.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.storeOrderViews(c, orders)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": views,
	})
}

// storeOrderViews annotates order lines with product names for the
// seller dashboard. Deleted products render with a placeholder name.
func (h *OrderHandler) storeOrderViews(c *gin.Context, orders []order.Order) ([]storeOrderView, error) {
	idSet := make(map[uint]struct{})
	for _, ord := range orders {
		for _, line := range ord.Lines {
			idSet[line.ProductID] = struct{}{}
		}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	products, err := h.products.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	views := make([]storeOrderView, 0, len(orders))
	for _, ord := range orders {
		view := storeOrderView{Order: ord, Lines: make([]storeOrderLineView, 0, len(ord.Lines))}
		for _, line := range ord.Lines {
			name, ok := names[line.ProductID]
			if !ok {
				name = fmt.Sprintf("Product #%d", line.ProductID)
			}
			view.Lines = append(view.Lines, storeOrderLineView{OrderLine: line, ProductName: name})
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateOrderStatus handles PUT /seller/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	st, err := h.storeService.GetStoreByOwner(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	ord, err := h.orderService.UpdateStatus(c.Request.Context(), st.ID, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    ord,
	})
}
