// internal/interfaces/http/handlers/store.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// StoreHandler handles store and store-request endpoints
type StoreHandler struct {
	storeService *store.Service
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *store.Service) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
	}
}

// GetStore handles GET /stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondBindError(c, err)
		return
	}

	st, err := h.storeService.GetStore(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": st,
	})
}

// SubmitRequest handles POST /store-requests
func (h *StoreHandler) SubmitRequest(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req store.CreationRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	request, err := h.storeService.SubmitCreationRequest(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Store request submitted successfully",
		"data":    request,
	})
}

// ListRequests handles GET /admin/store-requests
func (h *StoreHandler) ListRequests(c *gin.Context) {
	requests, err := h.storeService.ListCreationRequests(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": requests,
	})
}

// ApproveRequest handles POST /admin/store-requests/:id/approve
func (h *StoreHandler) ApproveRequest(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondBindError(c, err)
		return
	}

	st, err := h.storeService.ApproveCreationRequest(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store request approved",
		"data":    st,
	})
}

// RejectRequest handles POST /admin/store-requests/:id/reject
func (h *StoreHandler) RejectRequest(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondBindError(c, err)
		return
	}

	request, err := h.storeService.RejectCreationRequest(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store request rejected",
		"data":    request,
	})
}
