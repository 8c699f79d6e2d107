package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/beautyconnect/pay_go_server/internal/api/middleware"
	"github.com/beautyconnect/pay_go_server/internal/model/dto"
	"github.com/beautyconnect/pay_go_server/internal/pkg/response"
	"github.com/beautyconnect/pay_go_server/internal/service"
)

type VendorHandler struct {
	vendorService *service.VendorService
}

func NewVendorHandler(vendorService *service.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// Create 商家入驻
// POST /functions/v1/create_vendor
func (h *VendorHandler) Create(c *gin.Context) {
	var req dto.CreateVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	if !middleware.CanActFor(c, req.UserID) {
		response.PermissionError(c, "")
		return
	}

	resp, err := h.vendorService.Onboard(c.Request.Context(), &req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, resp)
}

// Sync 同步入驻状态
// POST /functions/v1/sync_vendor
func (h *VendorHandler) Sync(c *gin.Context) {
	var req dto.SyncVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	if !middleware.CanActFor(c, req.UserID) {
		response.PermissionError(c, "")
		return
	}

	account, err := h.vendorService.SyncStatus(c.Request.Context(), req.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, &dto.SyncVendorResponse{Account: account})
}
