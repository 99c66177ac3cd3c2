package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pay-gateway-api/internal/cache"
	"pay-gateway-api/internal/constant"
	"pay-gateway-api/internal/dto"
	"pay-gateway-api/internal/middleware"
	"pay-gateway-api/internal/service"
	"pay-gateway-api/internal/utils"
)

type TransactionHandler struct {
	svc *service.GatewayService
}

func NewTransactionHandler(svc *service.GatewayService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) Initialize(c *gin.Context) {
	var req dto.InitializeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeMissingParams))
		return
	}
	req.OwnerID = middleware.OwnerID(c)

	resp, err := h.svc.Initialize(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	resp.TraceID = middleware.TraceID(c)
	c.JSON(http.StatusOK, utils.Success(resp))
}

// Verify is reachable without auth: the reference is unguessable and
// the response carries no channel credentials.
func (h *TransactionHandler) Verify(c *gin.Context) {
	resp, err := h.svc.Verify(c.Request.Context(), c.Param("reference"))
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func (h *TransactionHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("reference"), middleware.OwnerID(c))
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func (h *TransactionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.svc.List(c.Request.Context(), middleware.OwnerID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func (h *TransactionHandler) Logs(c *gin.Context) {
	resp, err := h.svc.Logs(c.Request.Context(), c.Param("reference"), middleware.OwnerID(c))
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func (h *TransactionHandler) FeePreview(c *gin.Context) {
	var req dto.FeePreviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeMissingParams))
		return
	}
	resp, err := h.svc.FeePreview(c.Request.Context(), req, middleware.OwnerID(c))
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

// Stats returns the per-status transaction counters for a day
// (YYYYMMDD, defaults to today).
func (h *TransactionHandler) Stats(c *gin.Context) {
	stats, err := cache.DayStats(c.Request.Context(), c.Query("day"))
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(stats))
}
