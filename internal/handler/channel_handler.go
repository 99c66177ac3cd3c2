package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pay-gateway-api/internal/constant"
	"pay-gateway-api/internal/dto"
	"pay-gateway-api/internal/middleware"
	"pay-gateway-api/internal/service"
	"pay-gateway-api/internal/utils"
)

type ChannelHandler struct {
	svc *service.ChannelService
}

func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

func (h *ChannelHandler) Create(c *gin.Context) {
	var req dto.CreateChannelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeMissingParams))
		return
	}
	req.OwnerID = middleware.OwnerID(c)

	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func (h *ChannelHandler) Update(c *gin.Context) {
	channelID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeParamsType))
		return
	}
	var req dto.UpdateChannelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeMissingParams))
		return
	}
	req.OwnerID = middleware.OwnerID(c)

	resp, err := h.svc.Update(c.Request.Context(), channelID, req)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func (h *ChannelHandler) Delete(c *gin.Context) {
	channelID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeParamsType))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), channelID, middleware.OwnerID(c)); err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(nil))
}

func (h *ChannelHandler) Get(c *gin.Context) {
	channelID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeParamsType))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), channelID, middleware.OwnerID(c))
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func (h *ChannelHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

// PublicConfig serves checkout clients without auth. Only the
// registry's public fields ever leave this endpoint.
func (h *ChannelHandler) PublicConfig(c *gin.Context) {
	channelID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusOK, utils.Error(constant.CodeParamsType))
		return
	}
	resp, err := h.svc.GetPublicConfig(c.Request.Context(), channelID)
	if err != nil {
		c.JSON(http.StatusOK, utils.FromErr(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(resp))
}

func parseID(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
