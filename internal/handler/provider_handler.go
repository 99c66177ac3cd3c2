package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pay-gateway-api/internal/constant"
	"pay-gateway-api/internal/provider"
	"pay-gateway-api/internal/registry"
	"pay-gateway-api/internal/utils"
)

type ProviderHandler struct{}

func NewProviderHandler() *ProviderHandler { return &ProviderHandler{} }

// List returns the supported provider catalog.
func (h *ProviderHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, utils.Success(registry.ListProviders()))
}

// Requirements returns the config field requirements for one provider.
func (h *ProviderHandler) Requirements(c *gin.Context) {
	desc, ok := registry.Requirements(c.Param("id"))
	if !ok {
		c.JSON(http.StatusOK, utils.Error(constant.CodeUnsupportedProvider))
		return
	}
	c.JSON(http.StatusOK, utils.Success(desc))
}

// Health exposes the rolling provider success ratios.
func (h *ProviderHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.Success(provider.HealthScores()))
}
