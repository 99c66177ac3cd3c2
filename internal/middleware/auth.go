package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pay-gateway-api/internal/config"
	"pay-gateway-api/internal/constant"
	"pay-gateway-api/internal/utils"
)

// AuthHMAC verifies the request signature and resolves the calling
// owner. Owner id travels in X-Owner-Id and is covered by the body
// signature for mutating requests.
func AuthHMAC() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerStr := c.GetHeader("X-Owner-Id")
		ownerID, err := strconv.ParseUint(ownerStr, 10, 64)
		if err != nil || ownerID == 0 {
			c.JSON(http.StatusOK, utils.Error(constant.CodeUnauthorized))
			c.Abort()
			return
		}

		if c.Request.Method != http.MethodGet {
			sig := c.GetHeader("X-Signature")
			if sig == "" {
				c.JSON(http.StatusOK, utils.Error(constant.CodeUnauthorized))
				c.Abort()
				return
			}
			body, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))

			mac := hmac.New(sha256.New, []byte(config.C.Security.HMACSecret))
			mac.Write(body)
			if !hmac.Equal([]byte(hex.EncodeToString(mac.Sum(nil))), []byte(sig)) {
				c.JSON(http.StatusOK, utils.Error(constant.CodeUnauthorized))
				c.Abort()
				return
			}
		}

		c.Set("owner_id", ownerID)
		c.Next()
	}
}

// OwnerID reads the authenticated owner set by AuthHMAC.
func OwnerID(c *gin.Context) uint64 {
	return c.GetUint64("owner_id")
}
