package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"pay-gateway-api/internal/config"
	"pay-gateway-api/internal/dal"
	"pay-gateway-api/internal/event"
	"pay-gateway-api/internal/handler"
	"pay-gateway-api/internal/idgen"
	"pay-gateway-api/internal/middleware"
	"pay-gateway-api/internal/mq"
	"pay-gateway-api/internal/provider"
	"pay-gateway-api/internal/service"
)

func main() {
	// load config env
	config.Init()

	// init infra
	dal.InitMainDB()
	dal.InitRedis()

	// broker is optional; without it events are dropped
	var pub event.Publisher = event.NopPublisher{}
	if config.C.RabbitMQ.URL != "" {
		dal.InitRabbitMQ()
		go mq.StartConsumers()
		pub = mq.NewPublisher()
	}

	// idgen
	idgen.InitFromEnv()

	// provider adapters
	provider.RegisterDefaults()

	// http server
	if config.C.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recover(), middleware.Trace())

	ch := handler.NewChannelHandler(service.NewChannelService())
	th := handler.NewTransactionHandler(service.NewGatewayService(pub))
	ph := handler.NewProviderHandler()

	v1 := r.Group("/api/v1")
	{
		// public surface: checkout clients and redirect landings
		v1.GET("/providers", ph.List)
		v1.GET("/providers/:id/requirements", ph.Requirements)
		v1.GET("/providers/health", ph.Health)
		v1.GET("/channels/:id/public", ch.PublicConfig)
		v1.GET("/transactions/:reference/verify", th.Verify)

		authed := v1.Group("", middleware.AuthHMAC())
		{
			authed.POST("/channels", ch.Create)
			authed.PUT("/channels/:id", ch.Update)
			authed.DELETE("/channels/:id", ch.Delete)
			authed.GET("/channels/:id", ch.Get)
			authed.GET("/channels", ch.List)

			authed.POST("/transactions", th.Initialize)
			authed.GET("/transactions/:reference", th.Get)
			authed.GET("/transactions/:reference/logs", th.Logs)
			authed.GET("/transactions", th.List)
			authed.POST("/transactions/fee-preview", th.FeePreview)
			authed.GET("/stats", th.Stats)
		}
	}

	addr := ":" + config.C.Server.Port
	log.Printf("listening %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
