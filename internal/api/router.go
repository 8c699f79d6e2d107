package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beautyconnect/pay_go_server/config"
	"github.com/beautyconnect/pay_go_server/internal/api/handler"
	"github.com/beautyconnect/pay_go_server/internal/api/middleware"
	"github.com/beautyconnect/pay_go_server/internal/pkg/response"
)

type Router struct {
	subscriptionHandler *handler.SubscriptionHandler
	vendorHandler       *handler.VendorHandler
	merchantHandler     *handler.MerchantHandler
	paymentHandler      *handler.PaymentHandler
	cfg                 *config.Config
	logger              *slog.Logger
}

func NewRouter(
	subscriptionHandler *handler.SubscriptionHandler,
	vendorHandler *handler.VendorHandler,
	merchantHandler *handler.MerchantHandler,
	paymentHandler *handler.PaymentHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *Router {
	return &Router{
		subscriptionHandler: subscriptionHandler,
		vendorHandler:       vendorHandler,
		merchantHandler:     merchantHandler,
		paymentHandler:      paymentHandler,
		cfg:                 cfg,
		logger:              logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.NoMethod(response.MethodNotAllowed)
	engine.NoRoute(func(c *gin.Context) {
		response.NotFoundError(c, "")
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	functions := engine.Group("/functions/v1")
	// 配置了 JWT 密钥时所有接口都需要 Supabase token
	if r.cfg.JWT.Secret != "" {
		functions.Use(middleware.Auth(r.cfg.JWT.Secret))
	}
	{
		// 订阅
		functions.POST("/buy_subscription", r.subscriptionHandler.Buy)
		functions.Any("/expire_subscriptions", r.subscriptionHandler.Expire)

		// 商家入驻
		functions.POST("/create_vendor", r.vendorHandler.Create)
		functions.POST("/sync_vendor", r.vendorHandler.Sync)

		// 商家查询与分账支付
		functions.POST("/fetch_merchant", r.merchantHandler.Fetch)
		functions.POST("/send_payment", r.paymentHandler.Send)
	}

	return engine
}
