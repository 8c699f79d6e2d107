package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/beautyconnect/pay_go_server/config"
	"github.com/beautyconnect/pay_go_server/internal/api/middleware"
	"github.com/beautyconnect/pay_go_server/internal/pkg/response"
	"github.com/beautyconnect/pay_go_server/internal/repository"
	"github.com/beautyconnect/pay_go_server/internal/service"
	"github.com/beautyconnect/pay_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext 测试上下文
type testContext struct {
	DB      *gorm.DB
	Gateway *testutil.FakeGateway
	Router  *gin.Engine
}

func setupHandlers(t *testing.T) *testContext {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := config.Default()
	logger := testutil.DiscardLogger()
	gateway := testutil.NewFakeGateway()

	subscriptionService := service.NewSubscriptionService(repository.NewSubscriptionRepository(db), gateway, nil, cfg, logger)
	vendorService := service.NewVendorService(repository.NewAccountRepository(db), gateway, nil, cfg, logger)
	merchantService := service.NewMerchantService(gateway)
	paymentService := service.NewPaymentService(gateway, nil, cfg, logger)

	subscriptionHandler := NewSubscriptionHandler(subscriptionService)
	vendorHandler := NewVendorHandler(vendorService)
	merchantHandler := NewMerchantHandler(merchantService)
	paymentHandler := NewPaymentHandler(paymentService)

	router := gin.New()
	router.POST("/buy_subscription", subscriptionHandler.Buy)
	router.Any("/expire_subscriptions", subscriptionHandler.Expire)
	router.POST("/create_vendor", vendorHandler.Create)
	router.POST("/sync_vendor", vendorHandler.Sync)
	router.POST("/fetch_merchant", merchantHandler.Fetch)
	router.POST("/send_payment", paymentHandler.Send)

	// 模拟已登录的普通用户
	authed := router.Group("/as/:user", mockAuth())
	authed.POST("/buy_subscription", subscriptionHandler.Buy)
	authed.POST("/create_vendor", vendorHandler.Create)
	authed.POST("/sync_vendor", vendorHandler.Sync)

	return &testContext{DB: db, Gateway: gateway, Router: router}
}

func mockAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, c.Param("user"))
		c.Set(middleware.RoleKey, "authenticated")
		c.Next()
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
