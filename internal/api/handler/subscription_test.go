package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautyconnect/pay_go_server/internal/model"
	"github.com/beautyconnect/pay_go_server/internal/testutil"
)

func TestSubscriptionHandler_Buy_Success(t *testing.T) {
	ctx := setupHandlers(t)

	w := doJSON(t, ctx.Router, "POST", "/buy_subscription", map[string]string{"user_id": "u1"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.NotEmpty(t, body["clientSecret"])

	sub, ok := body["subscription"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", sub["user_id"])
	assert.Equal(t, "Active", sub["status"])

	var stored model.Subscription
	require.NoError(t, ctx.DB.Where("user_id = ?", "u1").First(&stored).Error)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), stored.SubscriptionExpiry, time.Minute)
}

func TestSubscriptionHandler_Buy_MissingUserID(t *testing.T) {
	ctx := setupHandlers(t)

	for _, body := range []interface{}{map[string]string{}, nil, map[string]string{"user_id": "   "}} {
		w := doJSON(t, ctx.Router, "POST", "/buy_subscription", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing user_id", parseError(t, w))
	}
	assert.Zero(t, ctx.Gateway.Calls())
}

func TestSubscriptionHandler_Buy_InvalidJSON(t *testing.T) {
	ctx := setupHandlers(t)

	w := doJSON(t, ctx.Router, "POST", "/buy_subscription", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON body", parseError(t, w))
	assert.Zero(t, ctx.Gateway.Calls())
}

func TestSubscriptionHandler_Buy_IdempotencyHeader(t *testing.T) {
	ctx := setupHandlers(t)

	doJSON(t, ctx.Router, "POST", "/buy_subscription", map[string]string{"user_id": "u1"}, IdempotencyKeyHeader, "k1")
	doJSON(t, ctx.Router, "POST", "/buy_subscription", map[string]string{"user_id": "u1"}, IdempotencyKeyHeader, "k1")

	require.Len(t, ctx.Gateway.Intents, 2)
	assert.Equal(t, ctx.Gateway.Intents[0].IdempotencyKey, ctx.Gateway.Intents[1].IdempotencyKey)
}

func TestSubscriptionHandler_Buy_ProcessorFailure(t *testing.T) {
	ctx := setupHandlers(t)
	ctx.Gateway.IntentErr = errors.New("api unavailable")

	w := doJSON(t, ctx.Router, "POST", "/buy_subscription", map[string]string{"user_id": "u1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "api unavailable", parseError(t, w))
}

func TestSubscriptionHandler_Buy_PersistenceFailure(t *testing.T) {
	ctx := setupHandlers(t)
	require.NoError(t, ctx.DB.Migrator().DropTable(&model.Subscription{}))

	w := doJSON(t, ctx.Router, "POST", "/buy_subscription", map[string]string{"user_id": "u1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, parseError(t, w), "subscriptions")
	assert.Len(t, ctx.Gateway.Cancelled, 1)
}

func TestSubscriptionHandler_Buy_OtherUserForbidden(t *testing.T) {
	ctx := setupHandlers(t)

	w := doJSON(t, ctx.Router, "POST", "/as/u1/buy_subscription", map[string]string{"user_id": "u2"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, ctx.Gateway.Calls())

	w = doJSON(t, ctx.Router, "POST", "/as/u1/buy_subscription", map[string]string{"user_id": "u1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscriptionHandler_Expire(t *testing.T) {
	ctx := setupHandlers(t)

	testutil.TestSubscription(t, ctx.DB, "due", testutil.WithExpiry(time.Now().UTC().Add(-time.Hour)))
	testutil.TestSubscription(t, ctx.DB, "live")

	for _, method := range []string{"GET", "POST"} {
		w := doJSON(t, ctx.Router, method, "/expire_subscriptions", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := parseBody(t, w)
		assert.Equal(t, "Expired subscriptions updated", body["message"])
		if method == "GET" {
			assert.Equal(t, float64(1), body["expired"])
		} else {
			assert.Equal(t, float64(0), body["expired"])
		}
	}
}

func TestSubscriptionHandler_Expire_PersistenceFailure(t *testing.T) {
	ctx := setupHandlers(t)
	require.NoError(t, ctx.DB.Migrator().DropTable(&model.Subscription{}))

	w := doJSON(t, ctx.Router, "POST", "/expire_subscriptions", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, parseError(t, w))
}
