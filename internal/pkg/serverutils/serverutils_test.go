package serverutils

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"ai-assistant-be/pkg/quota"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTiers map[string]quota.Tier

func (f fixedTiers) Lookup(_ context.Context, userID string) (quota.Tier, bool) {
	t, ok := f[userID]
	return t, ok
}

func newAuthApp(secret string, tiers TierResolver) *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(secret, tiers))
	app.Get("/me", func(ctx *fiber.Ctx) error {
		p := PrincipalFrom(ctx)
		return ctx.JSON(fiber.Map{"user_id": p.UserID, "tier": string(p.Tier)})
	})
	return app
}

func callMe(t *testing.T, app *fiber.App, auth string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware_Stub(t *testing.T) {
	app := newAuthApp("", nil)

	status, body := callMe(t, app, "Bearer abc.def!ghi")
	assert.Equal(t, 200, status)
	assert.Equal(t, "stub-abcdefghi", body["user_id"])
	assert.Equal(t, "free", body["tier"])

	_, body = callMe(t, app, "bearer !!!")
	assert.Equal(t, "stub-anon", body["user_id"])

	_, body = callMe(t, app, "")
	assert.Equal(t, "", body["user_id"])
}

func TestAuthMiddleware_JWT(t *testing.T) {
	app := newAuthApp("s3cret", fixedTiers{"u-2": quota.TierPro})

	status, body := callMe(t, app, "Bearer "+signed(t, "s3cret", jwt.MapClaims{"user_id": "u-1", "tier": "basic"}))
	assert.Equal(t, 200, status)
	assert.Equal(t, "u-1", body["user_id"])
	assert.Equal(t, "basic", body["tier"])

	_, body = callMe(t, app, "Bearer "+signed(t, "s3cret", jwt.MapClaims{"user_id": "u-2"}))
	assert.Equal(t, "pro", body["tier"])

	status, body = callMe(t, app, "Bearer "+signed(t, "wrong", jwt.MapClaims{"user_id": "u-1"}))
	assert.Equal(t, 401, status)
	assert.Equal(t, false, body["success"])

	status, _ = callMe(t, app, "Bearer "+signed(t, "s3cret", jwt.MapClaims{"tier": "pro"}))
	assert.Equal(t, 401, status)
}

type createRequest struct {
	Name string `json:"name" validate:"required"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/invalid", func(ctx *fiber.Ctx) error {
		return ValidateRequest(createRequest{})
	})
	app.Get("/teapot", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/invalid", 400},
		{"/teapot", 418},
		{"/boom", 500},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)

		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, false, out["success"])
		assert.EqualValues(t, tt.status, out["code"])
	}
}

func TestSuccessResponse(t *testing.T) {
	r := SuccessResponse("ok", map[string]int{"n": 1})
	assert.True(t, r.Success)
	assert.Equal(t, 200, r.Code)
	assert.Equal(t, 1, r.Data["n"])
}
