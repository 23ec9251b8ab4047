package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"cursifynova/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "testsecret", JWTTTL: time.Hour}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateJWTToken(42, "instructor", cfg)
	require.NoError(t, err)

	who, err := ParseToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(42), who.UserID)
	assert.Equal(t, "instructor", who.Role)
	assert.False(t, who.IsAdmin())
	assert.True(t, who.CanManage(42))
	assert.False(t, who.CanManage(7))
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWTToken(1, "student", testConfig())
	require.NoError(t, err)

	_, err = ParseToken(token, &config.Config{JWTSecret: "other"})
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)
}

func TestExtractIdentityAcceptsBearerPrefix(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateJWTToken(9, "admin", cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		who, err := ExtractIdentityFromToken(c, cfg)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": who.UserID, "admin": who.IsAdmin()})
	})

	for _, header := range []string{"Bearer " + token, token} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(9), body["user_id"])
		assert.Equal(t, true, body["admin"])
	}
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	type input struct {
		Title string `json:"title" validate:"required"`
		Email string `json:"email" validate:"omitempty,email"`
		Level string `json:"level" validate:"omitempty,oneof=beginner advanced"`
	}

	errs := Validate(input{Email: "nope", Level: "expert"})
	assert.Equal(t, "this field is required", errs["title"])
	assert.Equal(t, "must be a valid email address", errs["email"])
	assert.Equal(t, "must be one of: beginner advanced", errs["level"])

	assert.Nil(t, Validate(input{Title: "Go"}))
}

func TestErrorHandlerHidesInternalMessages(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(NopLogger(), true)})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: relation missing") })
	app.Get("/gone", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Internal server error", body.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
