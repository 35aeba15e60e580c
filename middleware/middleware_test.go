package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/config"
	"lms/errs"
	"lms/progression"
)

func init() {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
}

type body struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, token string) (int, body) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var b body
	require.NoError(t, json.Unmarshal(raw, &b))
	return resp.StatusCode, b
}

func whoamiApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers = append(handlers, func(c *fiber.Ctx) error {
		who, ok := CurrentIdentity(c)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "no identity", nil)
		}
		return JsonResponse(c, fiber.StatusOK, true, "ok", who)
	})
	app.Get("/", handlers...)
	return app
}

func TestJWTMiddleware(t *testing.T) {
	app := whoamiApp(JWTMiddleware)

	token, err := GenerateJWT(7, "Grace Hopper", "learner")
	require.NoError(t, err)
	status, b := do(t, app, "Bearer "+token)
	require.Equal(t, fiber.StatusOK, status)
	var who progression.Identity
	require.NoError(t, json.Unmarshal(b.Data, &who))
	assert.Equal(t, progression.Identity{UserID: 7, Role: progression.RoleLearner, Name: "Grace Hopper"}, who)

	status, _ = do(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "Bearer not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestJWTMiddlewareRejectsForeignSignature(t *testing.T) {
	app := whoamiApp(JWTMiddleware)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 7,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	status, _ := do(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestJWTMiddlewareRejectsExpired(t *testing.T) {
	app := whoamiApp(JWTMiddleware)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 7,
		"exp":    time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	status, _ := do(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminOnly(t *testing.T) {
	app := whoamiApp(JWTMiddleware, AdminOnly)

	learner, err := GenerateJWT(7, "L", progression.RoleLearner)
	require.NoError(t, err)
	status, _ := do(t, app, "Bearer "+learner)
	assert.Equal(t, fiber.StatusForbidden, status)

	admin, err := GenerateJWT(1, "A", "admin")
	require.NoError(t, err)
	status, _ = do(t, app, "Bearer "+admin)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&progression.PartialWriteError{Applied: []string{"course_completion"}, Err: errors.New("render")}, fiber.StatusMultiStatus},
		{&progression.CompletionBlockedError{Reason: progression.ReasonQuizNotAttempted}, fiber.StatusForbidden},
		{progression.ErrAlreadyCompleted, fiber.StatusOK},
		{progression.ErrAttemptsExhausted, fiber.StatusConflict},
		{progression.ErrNotEligible, fiber.StatusConflict},
		{progression.ErrNoActiveAttempt, fiber.StatusConflict},
		{progression.ErrAttemptFinalized, fiber.StatusConflict},
		{fmt.Errorf("%w: option 9", progression.ErrInvalidAnswer), fiber.StatusUnprocessableEntity},
		{progression.ErrNotQuiz, fiber.StatusBadRequest},
		{progression.ErrContentUnavailable, fiber.StatusForbidden},
		{fmt.Errorf("get course: %w", errs.ErrNotFound), fiber.StatusNotFound},
		{errs.Store("get course", errors.New("dial tcp")), fiber.StatusServiceUnavailable},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return ErrorResponse(c, tc.err, fiber.Map{"id": 1})
			})
			status, b := do(t, app, "")
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.status == fiber.StatusOK, b.Status)
		})
	}
}

func TestErrorResponsePartialCarriesResult(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ErrorResponse(c, &progression.PartialWriteError{Applied: []string{"course_completion", "certificate"}, Err: errors.New("renderer down")}, fiber.Map{"id": 5})
	})
	_, b := do(t, app, "")
	var data struct {
		Applied []string       `json:"applied"`
		Result  map[string]int `json:"result"`
	}
	require.NoError(t, json.Unmarshal(b.Data, &data))
	assert.Equal(t, []string{"course_completion", "certificate"}, data.Applied)
	assert.Equal(t, 5, data.Result["id"])
	assert.Contains(t, b.Message, "renderer down")
}
