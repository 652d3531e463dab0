package authware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warblehq/warble"
	"github.com/warblehq/warble/middleware/authware"
)

func newTokenService(t *testing.T) warble.TokenService {
	t.Helper()
	svc, err := warble.NewTokenService([]byte("test-signing-key"), 1, "warble.test", nil, nil)
	require.NoError(t, err)
	return svc
}

func newApp(validator warble.TokenValidator) *fiber.App {
	app := fiber.New()
	app.Use(authware.New(authware.Config{Validator: validator}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		viewer, ok := warble.ViewerFromContext(c.UserContext())
		if !ok {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{"id": viewer.ID.String(), "email": viewer.Email})
	})
	return app
}

func TestRequestWithValidToken(t *testing.T) {
	svc := newTokenService(t)
	accountID := uuid.New()

	token, err := svc.Generate(accountID.String(), "sam@example.com")
	require.NoError(t, err)

	app := newApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, accountID.String())
	assert.Contains(t, body, "sam@example.com")
}

func TestRequestWithoutTokenIsAnonymous(t *testing.T) {
	app := newApp(newTokenService(t))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "anonymous")
}

func TestRequestWithGarbageTokenIsAnonymous(t *testing.T) {
	app := newApp(newTokenService(t))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "anonymous")
}

func TestRequestWithExpiredTokenIsAnonymous(t *testing.T) {
	svc := newTokenService(t)

	claims := &warble.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Email: "late@example.com",
	}
	token, err := svc.SignClaims(claims)
	require.NoError(t, err)

	app := newApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "anonymous")
}

func TestClaimsStoredInLocals(t *testing.T) {
	svc := newTokenService(t)

	token, err := svc.Generate(uuid.New().String(), "sam@example.com")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(authware.New(authware.Config{Validator: svc}))
	app.Get("/claims", func(c *fiber.Ctx) error {
		claims, ok := authware.ClaimsFromCtx(c, "")
		if !ok {
			return c.SendStatus(http.StatusUnauthorized)
		}
		return c.SendString(claims.AccountEmail())
	})

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sam@example.com", readBody(t, resp))
}

func TestFilterSkipsMiddleware(t *testing.T) {
	validator := warble.TokenValidatorFunc(func(raw string) (*warble.SessionClaims, error) {
		t.Fatal("validator should not run when filtered")
		return nil, nil
	})

	app := fiber.New()
	app.Use(authware.New(authware.Config{
		Validator: validator,
		Filter:    func(c *fiber.Ctx) bool { return true },
	}))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer some-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMissingValidatorPanics(t *testing.T) {
	assert.Panics(t, func() {
		authware.New()
	})
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
