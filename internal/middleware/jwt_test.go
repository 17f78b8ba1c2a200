package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/utils"
)

const testSecret = "test-secret"

func runWithAuth(t *testing.T, header string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuth_ValidTokenInjectsClaims(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "CUSTOMER", 5)
	require.NoError(t, err)

	rec, c := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	// Numeric JWT claims decode as float64.
	assert.Equal(t, float64(7), c.Get("user_id"))
	assert.Equal(t, "CUSTOMER", c.Get("role"))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, _ := runWithAuth(t, "", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 7, "CUSTOMER", 5)
	require.NoError(t, err)

	rec, _ := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_AllowsListedRole(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "ADMIN", 5)
	require.NoError(t, err)

	rec, _ := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_RejectsOtherRoles(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "CUSTOMER", 5)
	require.NoError(t, err)

	rec, _ := runWithAuth(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_MissingRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireRole("ADMIN", "CUSTOMER")(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
