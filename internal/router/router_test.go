package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"lixi/internal/auth"
)

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	tests := []struct {
		name         string
		claims       interface{}
		requiredRole string
		expectedCode int
	}{
		{
			name:         "matching role passes",
			claims:       &auth.Claims{Role: auth.RoleAdmin},
			requiredRole: auth.RoleAdmin,
			expectedCode: http.StatusOK,
		},
		{
			name:         "user token rejected on admin route",
			claims:       &auth.Claims{Role: auth.RoleUser},
			requiredRole: auth.RoleAdmin,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "admin token rejected on user route",
			claims:       &auth.Claims{Role: auth.RoleAdmin},
			requiredRole: auth.RoleUser,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "missing claims rejected",
			claims:       nil,
			requiredRole: auth.RoleAdmin,
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.claims != nil {
				c.Set("user", tt.claims)
			}

			err := RequireRole(tt.requiredRole)(handler)(c)
			if tt.expectedCode == http.StatusOK {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}

			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, tt.expectedCode, httpErr.Code)
		})
	}
}
