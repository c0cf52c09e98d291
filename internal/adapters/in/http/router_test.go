package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "orderdesk/internal/adapters/in/http"
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const secret = "test-secret"

type stubMemberships struct {
	memberships []access.Membership
	err         error
}

func (s stubMemberships) MembershipsOfUser(context.Context, kernel.UUID) ([]access.Membership, error) {
	return s.memberships, s.err
}

func token(t *testing.T, key string, userID kernel.UUID, role access.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := httpadapter.TokenClaims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func newRouter(t *testing.T, memberships httpadapter.MembershipSource) *echo.Echo {
	t.Helper()
	spec, err := httpadapter.LoadSpec(context.Background())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := httpadapter.NewRouter(httpadapter.RouterConfig{
		Server:        httpadapter.NewServer(httpadapter.Handlers{}, kernel.SystemClock{}, logger),
		Authenticator: httpadapter.NewAuthenticator(secret, memberships),
		Spec:          spec,
		Tracer:        noop.NewTracerProvider().Tracer("test"),
		Logger:        logger,
	})
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, method, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	e := newRouter(t, stubMemberships{})

	t.Run("should answer health checks", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/health", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Healthy", rec.Body.String())
	})

	t.Run("should serve the api description", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/openapi.json", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Contains(t, doc["paths"], "/api/v1/orders")
	})
}

func TestRouter_Authentication(t *testing.T) {
	e := newRouter(t, stubMemberships{})
	user := kernel.NewUUID()

	t.Run("should reject requests without a token", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/orders", "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject a token signed with another key", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/orders", token(t, "other", user, access.Admin, time.Hour), "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/orders", token(t, secret, user, access.Admin, -time.Minute), "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject an unknown role", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/orders", token(t, secret, user, access.UnknownRole, time.Hour), "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject when memberships cannot be loaded", func(t *testing.T) {
		broken := newRouter(t, stubMemberships{err: errors.New("db down")})

		rec := do(broken, http.MethodGet, "/api/v1/orders", token(t, secret, user, access.Admin, time.Hour), "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_RequestValidation(t *testing.T) {
	e := newRouter(t, stubMemberships{})
	bearer := token(t, secret, kernel.NewUUID(), access.Admin, time.Hour)

	t.Run("should reject an order without a number", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/v1/orders", bearer,
			`{"orderDate":"2026-05-01T00:00:00Z","deliveryDate":"2026-05-20T00:00:00Z"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an unknown stage", func(t *testing.T) {
		rec := do(e, http.MethodPatch, "/api/v1/asking-tasks/"+kernel.NewUUID().String()+"/stage", bearer,
			`{"stage":"DONE"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an unknown status filter", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/orders?status=LOST", bearer, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject a negative quantity", func(t *testing.T) {
		rec := do(e, http.MethodPatch, "/api/v1/orders/"+kernel.NewUUID().String()+"/services", bearer,
			`{"serviceInstances":[{"serviceId":"`+kernel.NewUUID().String()+`","quantity":-1}]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("should require the service instance list on reconcile", func(t *testing.T) {
		rec := do(e, http.MethodPatch, "/api/v1/orders/"+kernel.NewUUID().String()+"/services", bearer,
			`{"services":[{"serviceId":"`+kernel.NewUUID().String()+`","quantity":1}]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "serviceInstances")
	})
}
