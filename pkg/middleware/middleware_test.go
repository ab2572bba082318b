package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/internal/usecases/authenticating"
	"github.com/vfg2006/cognitive-engine/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/cognitive-engine/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		header     string
		setup      func(auth *mocks.MockAuthenticator)
		wantStatus int
	}{
		{name: "Healthcheck é público", path: "/healthcheck", wantStatus: http.StatusNoContent},
		{name: "Métricas são públicas", path: "/metrics", wantStatus: http.StatusNoContent},
		{name: "Sem cabeçalho", path: "/v1/cron/status", wantStatus: http.StatusUnauthorized},
		{name: "Sem prefixo Bearer", path: "/v1/cron/status", header: "abc", wantStatus: http.StatusUnauthorized},
		{
			name:   "Token expirado",
			path:   "/v1/cron/status",
			header: "Bearer velho",
			setup: func(auth *mocks.MockAuthenticator) {
				auth.EXPECT().ValidateToken("velho").Return(nil,
					authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, ""))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "Token válido segue adiante",
			path:   "/v1/cron/status",
			header: "Bearer bom",
			setup: func(auth *mocks.MockAuthenticator) {
				auth.EXPECT().ValidateToken("bom").Return(&domain.Claims{UserID: "u1", Role: domain.RoleAdmin}, nil)
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mocks.NewMockAuthenticator(ctrl)
			if tt.setup != nil {
				tt.setup(auth)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(auth)(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTenantAccessAndRoles(t *testing.T) {
	analyst := &domain.Claims{UserID: "u1", Role: domain.RoleAnalyst, TenantIDs: []string{"t1"}}
	admin := &domain.Claims{UserID: "u2", Role: domain.RoleAdmin}

	newRouter := func() *httprouter.Router {
		router := httprouter.New()
		router.Handler(http.MethodGet, "/v1/tenants/:tenant/x", TenantAccess()(okHandler))
		router.Handler(http.MethodGet, "/v1/admin", AdminOnly()(okHandler))
		return router
	}

	tests := []struct {
		name       string
		path       string
		claims     *domain.Claims
		wantStatus int
	}{
		{name: "Analista no próprio tenant", path: "/v1/tenants/t1/x", claims: analyst, wantStatus: http.StatusNoContent},
		{name: "Analista em outro tenant", path: "/v1/tenants/t2/x", claims: analyst, wantStatus: http.StatusForbidden},
		{name: "Admin em qualquer tenant", path: "/v1/tenants/t9/x", claims: admin, wantStatus: http.StatusNoContent},
		{name: "Sem autenticação", path: "/v1/tenants/t1/x", wantStatus: http.StatusUnauthorized},
		{name: "Rota de admin com analista", path: "/v1/admin", claims: analyst, wantStatus: http.StatusForbidden},
		{name: "Rota de admin com admin", path: "/v1/admin", claims: admin, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, tt.claims))
			}
			rec := httptest.NewRecorder()

			newRouter().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLoggingMiddleware_CorrelationID(t *testing.T) {
	handler := LoggingMiddleware()(okHandler)

	t.Run("Reaproveita o ID enviado", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		req.Header.Set(CorrelationIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(CorrelationIDHeader))
	})

	t.Run("Gera um ID quando ausente", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

		assert.NotEmpty(t, rec.Header().Get(CorrelationIDHeader))
	})
}

func TestLogPanicMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	})
	rec := httptest.NewRecorder()

	LogPanicMiddleware()(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}

func TestCors(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/v1/cron/status", nil)
	req.Header.Set("Origin", "https://painel.exemplo.com")
	rec := httptest.NewRecorder()

	Cors("https://painel.exemplo.com")(okHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://painel.exemplo.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
