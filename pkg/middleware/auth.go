package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/internal/usecases/authenticating"
	"github.com/vfg2006/cognitive-engine/pkg/apiErrors"
	"github.com/vfg2006/cognitive-engine/pkg/log"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"

	TenantParam = "tenant"
)

var publicPaths = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

func AuthMiddleware(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Cabeçalho Authorization obrigatório", nil)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token Bearer obrigatório", nil)
				return
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				log.ForContext(r.Context()).WithError(err).Warn("Token recusado")
				apiErrors.WriteError(w, authenticating.CodeOf(err), "Token inválido", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext devolve as claims do usuário autenticado
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}

// TenantAccess libera a rota apenas para usuários com acesso ao tenant do parâmetro :tenant
func TenantAccess() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			tenantID := httprouter.ParamsFromContext(r.Context()).ByName(TenantParam)
			if tenantID == "" {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tenant não informado", nil)
				return
			}

			if !claims.CanAccessTenant(tenantID) {
				log.ForTenant(r.Context(), tenantID).WithField("user_id", claims.UserID).Warn("Acesso negado ao tenant")
				apiErrors.WriteError(w, apiErrors.ErrTenantForbidden, "Você não tem acesso a este tenant", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
