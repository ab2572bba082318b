package authenticating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cognitive-engine/internal/config"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/apiErrors"
)

func TestService_GenerateAndValidate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	svc := NewService(config.Auth{Secret: "segredo", TokenTTL: time.Hour})
	svc.now = func() time.Time { return now }

	token, err := svc.GenerateToken("u1", domain.RoleAnalyst, []string{"t1", "t2"})
	require.NoError(t, err)

	t.Run("Token válido devolve as claims", func(t *testing.T) {
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, domain.RoleAnalyst, claims.Role)
		assert.True(t, claims.CanAccessTenant("t2"))
		assert.False(t, claims.CanAccessTenant("t3"))
	})

	t.Run("Token expirado", func(t *testing.T) {
		later := NewService(config.Auth{Secret: "segredo", TokenTTL: time.Hour})
		later.now = func() time.Time { return now.Add(2 * time.Hour) }

		_, err := later.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Equal(t, apiErrors.ErrExpiredToken, CodeOf(err))
	})

	t.Run("Assinatura com outro segredo", func(t *testing.T) {
		other := NewService(config.Auth{Secret: "outro"})
		other.now = svc.now

		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Equal(t, apiErrors.ErrInvalidToken, CodeOf(err))
	})

	t.Run("Token malformado", func(t *testing.T) {
		_, err := svc.ValidateToken("abc.def")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_GenerateToken_Invalid(t *testing.T) {
	svc := NewService(config.Auth{Secret: "segredo"})

	tests := []struct {
		name   string
		userID string
		role   string
	}{
		{name: "Sem usuário", role: domain.RoleAdmin},
		{name: "Perfil desconhecido", userID: "u1", role: "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateToken(tt.userID, tt.role, nil)
			assert.ErrorIs(t, err, ErrMissingRequiredData)
			assert.Equal(t, apiErrors.ErrMissingRequiredData, CodeOf(err))
		})
	}
}
