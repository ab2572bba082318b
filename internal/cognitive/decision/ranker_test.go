package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

func finding(id string, severity domain.Severity, gain, saving, confidence float64, efforts ...domain.Level) domain.CognitiveFinding {
	recs := make([]domain.Recommendation, 0, len(efforts))
	for _, e := range efforts {
		recs = append(recs, domain.Recommendation{Action: "ação", Impact: domain.LevelMedium, Effort: e})
	}
	return domain.CognitiveFinding{
		ID:              id,
		Severity:        severity,
		Recommendations: recs,
		FinancialImpact: domain.NewFinancialImpact(gain, saving, confidence, domain.TimeframeShort, ""),
	}
}

func TestRank(t *testing.T) {
	findings := []domain.CognitiveFinding{
		finding("sucesso-grande", domain.SeveritySuccess, 10000, 0, 0.6, domain.LevelLow),
		finding("perigo-medio", domain.SeverityDanger, 0, 2000, 0.9, domain.LevelLow),
		finding("alerta-sem-recomendacao", domain.SeverityWarning, 1000, 0, 0.5),
		finding("alerta-empatado", domain.SeverityWarning, 1000, 0, 0.5),
	}

	ranked := Rank(findings)
	require.Len(t, ranked, 4)

	// 10000×0.6×1/1 = 6000; 2000×0.9×3/1 = 5400; 1000×0.5×2/2 = 500
	assert.Equal(t, "sucesso-grande", ranked[0].Finding.ID)
	assert.Equal(t, 6000.0, ranked[0].Score)
	assert.Equal(t, "perigo-medio", ranked[1].Finding.ID)
	assert.Equal(t, 5400.0, ranked[1].Score)
	assert.Equal(t, "alerta-sem-recomendacao", ranked[2].Finding.ID)
	assert.Equal(t, "alerta-empatado", ranked[3].Finding.ID)
	assert.Equal(t, 500.0, ranked[3].Score)

	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, 2.0, ranked[2].Components.Effort)
	assert.Equal(t, 3.0, ranked[1].Components.Urgency)
}

func TestMeanEffort(t *testing.T) {
	recs := []domain.Recommendation{{Effort: domain.LevelLow}, {Effort: domain.LevelHigh}}
	assert.Equal(t, 2.0, MeanEffort(recs))
	assert.Equal(t, 2.0, MeanEffort(nil))
	assert.Equal(t, 3.0, MeanEffort([]domain.Recommendation{{Effort: domain.LevelHigh}}))
}
