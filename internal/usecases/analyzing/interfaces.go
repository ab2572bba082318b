package analyzing

import (
	"context"

	"github.com/vfg2006/cognitive-engine/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_analyzing.go -package=mocks

// CognitiveAnalyzer é o ponto de entrada do motor cognitivo
type CognitiveAnalyzer interface {
	// Analyze executa o pipeline completo para um contexto já populado
	Analyze(ctx context.Context, input domain.AnalysisContext) (*domain.CognitiveResponse, error)
}

// TrendEnricher preenche as tendências históricas do cubo antes dos analisadores
type TrendEnricher interface {
	Enrich(ctx context.Context, cube *domain.DataCube)
}
