package analyzing

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/analyzers"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/bottleneck"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/budget"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/correlation"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/cube"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/decision"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/mode"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/internal/telemetry"
	"github.com/vfg2006/cognitive-engine/pkg/log"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	healthModeWeight     = 0.4
	healthPacingWeight   = 0.3
	healthFindingsWeight = 0.3
)

var pacingScores = map[domain.PacingStatus]float64{
	domain.PacingOnTrack:  100,
	domain.PacingAtRisk:   60,
	domain.PacingOffTrack: 20,
}

var constraintLabels = map[domain.ConstraintType]string{
	domain.ConstraintTraffic:    "tráfego",
	domain.ConstraintConversion: "conversão",
	domain.ConstraintAOV:        "ticket médio",
	domain.ConstraintMargin:     "margem",
	domain.ConstraintBudget:     "orçamento",
}

type Service struct {
	enricher  TrendEnricher
	analyzers []analyzers.Analyzer
	now       func() time.Time
}

// NewService cria o serviço com os analisadores padrão. O enricher é opcional.
func NewService(enricher TrendEnricher) *Service {
	return &Service{
		enricher:  enricher,
		analyzers: analyzers.All(),
		now:       time.Now,
	}
}

// WithClock substitui o relógio usado em generatedAt
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Analyze(ctx context.Context, input domain.AnalysisContext) (*domain.CognitiveResponse, error) {
	started := time.Now()
	logger := log.ForTenant(ctx, input.TenantID)

	response, err := s.analyze(ctx, logger, input)
	telemetry.PipelineDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		telemetry.AnalysesTotal.WithLabelValues("error").Inc()
		logger.WithError(err).Error("Erro na análise cognitiva")
		return nil, err
	}

	telemetry.AnalysesTotal.WithLabelValues("ok").Inc()
	telemetry.ModesTotal.WithLabelValues(string(response.Mode.Mode)).Inc()
	telemetry.HealthScore.Observe(response.HealthScore)
	for _, f := range response.Findings {
		telemetry.FindingsTotal.WithLabelValues(string(f.Finding.Category), string(f.Finding.Severity)).Inc()
	}
	if response.BudgetPlan != nil {
		telemetry.BudgetPlansTotal.WithLabelValues("proposed").Inc()
	} else {
		telemetry.BudgetPlansTotal.WithLabelValues("abstained").Inc()
	}

	logger.WithFields(log.Fields{
		"mode":        response.Mode.Mode,
		"findings":    len(response.Findings),
		"healthScore": response.HealthScore,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("Análise cognitiva concluída")

	return response, nil
}

func (s *Service) analyze(ctx context.Context, logger log.Logger, input domain.AnalysisContext) (*domain.CognitiveResponse, error) {
	c, err := cube.Build(input.Meta(), input.Metrics)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidContext, err)
	}

	if s.enricher != nil {
		s.enricher.Enrich(ctx, c)
	}

	findings, err := s.runAnalyzers(logger, c)
	if err != nil {
		return nil, err
	}

	correlated := correlation.Correlate(findings)

	assessment := mode.Detect(c)
	constraint := bottleneck.Detect(c)
	plan := budget.Optimize(c)

	ranked := decision.Rank(correlated)
	projections := decision.Project(c)

	response := &domain.CognitiveResponse{
		TenantID:          input.TenantID,
		PeriodStart:       input.PeriodStart,
		PeriodEnd:         input.PeriodEnd,
		Mode:              assessment,
		Bottleneck:        constraint,
		HealthScore:       HealthScore(assessment, projections, correlated),
		Findings:          ranked,
		PacingProjections: projections,
		BudgetPlan:        plan,
		Segmentation:      segmentationOf(c),
		GeneratedAt:       s.now(),
	}
	if c.Trends != nil {
		response.AccountTrend = c.Trends.Account
	}
	response.ExecutiveSummary = executiveSummary(response)
	response.Insights, response.Summary = legacyProjection(ranked)

	return response, nil
}

// runAnalyzers executa os analisadores em paralelo e preserva a ordem de declaração no resultado
func (s *Service) runAnalyzers(logger log.Logger, c *domain.DataCube) ([]domain.CognitiveFinding, error) {
	results := make([][]domain.CognitiveFinding, len(s.analyzers))

	var g errgroup.Group
	for i, analyzer := range s.analyzers {
		i, analyzer := i, analyzer
		g.Go(func() error {
			findings, err := analyzer.Analyze(c)
			if err != nil {
				logger.WithField("analyzer", analyzer.Name()).WithError(err).Error("Analisador produziu achado inválido")
				return fmt.Errorf("analisador %s: %w", analyzer.Name(), err)
			}
			results[i] = findings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.CognitiveFinding
	for _, findings := range results {
		all = append(all, findings...)
	}
	return all, nil
}

// HealthScore combina modo, ritmo das metas e saldo de achados
func HealthScore(assessment domain.ModeAssessment, projections []domain.PacingProjection, findings []domain.CognitiveFinding) float64 {
	pacing := assessment.Score
	if len(projections) > 0 {
		var sum float64
		for _, p := range projections {
			sum += pacingScores[p.Status]
		}
		pacing = sum / float64(len(projections))
	}

	findingsScore := 100.0
	for _, f := range findings {
		switch f.Severity {
		case domain.SeverityDanger:
			findingsScore -= 15
		case domain.SeverityWarning:
			findingsScore -= 5
		case domain.SeveritySuccess:
			findingsScore += 2
		}
	}
	findingsScore = utils.Clamp(findingsScore, 0, 100)

	score := healthModeWeight*assessment.Score + healthPacingWeight*pacing + healthFindingsWeight*findingsScore
	return utils.RoundWithTwoDecimalPlace(utils.Clamp(score, 0, 100))
}

func executiveSummary(r *domain.CognitiveResponse) string {
	var danger, warning int
	var total float64
	for _, d := range r.Findings {
		total += d.Finding.FinancialImpact.NetImpact
		switch d.Finding.Severity {
		case domain.SeverityDanger:
			danger++
		case domain.SeverityWarning:
			warning++
		}
	}

	summary := fmt.Sprintf("Modo %s (score %.1f, saúde %.1f).", r.Mode.Mode, r.Mode.Score, r.HealthScore)
	if r.Bottleneck.InsufficientData {
		summary += " Gargalo indefinido por falta de dados."
	} else {
		summary += fmt.Sprintf(" Principal gargalo: %s.", constraintLabels[r.Bottleneck.Constraint])
	}
	summary += fmt.Sprintf(" %d alertas críticos e %d de atenção, com impacto estimado de R$ %.2f.", danger, warning, utils.RoundWithTwoDecimalPlace(total))
	if len(r.Findings) > 0 {
		summary += fmt.Sprintf(" Prioridade: %s.", r.Findings[0].Finding.Title)
	}

	return summary
}

func legacyProjection(ranked []domain.RankedDecision) ([]domain.LegacyInsight, domain.LegacySummary) {
	insights := make([]domain.LegacyInsight, 0, len(ranked))
	summary := domain.LegacySummary{
		BySeverity: map[domain.Severity]int{},
		ByCategory: map[domain.FindingCategory]int{},
	}

	for _, d := range ranked {
		f := d.Finding
		insights = append(insights, domain.LegacyInsight{
			ID:              f.ID,
			Category:        f.Category,
			Severity:        f.Severity,
			Title:           f.Title,
			Description:     f.Description,
			Metrics:         f.Metrics,
			Recommendations: f.Recommendations,
			Source:          f.Source,
		})
		summary.BySeverity[f.Severity]++
		summary.ByCategory[f.Category]++
	}
	summary.Total = len(insights)

	return insights, summary
}

func segmentationOf(c *domain.DataCube) *domain.Segmentation {
	if len(c.Devices) == 0 && len(c.Demographics) == 0 && len(c.Geographics) == 0 {
		return nil
	}
	return &domain.Segmentation{
		Devices:      c.Devices,
		Demographics: c.Demographics,
		Geographics:  c.Geographics,
	}
}
