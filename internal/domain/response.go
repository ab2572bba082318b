package domain

import (
	"errors"
	"time"
)

var ErrInvalidContext = errors.New("contexto de análise inválido")

// AnalysisContext é a entrada do pipeline: tenant, período, campos de ritmo e fatias já buscadas
type AnalysisContext struct {
	TenantID    string     `json:"tenantId"`
	PeriodStart time.Time  `json:"periodStart"`
	PeriodEnd   time.Time  `json:"periodEnd"`
	DayOfMonth  int        `json:"dayOfMonth"`
	DaysInMonth int        `json:"daysInMonth"`
	Metrics     RawMetrics `json:"metrics"`
}

func (c AnalysisContext) Meta() CubeMeta {
	return CubeMeta{
		TenantID:    c.TenantID,
		PeriodStart: c.PeriodStart,
		PeriodEnd:   c.PeriodEnd,
		DayOfMonth:  c.DayOfMonth,
		DaysInMonth: c.DaysInMonth,
	}
}

// IsSingleDay indica um contexto diário, o único que alimenta o histórico de snapshots
func (c AnalysisContext) IsSingleDay() bool {
	return !c.PeriodStart.IsZero() && c.PeriodStart.Equal(c.PeriodEnd)
}

type Segmentation struct {
	Devices      []DeviceSlice      `json:"devices,omitempty"`
	Demographics []DemographicSlice `json:"demographics,omitempty"`
	Geographics  []GeographicSlice  `json:"geographics,omitempty"`
}

// LegacyInsight é a projeção sem dados de impacto consumida pelos clientes antigos
type LegacyInsight struct {
	ID              string           `json:"id"`
	Category        FindingCategory  `json:"category"`
	Severity        Severity         `json:"severity"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Metrics         FindingMetrics   `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
	Source          FindingSource    `json:"source"`
}

type LegacySummary struct {
	Total      int                     `json:"total"`
	BySeverity map[Severity]int        `json:"bySeverity"`
	ByCategory map[FindingCategory]int `json:"byCategory"`
}

type LegacyResponse struct {
	Insights []LegacyInsight `json:"insights"`
	Summary  LegacySummary   `json:"summary"`
}

type CognitiveResponse struct {
	TenantID          string             `json:"tenantId"`
	PeriodStart       time.Time          `json:"periodStart"`
	PeriodEnd         time.Time          `json:"periodEnd"`
	Mode              ModeAssessment     `json:"mode"`
	Bottleneck        Bottleneck         `json:"bottleneck"`
	HealthScore       float64            `json:"healthScore"`
	Findings          []RankedDecision   `json:"findings"`
	PacingProjections []PacingProjection `json:"pacingProjections"`
	ExecutiveSummary  string             `json:"executiveSummary"`
	BudgetPlan        *BudgetPlan        `json:"budgetPlan"`
	AccountTrend      *TrendData         `json:"accountTrend,omitempty"`
	Segmentation      *Segmentation      `json:"segmentation,omitempty"`
	GeneratedAt       time.Time          `json:"generatedAt"`
	Insights          []LegacyInsight    `json:"insights"`
	Summary           LegacySummary      `json:"summary"`
}

func (r *CognitiveResponse) Legacy() LegacyResponse {
	return LegacyResponse{Insights: r.Insights, Summary: r.Summary}
}
