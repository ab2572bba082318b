package domain

import "time"

type TrendClassification string

const (
	TrendImproving TrendClassification = "improving"
	TrendStable    TrendClassification = "stable"
	TrendDeclining TrendClassification = "declining"
)

type TrendData struct {
	Classification      TrendClassification `json:"classification"`
	SlopePct            float64             `json:"slopePct"`
	MovingAvg7d         float64             `json:"movingAvg7d"`
	PreviousMovingAvg7d float64             `json:"previousMovingAvg7d"`
	DataPoints          int                 `json:"dataPoints"`
}

const SnapshotScopeAccount = "account"

// SkuScope monta o escopo de snapshot de um SKU
func SkuScope(sku string) string {
	return "sku:" + sku
}

// HistoricalSnapshot é um ponto diário de métricas planas de um escopo
type HistoricalSnapshot struct {
	Date    time.Time          `json:"date"`
	Metrics map[string]float64 `json:"metrics"`
}

// SnapshotEntry é a linha persistida por (tenant, data, escopo)
type SnapshotEntry struct {
	ID        int64              `json:"id"`
	TenantID  string             `json:"tenantId"`
	Date      time.Time          `json:"date"`
	Scope     string             `json:"scope"`
	Metrics   map[string]float64 `json:"metrics"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (e *SnapshotEntry) ToHistorical() HistoricalSnapshot {
	return HistoricalSnapshot{Date: e.Date, Metrics: e.Metrics}
}

// SnapshotRecord é o pedido de persistência de um dia: conta e SKUs são opcionais
type SnapshotRecord struct {
	TenantID string                        `json:"tenantId"`
	Date     time.Time                     `json:"date"`
	Account  map[string]float64            `json:"account,omitempty"`
	Skus     map[string]map[string]float64 `json:"skus,omitempty"`
}

func (r SnapshotRecord) IsEmpty() bool {
	return len(r.Account) == 0 && len(r.Skus) == 0
}
