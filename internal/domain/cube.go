package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

// shareTolerance absorve o arredondamento em duas casas de cada participação
const shareTolerance = 0.005

var (
	ErrCubeInvariant   = errors.New("cubo viola suas invariantes")
	ErrInvalidCubeMeta = errors.New("metadados do cubo inválidos")
)

type SkuStatus string

const (
	SkuStatusScale SkuStatus = "escalar"
	SkuStatusKeep  SkuStatus = "manter"
	SkuStatusPause SkuStatus = "pausar"
)

type ChannelKind string

const (
	ChannelKindPaid    ChannelKind = "paid"
	ChannelKindOrganic ChannelKind = "organic"
	ChannelKindOther   ChannelKind = "other"
)

type CubeMeta struct {
	TenantID    string    `json:"tenantId"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	DayOfMonth  int       `json:"dayOfMonth"`
	DaysInMonth int       `json:"daysInMonth"`
}

// Validate rejeita metadados que tornariam a matemática de ritmo indefinida
func (m CubeMeta) Validate() error {
	if m.TenantID == "" {
		return fmt.Errorf("%w: tenant vazio", ErrInvalidCubeMeta)
	}
	if m.DaysInMonth < 1 || m.DaysInMonth > 31 {
		return fmt.Errorf("%w: daysInMonth=%d", ErrInvalidCubeMeta, m.DaysInMonth)
	}
	if m.DayOfMonth < 1 || m.DayOfMonth > m.DaysInMonth {
		return fmt.Errorf("%w: dayOfMonth=%d fora de [1, %d]", ErrInvalidCubeMeta, m.DayOfMonth, m.DaysInMonth)
	}
	if !m.PeriodStart.IsZero() && !m.PeriodEnd.IsZero() && m.PeriodEnd.Before(m.PeriodStart) {
		return fmt.Errorf("%w: periodEnd antes de periodStart", ErrInvalidCubeMeta)
	}
	return nil
}

// Progress é a fração do mês já decorrida
func (m CubeMeta) Progress() float64 {
	return utils.SafeDivide(float64(m.DayOfMonth), float64(m.DaysInMonth))
}

// Prorate ajusta uma meta mensal ao dia corrente do mês
func (m CubeMeta) Prorate(target float64) float64 {
	return target * m.Progress()
}

func (m CubeMeta) DaysRemaining() int {
	remaining := m.DaysInMonth - m.DayOfMonth
	if remaining < 0 {
		return 0
	}
	return remaining
}

type AccountSlice struct {
	Spend          float64 `json:"spend"`
	Impressions    float64 `json:"impressions"`
	Clicks         float64 `json:"clicks"`
	Conversions    float64 `json:"conversions"`
	Revenue        float64 `json:"revenue"`
	ROAS           float64 `json:"roas"`
	CPA            float64 `json:"cpa"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversionRate"`
}

type SkuSlice struct {
	SKU            string     `json:"sku"`
	Name           string     `json:"name,omitempty"`
	Status         SkuStatus  `json:"status,omitempty"`
	Spend          float64    `json:"spend"`
	Revenue        float64    `json:"revenue"`
	Conversions    float64    `json:"conversions"`
	Clicks         float64    `json:"clicks"`
	Impressions    float64    `json:"impressions"`
	ProductCost    float64    `json:"productCost,omitempty"`
	ROAS           float64    `json:"roas"`
	CPA            float64    `json:"cpa"`
	CTR            float64    `json:"ctr"`
	HasCostData    bool       `json:"hasCostData"`
	GrossMarginPct float64    `json:"grossMarginPct"`
	GrossProfit    float64    `json:"grossProfit"`
	ProfitAfterAds float64    `json:"profitAfterAds"`
	RevenueShare   float64    `json:"revenueShare"`
	SpendShare     float64    `json:"spendShare"`
	Trend          *TrendData `json:"trend,omitempty"`
}

// DisplayName devolve o nome do produto ou, na falta dele, o SKU
func (s SkuSlice) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.SKU
}

type CampaignSlice struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Spend          float64 `json:"spend"`
	Impressions    float64 `json:"impressions"`
	Clicks         float64 `json:"clicks"`
	Conversions    float64 `json:"conversions"`
	Revenue        float64 `json:"revenue"`
	ROAS           float64 `json:"roas"`
	CPA            float64 `json:"cpa"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversionRate"`
}

func (c CampaignSlice) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

type ChannelSlice struct {
	Channel        string      `json:"channel"`
	Kind           ChannelKind `json:"kind"`
	Sessions       float64     `json:"sessions"`
	Conversions    float64     `json:"conversions"`
	Revenue        float64     `json:"revenue"`
	SessionShare   float64     `json:"sessionShare"`
	ConversionRate float64     `json:"conversionRate"`
}

type GA4Slice struct {
	Sessions            float64 `json:"sessions"`
	Users               float64 `json:"users"`
	AddToCarts          float64 `json:"addToCarts"`
	Checkouts           float64 `json:"checkouts"`
	Purchases           float64 `json:"purchases"`
	Revenue             float64 `json:"revenue"`
	BounceRate          float64 `json:"bounceRate"`
	ConversionRate      float64 `json:"conversionRate"`
	AOV                 float64 `json:"aov"`
	CartAbandonmentRate float64 `json:"cartAbandonmentRate"`
}

// SegmentMetrics agrupa as métricas comuns dos cortes de segmentação
type SegmentMetrics struct {
	Spend        float64 `json:"spend"`
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	Conversions  float64 `json:"conversions"`
	Revenue      float64 `json:"revenue"`
	ROAS         float64 `json:"roas"`
	CPA          float64 `json:"cpa"`
	CTR          float64 `json:"ctr"`
	RevenueShare float64 `json:"revenueShare"`
	SpendShare   float64 `json:"spendShare"`
}

type DeviceSlice struct {
	Device string `json:"device"`
	SegmentMetrics
}

type DemographicSlice struct {
	AgeRange string `json:"ageRange"`
	Gender   string `json:"gender"`
	SegmentMetrics
}

type GeographicSlice struct {
	Region string `json:"region"`
	SegmentMetrics
}

type CubeTrends struct {
	Account *TrendData           `json:"account,omitempty"`
	Skus    map[string]TrendData `json:"skus,omitempty"`
}

// SkuTrend devolve a tendência do SKU quando ela foi calculada
func (t *CubeTrends) SkuTrend(sku string) (TrendData, bool) {
	if t == nil || t.Skus == nil {
		return TrendData{}, false
	}
	trend, ok := t.Skus[sku]
	return trend, ok
}

type DataCube struct {
	Meta         CubeMeta           `json:"meta"`
	Account      *AccountSlice      `json:"account,omitempty"`
	Skus         []SkuSlice         `json:"skus"`
	Campaigns    []CampaignSlice    `json:"campaigns"`
	Channels     []ChannelSlice     `json:"channels"`
	GA4          *GA4Slice          `json:"ga4,omitempty"`
	Planning     PlanningSlice      `json:"planning"`
	Devices      []DeviceSlice      `json:"devices,omitempty"`
	Demographics []DemographicSlice `json:"demographics,omitempty"`
	Geographics  []GeographicSlice  `json:"geographics,omitempty"`
	Trends       *CubeTrends        `json:"trends,omitempty"`
}

// Validate confere que as participações de cada lista não passam de 100%
func (c *DataCube) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: cubo nulo", ErrCubeInvariant)
	}

	type shareSum struct {
		total float64
		count int
	}

	sums := map[string]*shareSum{}
	add := func(field string, value float64) {
		if sums[field] == nil {
			sums[field] = &shareSum{}
		}
		sums[field].total += value
		sums[field].count++
	}

	for _, sku := range c.Skus {
		add("skus.revenueShare", sku.RevenueShare)
		add("skus.spendShare", sku.SpendShare)
	}
	for _, channel := range c.Channels {
		add("channels.sessionShare", channel.SessionShare)
	}

	segments := map[string][]SegmentMetrics{
		"devices":      segmentMetricsOf(c.Devices, func(d DeviceSlice) SegmentMetrics { return d.SegmentMetrics }),
		"demographics": segmentMetricsOf(c.Demographics, func(d DemographicSlice) SegmentMetrics { return d.SegmentMetrics }),
		"geographics":  segmentMetricsOf(c.Geographics, func(g GeographicSlice) SegmentMetrics { return g.SegmentMetrics }),
	}
	for name, list := range segments {
		for _, m := range list {
			add(name+".revenueShare", m.RevenueShare)
			add(name+".spendShare", m.SpendShare)
		}
	}

	for field, sum := range sums {
		if sum.total > 100+shareTolerance*float64(sum.count) {
			return fmt.Errorf("%w: soma de %s = %.2f", ErrCubeInvariant, field, sum.total)
		}
	}

	return nil
}

func segmentMetricsOf[T any](items []T, get func(T) SegmentMetrics) []SegmentMetrics {
	out := make([]SegmentMetrics, 0, len(items))
	for _, item := range items {
		out = append(out, get(item))
	}
	return out
}

// RawMetrics são as fatias de métricas já buscadas pelo chamador, sem campos derivados
type RawMetrics struct {
	Account      *AccountSlice      `json:"account,omitempty"`
	Skus         []SkuSlice         `json:"skus,omitempty"`
	Campaigns    []CampaignSlice    `json:"campaigns,omitempty"`
	Channels     []ChannelSlice     `json:"channels,omitempty"`
	GA4          *GA4Slice          `json:"ga4,omitempty"`
	Planning     PlanningSlice      `json:"planning"`
	Devices      []DeviceSlice      `json:"devices,omitempty"`
	Demographics []DemographicSlice `json:"demographics,omitempty"`
	Geographics  []GeographicSlice  `json:"geographics,omitempty"`
}
