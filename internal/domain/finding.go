package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidFinding = errors.New("achado inválido")

type FindingCategory string

const (
	CategoryPlanningGap FindingCategory = "planning_gap"
	CategoryEfficiency  FindingCategory = "efficiency"
	CategoryOpportunity FindingCategory = "opportunity"
	CategoryRisk        FindingCategory = "risk"
	CategoryComposition FindingCategory = "composition"
	CategoryDevice      FindingCategory = "device"
	CategoryDemographic FindingCategory = "demographic"
	CategoryGeographic  FindingCategory = "geographic"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Weight ordena as severidades: success < warning < danger
func (s Severity) Weight() int {
	switch s {
	case SeveritySuccess:
		return 1
	case SeverityWarning:
		return 2
	case SeverityDanger:
		return 3
	}
	return 0
}

type FindingSource string

const (
	SourcePlanning FindingSource = "planning"
	SourceAlert    FindingSource = "alert"
	SourcePattern  FindingSource = "pattern"
)

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// FindingKind identifica a regra que gerou o achado
type FindingKind string

const (
	KindRevenuePlanGap    FindingKind = "revenue_plan_gap"
	KindInvestmentPlanGap FindingKind = "investment_plan_gap"
	KindOrdersPlanGap     FindingKind = "orders_plan_gap"
	KindSessionsPlanGap   FindingKind = "sessions_plan_gap"
	KindRoasPlanGap       FindingKind = "roas_plan_gap"
	KindCpaPlanGap        FindingKind = "cpa_plan_gap"
	KindTicketPlanGap     FindingKind = "ticket_plan_gap"

	KindCampaignZeroConversions FindingKind = "campaign_zero_conversions"
	KindSkuZeroConversions      FindingKind = "sku_zero_conversions"
	KindCampaignLowRoas         FindingKind = "campaign_low_roas"
	KindSkuLowRoas              FindingKind = "sku_low_roas"
	KindLowRoasSpendShare       FindingKind = "low_roas_spend_share"

	KindStarSku         FindingKind = "star_sku"
	KindScaleSku        FindingKind = "scale_sku"
	KindAccountHeadroom FindingKind = "account_headroom"

	KindAccountLowRoas        FindingKind = "account_low_roas"
	KindPausedSkuSpend        FindingKind = "paused_sku_spend"
	KindHighBounceRate        FindingKind = "high_bounce_rate"
	KindCartAbandonment       FindingKind = "cart_abandonment"
	KindRevenueConcentration  FindingKind = "revenue_concentration"
	KindSkuRoasDrop           FindingKind = "sku_roas_drop"
	KindAccountRevenueDecline FindingKind = "account_revenue_decline"

	KindPaidTrafficDependency FindingKind = "paid_traffic_dependency"
	KindHealthyOrganicMix     FindingKind = "healthy_organic_mix"
	KindHighConvertingChannel FindingKind = "high_converting_channel"

	KindDeviceCpaOutlier       FindingKind = "device_cpa_outlier"
	KindDeviceRoasOutlier      FindingKind = "device_roas_outlier"
	KindDemographicCpaOutlier  FindingKind = "demographic_cpa_outlier"
	KindDemographicRoasOutlier FindingKind = "demographic_roas_outlier"
	KindGeoCpaOutlier          FindingKind = "geo_cpa_outlier"
	KindGeoRoasOutlier         FindingKind = "geo_roas_outlier"
	KindGeoConcentration       FindingKind = "geo_concentration"
)

type kindSchema struct {
	category       FindingCategory
	requiresEntity bool
	requiresTarget bool
}

var kindRegistry = map[FindingKind]kindSchema{
	KindRevenuePlanGap:    {category: CategoryPlanningGap, requiresTarget: true},
	KindInvestmentPlanGap: {category: CategoryPlanningGap, requiresTarget: true},
	KindOrdersPlanGap:     {category: CategoryPlanningGap, requiresTarget: true},
	KindSessionsPlanGap:   {category: CategoryPlanningGap, requiresTarget: true},
	KindRoasPlanGap:       {category: CategoryPlanningGap, requiresTarget: true},
	KindCpaPlanGap:        {category: CategoryPlanningGap, requiresTarget: true},
	KindTicketPlanGap:     {category: CategoryPlanningGap, requiresTarget: true},

	KindCampaignZeroConversions: {category: CategoryEfficiency, requiresEntity: true},
	KindSkuZeroConversions:      {category: CategoryEfficiency, requiresEntity: true},
	KindCampaignLowRoas:         {category: CategoryEfficiency, requiresEntity: true, requiresTarget: true},
	KindSkuLowRoas:              {category: CategoryEfficiency, requiresEntity: true, requiresTarget: true},
	KindLowRoasSpendShare:       {category: CategoryEfficiency, requiresTarget: true},

	KindStarSku:         {category: CategoryOpportunity, requiresEntity: true},
	KindScaleSku:        {category: CategoryOpportunity, requiresEntity: true},
	KindAccountHeadroom: {category: CategoryOpportunity},

	KindAccountLowRoas:        {category: CategoryRisk, requiresTarget: true},
	KindPausedSkuSpend:        {category: CategoryRisk},
	KindHighBounceRate:        {category: CategoryRisk, requiresTarget: true},
	KindCartAbandonment:       {category: CategoryRisk, requiresTarget: true},
	KindRevenueConcentration:  {category: CategoryRisk, requiresEntity: true},
	KindSkuRoasDrop:           {category: CategoryRisk, requiresEntity: true},
	KindAccountRevenueDecline: {category: CategoryRisk},

	KindPaidTrafficDependency: {category: CategoryComposition},
	KindHealthyOrganicMix:     {category: CategoryComposition},
	KindHighConvertingChannel: {category: CategoryComposition, requiresEntity: true},

	KindDeviceCpaOutlier:       {category: CategoryDevice, requiresEntity: true},
	KindDeviceRoasOutlier:      {category: CategoryDevice, requiresEntity: true},
	KindDemographicCpaOutlier:  {category: CategoryDemographic, requiresEntity: true},
	KindDemographicRoasOutlier: {category: CategoryDemographic, requiresEntity: true},
	KindGeoCpaOutlier:          {category: CategoryGeographic, requiresEntity: true},
	KindGeoRoasOutlier:         {category: CategoryGeographic, requiresEntity: true},
	KindGeoConcentration:       {category: CategoryGeographic, requiresEntity: true},
}

// Category devolve a categoria registrada para o tipo de achado
func (k FindingKind) Category() (FindingCategory, bool) {
	schema, ok := kindRegistry[k]
	return schema.category, ok
}

type FindingMetrics struct {
	Current    float64  `json:"current"`
	Target     *float64 `json:"target,omitempty"`
	Gap        *float64 `json:"gap,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	EntityName string   `json:"entityName,omitempty"`
}

type Recommendation struct {
	Action string   `json:"action"`
	Impact Level    `json:"impact"`
	Effort Level    `json:"effort"`
	Steps  []string `json:"steps,omitempty"`
}

type CognitiveFinding struct {
	ID                string           `json:"id"`
	Kind              FindingKind      `json:"kind"`
	Category          FindingCategory  `json:"category"`
	Severity          Severity         `json:"severity"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Metrics           FindingMetrics   `json:"metrics"`
	Recommendations   []Recommendation `json:"recommendations"`
	Source            FindingSource    `json:"source"`
	FinancialImpact   FinancialImpact  `json:"financialImpact"`
	RootCause         string           `json:"rootCause,omitempty"`
	RelatedFindingIDs []string         `json:"relatedFindingIds,omitempty"`
	CorrelationID     string           `json:"correlationId,omitempty"`
}

// NewFinding preenche a categoria a partir do tipo e valida o achado
func NewFinding(f CognitiveFinding) (CognitiveFinding, error) {
	if category, ok := f.Kind.Category(); ok && f.Category == "" {
		f.Category = category
	}

	if err := f.Validate(); err != nil {
		return CognitiveFinding{}, err
	}

	return f, nil
}

func (f CognitiveFinding) Validate() error {
	schema, ok := kindRegistry[f.Kind]
	if !ok {
		return fmt.Errorf("%w: tipo desconhecido %q", ErrInvalidFinding, f.Kind)
	}

	if f.ID == "" {
		return fmt.Errorf("%w: id vazio (%s)", ErrInvalidFinding, f.Kind)
	}

	if f.Category != schema.category {
		return fmt.Errorf("%w: %s pertence a %s, não a %s", ErrInvalidFinding, f.Kind, schema.category, f.Category)
	}

	if f.Severity.Weight() == 0 {
		return fmt.Errorf("%w: severidade %q em %s", ErrInvalidFinding, f.Severity, f.ID)
	}

	switch f.Source {
	case SourcePlanning, SourceAlert, SourcePattern:
	default:
		return fmt.Errorf("%w: origem %q em %s", ErrInvalidFinding, f.Source, f.ID)
	}

	if schema.requiresEntity && f.Metrics.EntityName == "" {
		return fmt.Errorf("%w: %s exige entityName", ErrInvalidFinding, f.ID)
	}

	if schema.requiresTarget && f.Metrics.Target == nil {
		return fmt.Errorf("%w: %s exige meta", ErrInvalidFinding, f.ID)
	}

	if err := f.FinancialImpact.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFinding, f.ID, err)
	}

	return nil
}

// Float devolve um ponteiro para o valor, usado nos campos opcionais
func Float(v float64) *float64 {
	return &v
}
