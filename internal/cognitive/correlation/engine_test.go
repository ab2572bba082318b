package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

func finding(id string, kind domain.FindingKind, severity domain.Severity) domain.CognitiveFinding {
	category, _ := kind.Category()
	return domain.CognitiveFinding{
		ID:              id,
		Kind:            kind,
		Category:        category,
		Severity:        severity,
		Source:          domain.SourceAlert,
		FinancialImpact: domain.NewFinancialImpact(0, 0, 0.3, domain.TimeframeMedium, ""),
	}
}

func byID(findings []domain.CognitiveFinding) map[string]domain.CognitiveFinding {
	out := make(map[string]domain.CognitiveFinding, len(findings))
	for _, f := range findings {
		out[f.ID] = f
	}
	return out
}

func TestCorrelate(t *testing.T) {
	tests := []struct {
		name     string
		input    []domain.CognitiveFinding
		validate func(t *testing.T, out map[string]domain.CognitiveFinding)
	}{
		{
			name: "ROAS baixo da conta é explicado por SKUs sem conversão",
			input: []domain.CognitiveFinding{
				finding("account-low-roas", domain.KindAccountLowRoas, domain.SeverityDanger),
				finding("sku-A1-zero-conversions", domain.KindSkuZeroConversions, domain.SeverityDanger),
				finding("sku-B2-low-roas", domain.KindSkuLowRoas, domain.SeverityWarning),
			},
			validate: func(t *testing.T, out map[string]domain.CognitiveFinding) {
				trigger := out["account-low-roas"]
				assert.NotEmpty(t, trigger.RootCause)
				assert.Equal(t, "corr-low-account-roas", trigger.CorrelationID)
				assert.Equal(t, []string{"sku-A1-zero-conversions", "sku-B2-low-roas"}, trigger.RelatedFindingIDs)

				evidence := out["sku-A1-zero-conversions"]
				assert.Empty(t, evidence.RootCause)
				assert.Equal(t, []string{"account-low-roas"}, evidence.RelatedFindingIDs)
				assert.Equal(t, "corr-low-account-roas", evidence.CorrelationID)
			},
		},
		{
			name: "primeiro padrão declarado prevalece",
			input: []domain.CognitiveFinding{
				finding("planning-receita_captada-gap", domain.KindRevenuePlanGap, domain.SeverityDanger),
				finding("ga4-cart-abandonment", domain.KindCartAbandonment, domain.SeverityWarning),
				finding("planning-sessoes-gap", domain.KindSessionsPlanGap, domain.SeverityWarning),
			},
			validate: func(t *testing.T, out map[string]domain.CognitiveFinding) {
				trigger := out["planning-receita_captada-gap"]
				assert.Equal(t, "corr-revenue-gap-from-funnel", trigger.CorrelationID)
				assert.Equal(t, []string{"ga4-cart-abandonment"}, trigger.RelatedFindingIDs)
				assert.Empty(t, out["planning-sessoes-gap"].CorrelationID)
			},
		},
		{
			name: "gatilho abaixo da severidade mínima não correlaciona",
			input: []domain.CognitiveFinding{
				finding("planning-receita_captada-gap", domain.KindRevenuePlanGap, domain.SeveritySuccess),
				finding("ga4-cart-abandonment", domain.KindCartAbandonment, domain.SeverityWarning),
			},
			validate: func(t *testing.T, out map[string]domain.CognitiveFinding) {
				assert.Empty(t, out["planning-receita_captada-gap"].RootCause)
				assert.Empty(t, out["ga4-cart-abandonment"].CorrelationID)
			},
		},
		{
			name: "achados sem padrão passam inalterados",
			input: []domain.CognitiveFinding{
				finding("channels-paid-dependency", domain.KindPaidTrafficDependency, domain.SeverityWarning),
			},
			validate: func(t *testing.T, out map[string]domain.CognitiveFinding) {
				f := out["channels-paid-dependency"]
				assert.Empty(t, f.RootCause)
				assert.Empty(t, f.RelatedFindingIDs)
				assert.Empty(t, f.CorrelationID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Correlate(tt.input)
			require.Len(t, out, len(tt.input))
			tt.validate(t, byID(out))
		})
	}
}

func TestCorrelate_Idempotent(t *testing.T) {
	input := []domain.CognitiveFinding{
		finding("account-low-roas", domain.KindAccountLowRoas, domain.SeverityDanger),
		finding("planning-receita_captada-gap", domain.KindRevenuePlanGap, domain.SeverityWarning),
		finding("planning-roas-gap", domain.KindRoasPlanGap, domain.SeverityDanger),
		finding("sku-A1-zero-conversions", domain.KindSkuZeroConversions, domain.SeverityDanger),
		finding("sku-paused-spend", domain.KindPausedSkuSpend, domain.SeverityWarning),
		finding("sku-A1-revenue-concentration", domain.KindRevenueConcentration, domain.SeverityWarning),
		finding("account-revenue-decline", domain.KindAccountRevenueDecline, domain.SeverityWarning),
		finding("sku-A1-roas-drop", domain.KindSkuRoasDrop, domain.SeverityWarning),
		finding("planning-cpa-gap", domain.KindCpaPlanGap, domain.SeverityWarning),
		finding("device-mobile-cpa-outlier", domain.KindDeviceCpaOutlier, domain.SeverityWarning),
	}

	once := Correlate(input)
	twice := Correlate(once)

	assert.Equal(t, once, twice)
}

func TestCorrelate_DoesNotMutateInput(t *testing.T) {
	input := []domain.CognitiveFinding{
		finding("account-low-roas", domain.KindAccountLowRoas, domain.SeverityDanger),
		finding("sku-A1-zero-conversions", domain.KindSkuZeroConversions, domain.SeverityDanger),
	}

	_ = Correlate(input)

	assert.Empty(t, input[0].CorrelationID)
	assert.Empty(t, input[1].RelatedFindingIDs)
}
