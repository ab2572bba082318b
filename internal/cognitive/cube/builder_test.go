package cube

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

func meta() domain.CubeMeta {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return domain.CubeMeta{
		TenantID:    "loja-1",
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 0, 14),
		DayOfMonth:  15,
		DaysInMonth: 30,
	}
}

func TestBuild_DerivedFields(t *testing.T) {
	raw := domain.RawMetrics{
		Account: &domain.AccountSlice{Spend: 9000, Revenue: 45000, Clicks: 2000, Impressions: 100000, Conversions: 100},
		Skus: []domain.SkuSlice{
			{SKU: "A1", Spend: 600, Revenue: 3000, Conversions: 10, ProductCost: 1800, Status: "Escalar"},
			{SKU: "B2", Spend: 400, Revenue: 1000, Conversions: 0},
		},
		GA4: &domain.GA4Slice{Sessions: 10000, Purchases: 200, Revenue: 40000, AddToCarts: 800},
	}

	cube, err := Build(meta(), raw)
	require.NoError(t, err)

	assert.Equal(t, 5.0, cube.Account.ROAS)
	assert.Equal(t, 90.0, cube.Account.CPA)
	assert.Equal(t, 2.0, cube.Account.CTR)
	assert.Equal(t, 5.0, cube.Account.ConversionRate)

	a1 := cube.Skus[0]
	assert.Equal(t, domain.SkuStatusScale, a1.Status)
	assert.Equal(t, 75.0, a1.RevenueShare)
	assert.Equal(t, 60.0, a1.SpendShare)
	assert.True(t, a1.HasCostData)
	assert.Equal(t, 40.0, a1.GrossMarginPct)
	assert.Equal(t, 1200.0, a1.GrossProfit)
	assert.Equal(t, 600.0, a1.ProfitAfterAds)

	b2 := cube.Skus[1]
	assert.False(t, b2.HasCostData)
	assert.Equal(t, 0.0, b2.CPA)

	assert.Equal(t, 2.0, cube.GA4.ConversionRate)
	assert.Equal(t, 200.0, cube.GA4.AOV)
	assert.Equal(t, 75.0, cube.GA4.CartAbandonmentRate)
}

func TestBuild_ZeroDenominatorsYieldZero(t *testing.T) {
	raw := domain.RawMetrics{
		Account:   &domain.AccountSlice{Revenue: 100},
		Skus:      []domain.SkuSlice{{SKU: "A1", Revenue: 50}},
		Campaigns: []domain.CampaignSlice{{ID: "c1", Conversions: 0, Spend: 10}},
		Channels:  []domain.ChannelSlice{{Channel: "Organic Search"}},
		GA4:       &domain.GA4Slice{Revenue: 10},
		Devices:   []domain.DeviceSlice{{Device: "mobile"}},
	}

	cube, err := Build(meta(), raw)
	require.NoError(t, err)

	values := []float64{
		cube.Account.ROAS, cube.Account.CPA, cube.Account.CTR, cube.Account.ConversionRate,
		cube.Skus[0].ROAS, cube.Skus[0].CPA, cube.Skus[0].CTR, cube.Skus[0].SpendShare,
		cube.Campaigns[0].CPA, cube.Campaigns[0].ROAS, cube.Campaigns[0].ConversionRate,
		cube.Channels[0].SessionShare, cube.Channels[0].ConversionRate,
		cube.GA4.ConversionRate, cube.GA4.AOV, cube.GA4.CartAbandonmentRate,
		cube.Devices[0].ROAS, cube.Devices[0].CPA, cube.Devices[0].RevenueShare,
	}
	for _, v := range values {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.Equal(t, 0.0, v)
	}
}

func TestBuild_RecomputesShares(t *testing.T) {
	raw := domain.RawMetrics{
		Skus: []domain.SkuSlice{
			{SKU: "A", Revenue: 1, Spend: 1, RevenueShare: 99},
			{SKU: "B", Revenue: 1, Spend: 1, RevenueShare: 99},
			{SKU: "C", Revenue: 1, Spend: 1, RevenueShare: 99},
		},
	}

	cube, err := Build(meta(), raw)
	require.NoError(t, err)

	var total float64
	for _, sku := range cube.Skus {
		assert.Equal(t, 33.33, sku.RevenueShare)
		total += sku.RevenueShare
	}
	assert.LessOrEqual(t, total, 100.0)
}

func TestBuild_InvalidMeta(t *testing.T) {
	m := meta()
	m.DaysInMonth = 0

	_, err := Build(m, domain.RawMetrics{})
	assert.ErrorIs(t, err, domain.ErrInvalidCubeMeta)
}

func TestChannelKindOf(t *testing.T) {
	tests := map[string]domain.ChannelKind{
		"Organic Search": domain.ChannelKindOrganic,
		"Paid Social":    domain.ChannelKindPaid,
		"google / cpc":   domain.ChannelKindPaid,
		"Display":        domain.ChannelKindPaid,
		"Direct":         domain.ChannelKindOther,
		"Referral":       domain.ChannelKindOther,
	}

	for name, expected := range tests {
		assert.Equal(t, expected, ChannelKindOf(name), name)
	}
}
