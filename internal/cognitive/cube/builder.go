// Package cube normaliza as fatias de métricas brutas em um DataCube com todos os campos derivados.
package cube

import (
	"fmt"
	"strings"

	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

var (
	paidChannelMarkers    = []string{"paid", "cpc", "ppc", "display", "ads"}
	organicChannelMarkers = []string{"organic", "orgânico", "organico"}
)

// Build monta o cubo a partir dos metadados e das fatias brutas. Campos derivados de entrada são descartados.
func Build(meta domain.CubeMeta, raw domain.RawMetrics) (*domain.DataCube, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	cube := &domain.DataCube{
		Meta:         meta,
		Planning:     raw.Planning,
		Skus:         buildSkus(raw.Skus),
		Campaigns:    buildCampaigns(raw.Campaigns),
		Channels:     buildChannels(raw.Channels),
		Devices:      buildDevices(raw.Devices),
		Demographics: buildDemographics(raw.Demographics),
		Geographics:  buildGeographics(raw.Geographics),
	}

	if raw.Account != nil {
		account := buildAccount(*raw.Account)
		cube.Account = &account
	}

	if raw.GA4 != nil {
		ga4 := buildGA4(*raw.GA4)
		cube.GA4 = &ga4
	}

	if err := cube.Validate(); err != nil {
		return nil, fmt.Errorf("erro ao montar cubo: %w", err)
	}

	return cube, nil
}

func roas(revenue, spend float64) float64 {
	return utils.RoundWithTwoDecimalPlace(utils.SafeDivide(revenue, spend))
}

func cpa(spend, conversions float64) float64 {
	return utils.RoundWithTwoDecimalPlace(utils.SafeDivide(spend, conversions))
}

func pct(part, total float64) float64 {
	return utils.RoundWithTwoDecimalPlace(utils.Percent(part, total))
}

func buildAccount(in domain.AccountSlice) domain.AccountSlice {
	return domain.AccountSlice{
		Spend:          in.Spend,
		Impressions:    in.Impressions,
		Clicks:         in.Clicks,
		Conversions:    in.Conversions,
		Revenue:        in.Revenue,
		ROAS:           roas(in.Revenue, in.Spend),
		CPA:            cpa(in.Spend, in.Conversions),
		CTR:            pct(in.Clicks, in.Impressions),
		ConversionRate: pct(in.Conversions, in.Clicks),
	}
}

func buildSkus(in []domain.SkuSlice) []domain.SkuSlice {
	var totalRevenue, totalSpend float64
	for _, sku := range in {
		totalRevenue += sku.Revenue
		totalSpend += sku.Spend
	}

	out := make([]domain.SkuSlice, 0, len(in))
	for _, sku := range in {
		s := domain.SkuSlice{
			SKU:          sku.SKU,
			Name:         sku.Name,
			Status:       normalizeStatus(sku.Status),
			Spend:        sku.Spend,
			Revenue:      sku.Revenue,
			Conversions:  sku.Conversions,
			Clicks:       sku.Clicks,
			Impressions:  sku.Impressions,
			ProductCost:  sku.ProductCost,
			ROAS:         roas(sku.Revenue, sku.Spend),
			CPA:          cpa(sku.Spend, sku.Conversions),
			CTR:          pct(sku.Clicks, sku.Impressions),
			RevenueShare: pct(sku.Revenue, totalRevenue),
			SpendShare:   pct(sku.Spend, totalSpend),
		}

		if sku.ProductCost > 0 {
			s.HasCostData = true
			s.GrossProfit = utils.RoundWithTwoDecimalPlace(sku.Revenue - sku.ProductCost)
			s.GrossMarginPct = pct(sku.Revenue-sku.ProductCost, sku.Revenue)
			s.ProfitAfterAds = utils.RoundWithTwoDecimalPlace(sku.Revenue - sku.ProductCost - sku.Spend)
		}

		out = append(out, s)
	}

	return out
}

func normalizeStatus(status domain.SkuStatus) domain.SkuStatus {
	switch domain.SkuStatus(strings.ToLower(strings.TrimSpace(string(status)))) {
	case domain.SkuStatusScale:
		return domain.SkuStatusScale
	case domain.SkuStatusKeep:
		return domain.SkuStatusKeep
	case domain.SkuStatusPause:
		return domain.SkuStatusPause
	}
	return ""
}

func buildCampaigns(in []domain.CampaignSlice) []domain.CampaignSlice {
	out := make([]domain.CampaignSlice, 0, len(in))
	for _, c := range in {
		out = append(out, domain.CampaignSlice{
			ID:             c.ID,
			Name:           c.Name,
			Spend:          c.Spend,
			Impressions:    c.Impressions,
			Clicks:         c.Clicks,
			Conversions:    c.Conversions,
			Revenue:        c.Revenue,
			ROAS:           roas(c.Revenue, c.Spend),
			CPA:            cpa(c.Spend, c.Conversions),
			CTR:            pct(c.Clicks, c.Impressions),
			ConversionRate: pct(c.Conversions, c.Clicks),
		})
	}
	return out
}

func buildChannels(in []domain.ChannelSlice) []domain.ChannelSlice {
	var totalSessions float64
	for _, c := range in {
		totalSessions += c.Sessions
	}

	out := make([]domain.ChannelSlice, 0, len(in))
	for _, c := range in {
		out = append(out, domain.ChannelSlice{
			Channel:        c.Channel,
			Kind:           ChannelKindOf(c.Channel),
			Sessions:       c.Sessions,
			Conversions:    c.Conversions,
			Revenue:        c.Revenue,
			SessionShare:   pct(c.Sessions, totalSessions),
			ConversionRate: pct(c.Conversions, c.Sessions),
		})
	}
	return out
}

// ChannelKindOf classifica o canal pelo nome do agrupamento de tráfego
func ChannelKindOf(channel string) domain.ChannelKind {
	name := strings.ToLower(channel)
	for _, marker := range organicChannelMarkers {
		if strings.Contains(name, marker) {
			return domain.ChannelKindOrganic
		}
	}
	for _, marker := range paidChannelMarkers {
		if strings.Contains(name, marker) {
			return domain.ChannelKindPaid
		}
	}
	return domain.ChannelKindOther
}

func buildGA4(in domain.GA4Slice) domain.GA4Slice {
	out := in
	out.ConversionRate = pct(in.Purchases, in.Sessions)
	out.AOV = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(in.Revenue, in.Purchases))
	out.CartAbandonmentRate = 0
	if in.AddToCarts > 0 {
		out.CartAbandonmentRate = utils.RoundWithTwoDecimalPlace(utils.Clamp((1-in.Purchases/in.AddToCarts)*100, 0, 100))
	}
	return out
}

type segmentTotals struct {
	revenue float64
	spend   float64
}

func totalsOf(metrics []domain.SegmentMetrics) segmentTotals {
	var t segmentTotals
	for _, m := range metrics {
		t.revenue += m.Revenue
		t.spend += m.Spend
	}
	return t
}

func deriveSegment(in domain.SegmentMetrics, totals segmentTotals) domain.SegmentMetrics {
	return domain.SegmentMetrics{
		Spend:        in.Spend,
		Impressions:  in.Impressions,
		Clicks:       in.Clicks,
		Conversions:  in.Conversions,
		Revenue:      in.Revenue,
		ROAS:         roas(in.Revenue, in.Spend),
		CPA:          cpa(in.Spend, in.Conversions),
		CTR:          pct(in.Clicks, in.Impressions),
		RevenueShare: pct(in.Revenue, totals.revenue),
		SpendShare:   pct(in.Spend, totals.spend),
	}
}

func buildDevices(in []domain.DeviceSlice) []domain.DeviceSlice {
	if len(in) == 0 {
		return nil
	}
	metrics := make([]domain.SegmentMetrics, 0, len(in))
	for _, d := range in {
		metrics = append(metrics, d.SegmentMetrics)
	}
	totals := totalsOf(metrics)

	out := make([]domain.DeviceSlice, 0, len(in))
	for _, d := range in {
		out = append(out, domain.DeviceSlice{Device: d.Device, SegmentMetrics: deriveSegment(d.SegmentMetrics, totals)})
	}
	return out
}

func buildDemographics(in []domain.DemographicSlice) []domain.DemographicSlice {
	if len(in) == 0 {
		return nil
	}
	metrics := make([]domain.SegmentMetrics, 0, len(in))
	for _, d := range in {
		metrics = append(metrics, d.SegmentMetrics)
	}
	totals := totalsOf(metrics)

	out := make([]domain.DemographicSlice, 0, len(in))
	for _, d := range in {
		out = append(out, domain.DemographicSlice{
			AgeRange:       d.AgeRange,
			Gender:         d.Gender,
			SegmentMetrics: deriveSegment(d.SegmentMetrics, totals),
		})
	}
	return out
}

func buildGeographics(in []domain.GeographicSlice) []domain.GeographicSlice {
	if len(in) == 0 {
		return nil
	}
	metrics := make([]domain.SegmentMetrics, 0, len(in))
	for _, g := range in {
		metrics = append(metrics, g.SegmentMetrics)
	}
	totals := totalsOf(metrics)

	out := make([]domain.GeographicSlice, 0, len(in))
	for _, g := range in {
		out = append(out, domain.GeographicSlice{Region: g.Region, SegmentMetrics: deriveSegment(g.SegmentMetrics, totals)})
	}
	return out
}
