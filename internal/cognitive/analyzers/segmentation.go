package analyzers

import (
	"fmt"
	"strings"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	segmentCpaMultiplier    = 2.0
	segmentMinimumSpend     = 100.0
	segmentRoasMultiplier   = 1.5
	segmentLowRevenueShare  = 20.0
	segmentReallocation     = 0.3
	geoConcentrationPercent = 60.0
)

// segment é a visão comum de um corte de device, demografia ou região
type segment struct {
	key   string
	label string
	domain.SegmentMetrics
}

func newSegment(label string, metrics domain.SegmentMetrics) segment {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "desconhecido"
	}
	return segment{key: slug(label), label: label, SegmentMetrics: metrics}
}

type segmentRules struct {
	prefix   string
	noun     string
	cpaKind  domain.FindingKind
	roasKind domain.FindingKind
}

// analyzeSegments aplica as regras de outlier de CPA e ROAS sobre uma lista de segmentos
func analyzeSegments(c *collector, rules segmentRules, segments []segment) {
	var spend, revenue, conversions float64
	for _, s := range segments {
		spend += s.Spend
		revenue += s.Revenue
		conversions += s.Conversions
	}
	avgCPA := utils.SafeDivide(spend, conversions)
	avgROAS := utils.SafeDivide(revenue, spend)
	avgSpend := utils.SafeDivide(spend, float64(len(segments)))

	for _, s := range segments {
		if avgCPA > 0 && s.Conversions > 0 && s.Spend > segmentMinimumSpend && s.CPA >= avgCPA*segmentCpaMultiplier {
			amount := s.Spend * segmentReallocation
			c.add(domain.CognitiveFinding{
				ID:       fmt.Sprintf("%s-%s-cpa-outlier", rules.prefix, s.key),
				Kind:     rules.cpaKind,
				Severity: domain.SeverityWarning,
				Title:    fmt.Sprintf("CPA elevado em %s %s", rules.noun, s.label),
				Description: fmt.Sprintf("CPA de %s contra média de %s entre os segmentos.",
					money(s.CPA), money(avgCPA)),
				Metrics: domain.FindingMetrics{
					Current:    s.CPA,
					Unit:       "BRL",
					EntityName: s.label,
				},
				Recommendations: []domain.Recommendation{
					rec(fmt.Sprintf("Reduzir lances para %s %s", rules.noun, s.label), domain.LevelMedium, domain.LevelLow),
				},
				Source:          domain.SourcePattern,
				FinancialImpact: impact.BudgetReallocation(amount, s.ROAS, avgROAS),
			})
		}

		if avgROAS > 0 && s.ROAS >= avgROAS*segmentRoasMultiplier && s.RevenueShare < segmentLowRevenueShare && s.Conversions >= minConversions {
			c.add(domain.CognitiveFinding{
				ID:       fmt.Sprintf("%s-%s-roas-outlier", rules.prefix, s.key),
				Kind:     rules.roasKind,
				Severity: domain.SeveritySuccess,
				Title:    fmt.Sprintf("ROAS acima da média em %s %s", rules.noun, s.label),
				Description: fmt.Sprintf("ROAS %.2f contra %.2f da média, com apenas %.1f%% da receita.",
					s.ROAS, avgROAS, s.RevenueShare),
				Metrics: domain.FindingMetrics{
					Current:    s.ROAS,
					Unit:       "x",
					EntityName: s.label,
				},
				Recommendations: []domain.Recommendation{
					rec(fmt.Sprintf("Aumentar lances para %s %s", rules.noun, s.label), domain.LevelMedium, domain.LevelLow),
				},
				Source:          domain.SourcePattern,
				FinancialImpact: impact.Underinvestment(avgSpend, s.Spend, s.ROAS),
			})
		}
	}
}

type Device struct{}

func (Device) Name() string { return "device" }

func (Device) Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error) {
	if len(cube.Devices) == 0 {
		return nil, nil
	}

	segments := make([]segment, 0, len(cube.Devices))
	for _, d := range cube.Devices {
		segments = append(segments, newSegment(d.Device, d.SegmentMetrics))
	}

	c := &collector{}
	analyzeSegments(c, segmentRules{
		prefix:   "device",
		noun:     "dispositivo",
		cpaKind:  domain.KindDeviceCpaOutlier,
		roasKind: domain.KindDeviceRoasOutlier,
	}, segments)

	return c.result()
}

type Demographic struct{}

func (Demographic) Name() string { return "demographic" }

func (Demographic) Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error) {
	if len(cube.Demographics) == 0 {
		return nil, nil
	}

	segments := make([]segment, 0, len(cube.Demographics))
	for _, d := range cube.Demographics {
		segments = append(segments, newSegment(d.AgeRange+" "+d.Gender, d.SegmentMetrics))
	}

	c := &collector{}
	analyzeSegments(c, segmentRules{
		prefix:   "demographic",
		noun:     "público",
		cpaKind:  domain.KindDemographicCpaOutlier,
		roasKind: domain.KindDemographicRoasOutlier,
	}, segments)

	return c.result()
}

// Geographic também sinaliza concentração de receita em uma única região
type Geographic struct{}

func (Geographic) Name() string { return "geographic" }

func (Geographic) Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error) {
	if len(cube.Geographics) == 0 {
		return nil, nil
	}

	segments := make([]segment, 0, len(cube.Geographics))
	for _, g := range cube.Geographics {
		segments = append(segments, newSegment(g.Region, g.SegmentMetrics))
	}

	c := &collector{}
	analyzeSegments(c, segmentRules{
		prefix:   "geo",
		noun:     "região",
		cpaKind:  domain.KindGeoCpaOutlier,
		roasKind: domain.KindGeoRoasOutlier,
	}, segments)

	for _, s := range segments {
		if s.RevenueShare <= geoConcentrationPercent {
			continue
		}
		c.add(domain.CognitiveFinding{
			ID:          fmt.Sprintf("geo-%s-concentration", s.key),
			Kind:        domain.KindGeoConcentration,
			Severity:    domain.SeverityWarning,
			Title:       fmt.Sprintf("%.1f%% da receita vem de %s", s.RevenueShare, s.label),
			Description: "A receita está concentrada em uma única região.",
			Metrics: domain.FindingMetrics{
				Current:    s.RevenueShare,
				Unit:       "%",
				EntityName: s.label,
			},
			Recommendations: []domain.Recommendation{
				rec("Testar campanhas regionais fora da praça principal", domain.LevelMedium, domain.LevelMedium),
			},
			Source:          domain.SourcePattern,
			FinancialImpact: impact.ConcentrationRisk(s.Revenue),
		})
	}

	return c.result()
}
