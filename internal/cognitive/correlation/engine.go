// Package correlation liga achados de categorias diferentes que apontam para a mesma causa.
package correlation

import (
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

// Pattern descreve uma relação causal: gatilhos a partir de uma severidade mínima explicados por evidências
type Pattern struct {
	Name               string
	TriggerKinds       []domain.FindingKind
	TriggerMinSeverity domain.Severity
	EvidenceKinds      []domain.FindingKind
	RootCause          string
}

var zeroConversionKinds = []domain.FindingKind{
	domain.KindCampaignZeroConversions,
	domain.KindSkuZeroConversions,
}

// Patterns é avaliada em ordem: o primeiro padrão que reivindica um achado prevalece
var Patterns = []Pattern{
	{
		Name:               "low-account-roas",
		TriggerKinds:       []domain.FindingKind{domain.KindAccountLowRoas},
		TriggerMinSeverity: domain.SeverityWarning,
		EvidenceKinds: append([]domain.FindingKind{
			domain.KindCampaignLowRoas,
			domain.KindSkuLowRoas,
			domain.KindLowRoasSpendShare,
			domain.KindPausedSkuSpend,
		}, zeroConversionKinds...),
		RootCause: "ROAS da conta puxado para baixo por campanhas e SKUs que consomem verba sem retorno",
	},
	{
		Name:               "revenue-gap-from-funnel",
		TriggerKinds:       []domain.FindingKind{domain.KindRevenuePlanGap},
		TriggerMinSeverity: domain.SeverityWarning,
		EvidenceKinds: []domain.FindingKind{
			domain.KindHighBounceRate,
			domain.KindCartAbandonment,
			domain.KindTicketPlanGap,
		},
		RootCause: "Receita abaixo da meta por perdas no funil do site (rejeição, carrinho ou ticket)",
	},
	{
		Name:               "revenue-gap-from-traffic",
		TriggerKinds:       []domain.FindingKind{domain.KindRevenuePlanGap},
		TriggerMinSeverity: domain.SeverityWarning,
		EvidenceKinds: []domain.FindingKind{
			domain.KindSessionsPlanGap,
			domain.KindOrdersPlanGap,
			domain.KindPaidTrafficDependency,
		},
		RootCause: "Receita abaixo da meta por volume insuficiente de tráfego e pedidos",
	},
	{
		Name:               "revenue-gap-from-efficiency",
		TriggerKinds:       []domain.FindingKind{domain.KindRevenuePlanGap, domain.KindRoasPlanGap},
		TriggerMinSeverity: domain.SeverityWarning,
		EvidenceKinds: append([]domain.FindingKind{
			domain.KindCampaignLowRoas,
			domain.KindSkuLowRoas,
			domain.KindLowRoasSpendShare,
		}, zeroConversionKinds...),
		RootCause: "Resultado abaixo do plano por verba concentrada em entidades ineficientes",
	},
	{
		Name:               "cpa-from-segments",
		TriggerKinds:       []domain.FindingKind{domain.KindCpaPlanGap},
		TriggerMinSeverity: domain.SeverityWarning,
		EvidenceKinds: []domain.FindingKind{
			domain.KindDeviceCpaOutlier,
			domain.KindDemographicCpaOutlier,
			domain.KindGeoCpaOutlier,
		},
		RootCause: "CPA acima da meta puxado por segmentos com custo por aquisição fora da curva",
	},
	{
		Name:               "concentration-trend",
		TriggerKinds:       []domain.FindingKind{domain.KindRevenueConcentration, domain.KindGeoConcentration},
		TriggerMinSeverity: domain.SeverityWarning,
		EvidenceKinds: []domain.FindingKind{
			domain.KindSkuRoasDrop,
			domain.KindAccountRevenueDecline,
		},
		RootCause: "Receita concentrada justamente onde o desempenho começou a cair",
	},
	{
		Name:               "account-decline-sku-drop",
		TriggerKinds:       []domain.FindingKind{domain.KindAccountRevenueDecline},
		TriggerMinSeverity: domain.SeverityWarning,
		EvidenceKinds:      []domain.FindingKind{domain.KindSkuRoasDrop},
		RootCause:          "Queda da receita da conta explicada pela perda de eficiência de SKUs específicos",
	},
	{
		Name:               "roas-target-from-waste",
		TriggerKinds:       []domain.FindingKind{domain.KindRoasPlanGap},
		TriggerMinSeverity: domain.SeverityWarning,
		EvidenceKinds:      append([]domain.FindingKind{domain.KindPausedSkuSpend}, zeroConversionKinds...),
		RootCause:          "ROAS abaixo da meta por investimento em itens sem conversão ou marcados para pausar",
	},
}

func CorrelationID(pattern string) string {
	return "corr-" + pattern
}

// Correlate devolve uma cópia dos achados com causa raiz e referências cruzadas.
// Achados já correlacionados não são reivindicados de novo, o que torna a operação idempotente.
func Correlate(findings []domain.CognitiveFinding) []domain.CognitiveFinding {
	out := make([]domain.CognitiveFinding, len(findings))
	copy(out, findings)

	for _, pattern := range Patterns {
		apply(out, pattern)
	}

	return out
}

func apply(findings []domain.CognitiveFinding, pattern Pattern) {
	var triggers, evidence []int
	for i, f := range findings {
		if hasKind(pattern.TriggerKinds, f.Kind) && f.CorrelationID == "" &&
			f.Severity.Weight() >= pattern.TriggerMinSeverity.Weight() {
			triggers = append(triggers, i)
			continue
		}
		if hasKind(pattern.EvidenceKinds, f.Kind) {
			evidence = append(evidence, i)
		}
	}

	if len(triggers) == 0 || len(evidence) == 0 {
		return
	}

	correlationID := CorrelationID(pattern.Name)
	evidenceIDs := idsOf(findings, evidence)
	triggerIDs := idsOf(findings, triggers)

	for _, i := range triggers {
		findings[i].RootCause = pattern.RootCause
		findings[i].RelatedFindingIDs = append([]string(nil), evidenceIDs...)
		findings[i].CorrelationID = correlationID
	}

	for _, i := range evidence {
		if findings[i].CorrelationID != "" {
			continue
		}
		findings[i].RelatedFindingIDs = append([]string(nil), triggerIDs...)
		findings[i].CorrelationID = correlationID
	}
}

func hasKind(kinds []domain.FindingKind, kind domain.FindingKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func idsOf(findings []domain.CognitiveFinding, indexes []int) []string {
	out := make([]string, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, findings[i].ID)
	}
	return out
}
