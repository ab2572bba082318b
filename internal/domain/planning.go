package domain

type PlanMetric string

const (
	PlanRevenue        PlanMetric = "receita_captada"
	PlanInvestment     PlanMetric = "investimento"
	PlanOrders         PlanMetric = "pedidos"
	PlanSessions       PlanMetric = "sessoes"
	PlanROAS           PlanMetric = "roas"
	PlanCPA            PlanMetric = "cpa"
	PlanTicket         PlanMetric = "ticket_medio"
	PlanConversionRate PlanMetric = "taxa_conversao"
)

// PlanMetrics é a ordem fixa em que as metas do plano são avaliadas
var PlanMetrics = []PlanMetric{
	PlanRevenue,
	PlanInvestment,
	PlanOrders,
	PlanSessions,
	PlanROAS,
	PlanCPA,
	PlanTicket,
	PlanConversionRate,
}

// IsCumulative indica se a métrica acumula ao longo do mês e deve ser proporcionalizada
func (m PlanMetric) IsCumulative() bool {
	switch m {
	case PlanRevenue, PlanInvestment, PlanOrders, PlanSessions:
		return true
	}
	return false
}

func (m PlanMetric) Label() string {
	switch m {
	case PlanRevenue:
		return "Receita captada"
	case PlanInvestment:
		return "Investimento"
	case PlanOrders:
		return "Pedidos"
	case PlanSessions:
		return "Sessões"
	case PlanROAS:
		return "ROAS"
	case PlanCPA:
		return "CPA"
	case PlanTicket:
		return "Ticket médio"
	case PlanConversionRate:
		return "Taxa de conversão"
	}
	return string(m)
}

// PlanningSlice traz as metas mensais, todas opcionais
type PlanningSlice struct {
	Revenue        *float64 `json:"receita_captada,omitempty"`
	Investment     *float64 `json:"investimento,omitempty"`
	Orders         *float64 `json:"pedidos,omitempty"`
	Sessions       *float64 `json:"sessoes,omitempty"`
	ROAS           *float64 `json:"roas,omitempty"`
	CPA            *float64 `json:"cpa,omitempty"`
	Ticket         *float64 `json:"ticket_medio,omitempty"`
	ConversionRate *float64 `json:"taxa_conversao,omitempty"`
}

// Target devolve a meta informada; metas ausentes ou não positivas são ignoradas
func (p PlanningSlice) Target(metric PlanMetric) (float64, bool) {
	var value *float64
	switch metric {
	case PlanRevenue:
		value = p.Revenue
	case PlanInvestment:
		value = p.Investment
	case PlanOrders:
		value = p.Orders
	case PlanSessions:
		value = p.Sessions
	case PlanROAS:
		value = p.ROAS
	case PlanCPA:
		value = p.CPA
	case PlanTicket:
		value = p.Ticket
	case PlanConversionRate:
		value = p.ConversionRate
	}

	if value == nil || *value <= 0 {
		return 0, false
	}
	return *value, true
}

func (p PlanningSlice) IsEmpty() bool {
	for _, metric := range PlanMetrics {
		if _, ok := p.Target(metric); ok {
			return false
		}
	}
	return true
}
