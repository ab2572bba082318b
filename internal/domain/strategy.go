package domain

type StrategicMode string

const (
	ModeScale       StrategicMode = "ESCALAR"
	ModeOptimize    StrategicMode = "OTIMIZAR"
	ModeProtect     StrategicMode = "PROTEGER"
	ModeRestructure StrategicMode = "REESTRUTURAR"
)

// ModeSignal é um dos sinais ponderados que compõem a avaliação
type ModeSignal struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Detail string  `json:"detail"`
}

type ModeAssessment struct {
	Mode        StrategicMode `json:"mode"`
	Score       float64       `json:"score"`
	Confidence  float64       `json:"confidence"`
	Signals     []string      `json:"signals"`
	Components  []ModeSignal  `json:"components,omitempty"`
	Description string        `json:"description"`
}

type ConstraintType string

const (
	ConstraintTraffic    ConstraintType = "traffic"
	ConstraintConversion ConstraintType = "conversion"
	ConstraintAOV        ConstraintType = "aov"
	ConstraintMargin     ConstraintType = "margin"
	ConstraintBudget     ConstraintType = "budget"
)

type BottleneckCandidate struct {
	Constraint   ConstraintType `json:"constraint"`
	RevenueDelta float64        `json:"revenueDelta"`
	Score        float64        `json:"score"`
}

type Bottleneck struct {
	Constraint       ConstraintType        `json:"constraint"`
	Severity         float64               `json:"severity"`
	Explanation      string                `json:"explanation"`
	FinancialImpact  FinancialImpact       `json:"financialImpact"`
	UnlockAction     string                `json:"unlockAction"`
	InsufficientData bool                  `json:"insufficientData"`
	Candidates       []BottleneckCandidate `json:"candidates,omitempty"`
}

type BudgetScope string

const (
	BudgetScopeSku      BudgetScope = "sku"
	BudgetScopeCampaign BudgetScope = "campaign"
)

type BudgetAllocation struct {
	Entity            string  `json:"entity"`
	CurrentBudget     float64 `json:"currentBudget"`
	RecommendedBudget float64 `json:"recommendedBudget"`
	Delta             float64 `json:"delta"`
	ExpectedROAS      float64 `json:"expectedRoas"`
	ExpectedRevenue   float64 `json:"expectedRevenue"`
	Rationale         string  `json:"rationale"`
}

type BudgetPlan struct {
	Scope           BudgetScope        `json:"scope"`
	TotalBudget     float64            `json:"totalBudget"`
	Allocations     []BudgetAllocation `json:"allocations"`
	CurrentRevenue  float64            `json:"currentRevenue"`
	ExpectedRevenue float64            `json:"expectedRevenue"`
	ExpectedROAS    float64            `json:"expectedRoas"`
	ImprovementBRL  float64            `json:"improvementBRL"`
}
