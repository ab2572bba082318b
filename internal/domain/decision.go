package domain

type ScoreComponents struct {
	Impact     float64 `json:"impact"`
	Confidence float64 `json:"confidence"`
	Urgency    float64 `json:"urgency"`
	Effort     float64 `json:"effort"`
}

type RankedDecision struct {
	Rank       int              `json:"rank"`
	Score      float64          `json:"score"`
	Components ScoreComponents  `json:"components"`
	Finding    CognitiveFinding `json:"finding"`
}

type PacingStatus string

const (
	PacingOnTrack  PacingStatus = "on_track"
	PacingAtRisk   PacingStatus = "at_risk"
	PacingOffTrack PacingStatus = "off_track"
)

type PacingProjection struct {
	Metric            PlanMetric   `json:"metric"`
	Label             string       `json:"label"`
	Current           float64      `json:"current"`
	Target            float64      `json:"target"`
	DailyRate         float64      `json:"dailyRate"`
	Projected         float64      `json:"projected"`
	Gap               float64      `json:"gap"`
	GapPct            float64      `json:"gapPct"`
	RequiredDailyRate float64      `json:"requiredDailyRate"`
	Status            PacingStatus `json:"status"`
	Confidence        float64      `json:"confidence"`
}
