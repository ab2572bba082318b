package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

func TestProject(t *testing.T) {
	cube := &domain.DataCube{
		Meta:    domain.CubeMeta{TenantID: "loja-1", DayOfMonth: 15, DaysInMonth: 30},
		Account: &domain.AccountSlice{Spend: 9000, Revenue: 45000, Conversions: 100},
		GA4:     &domain.GA4Slice{Sessions: 14000, Purchases: 90},
		Planning: domain.PlanningSlice{
			Revenue:    domain.Float(100000),
			Investment: domain.Float(15000),
			Orders:     domain.Float(200),
			Sessions:   domain.Float(40000),
			ROAS:       domain.Float(5),
		},
	}

	projections := Project(cube)
	require.Len(t, projections, 4)

	byMetric := map[domain.PlanMetric]domain.PacingProjection{}
	for _, p := range projections {
		byMetric[p.Metric] = p
		assert.Equal(t, 0.65, p.Confidence)
	}

	revenue := byMetric[domain.PlanRevenue]
	assert.Equal(t, 3000.0, revenue.DailyRate)
	assert.Equal(t, 90000.0, revenue.Projected)
	assert.Equal(t, 10000.0, revenue.Gap)
	assert.Equal(t, 10.0, revenue.GapPct)
	assert.Equal(t, 3666.67, revenue.RequiredDailyRate)
	assert.Equal(t, domain.PacingAtRisk, revenue.Status)

	assert.Equal(t, domain.PacingOnTrack, byMetric[domain.PlanInvestment].Status)
	assert.Equal(t, domain.PacingAtRisk, byMetric[domain.PlanOrders].Status)
	assert.Equal(t, domain.PacingOffTrack, byMetric[domain.PlanSessions].Status)
}

func TestProject_WithoutTargets(t *testing.T) {
	cube := &domain.DataCube{
		Meta:    domain.CubeMeta{TenantID: "loja-1", DayOfMonth: 30, DaysInMonth: 30},
		Account: &domain.AccountSlice{Revenue: 1000},
	}
	assert.Empty(t, Project(cube))
}
