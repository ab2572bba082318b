package trend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/trend/mocks"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func series(metric string, values ...float64) []domain.HistoricalSnapshot {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.HistoricalSnapshot, 0, len(values))
	for i, v := range values {
		out = append(out, domain.HistoricalSnapshot{
			Date:    start.AddDate(0, 0, i),
			Metrics: map[string]float64{metric: v},
		})
	}
	return out
}

func TestEnricher_Enrich(t *testing.T) {
	ctx := context.Background()

	newCube := func() *domain.DataCube {
		return &domain.DataCube{
			Meta: domain.CubeMeta{TenantID: "loja-1", DayOfMonth: 10, DaysInMonth: 30},
			Skus: []domain.SkuSlice{
				{SKU: "A1", Spend: 500},
				{SKU: "B2", Spend: 900},
				{SKU: "C3", Spend: 100},
				{SKU: "D4", Spend: 0},
			},
		}
	}

	tests := []struct {
		name     string
		topSkus  int
		setup    func(m *mocks.MockSnapshotFetcher)
		validate func(t *testing.T, cube *domain.DataCube)
	}{
		{
			name:    "falha em um escopo não afeta os demais",
			topSkus: 10,
			setup: func(m *mocks.MockSnapshotFetcher) {
				m.EXPECT().Fetch(gomock.Any(), "loja-1", domain.SnapshotScopeAccount, 30).
					Return(series("revenue", 100, 110, 120, 130, 140, 150, 160, 170, 180, 190), nil)
				m.EXPECT().Fetch(gomock.Any(), "loja-1", "sku:B2", 30).
					Return(nil, errors.New("timeout"))
				m.EXPECT().Fetch(gomock.Any(), "loja-1", "sku:A1", 30).
					Return(series("roas", 8, 7, 6, 5, 4, 3, 2, 1), nil)
				m.EXPECT().Fetch(gomock.Any(), "loja-1", "sku:C3", 30).
					Return(series("roas", 1, 2), nil)
			},
			validate: func(t *testing.T, cube *domain.DataCube) {
				require.NotNil(t, cube.Trends)
				require.NotNil(t, cube.Trends.Account)
				assert.Equal(t, domain.TrendImproving, cube.Trends.Account.Classification)

				a1, ok := cube.Trends.SkuTrend("A1")
				require.True(t, ok)
				assert.Equal(t, domain.TrendDeclining, a1.Classification)
				require.NotNil(t, cube.Skus[0].Trend)

				_, ok = cube.Trends.SkuTrend("B2")
				assert.False(t, ok)
				assert.Nil(t, cube.Skus[1].Trend)

				_, ok = cube.Trends.SkuTrend("C3")
				assert.False(t, ok)
			},
		},
		{
			name:    "limita aos N SKUs de maior investimento",
			topSkus: 1,
			setup: func(m *mocks.MockSnapshotFetcher) {
				m.EXPECT().Fetch(gomock.Any(), "loja-1", domain.SnapshotScopeAccount, 30).Return(nil, nil)
				m.EXPECT().Fetch(gomock.Any(), "loja-1", "sku:B2", 30).Return(nil, nil)
			},
			validate: func(t *testing.T, cube *domain.DataCube) {
				assert.Nil(t, cube.Trends)
			},
		},
		{
			name:    "todas as buscas falham e o cubo segue sem tendências",
			topSkus: 10,
			setup: func(m *mocks.MockSnapshotFetcher) {
				m.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("indisponível")).Times(4)
			},
			validate: func(t *testing.T, cube *domain.DataCube) {
				assert.Nil(t, cube.Trends)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := mocks.NewMockSnapshotFetcher(ctrl)
			tt.setup(fetcher)

			enricher := NewEnricher(fetcher, Config{TopSkus: tt.topSkus, LookbackDays: 30, Concurrency: 2})
			cube := newCube()
			enricher.Enrich(ctx, cube)

			tt.validate(t, cube)
		})
	}
}

func TestEnricher_NilFetcher(t *testing.T) {
	cube := &domain.DataCube{Meta: domain.CubeMeta{TenantID: "t"}}
	NewEnricher(nil, Config{}).Enrich(context.Background(), cube)
	assert.Nil(t, cube.Trends)
}
