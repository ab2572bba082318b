package snapshotting

import (
	"context"

	"github.com/vfg2006/cognitive-engine/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_snapshotting.go -package=mocks

// Recorder agenda a gravação assíncrona do histórico diário
type Recorder interface {
	// Enqueue valida o registro e devolve o id da tarefa criada
	Enqueue(ctx context.Context, record domain.SnapshotRecord) (string, error)
}

// SnapshotCache descarta o histórico memoizado dos escopos regravados
type SnapshotCache interface {
	Invalidate(ctx context.Context, tenantID string, scopes ...string) error
}
