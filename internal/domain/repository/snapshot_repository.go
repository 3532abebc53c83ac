package repository

import (
	"context"

	"flightsurety-relay/internal/domain/entity"
)

// SnapshotRepository mirrors rebuilt state into an external read-side store
// for view-layer consumers. The mirror is write-only for the rebuilder:
// state is never loaded back from it, the event log stays the sole source
// of truth.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot *entity.Snapshot) error
}
