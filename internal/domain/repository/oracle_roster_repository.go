package repository

import (
	"context"

	"flightsurety-relay/internal/domain/entity"
)

// OracleRosterRepository persists the oracle roster so that assigned
// indexes and simulated status codes survive relay restarts
type OracleRosterRepository interface {
	FindAll(ctx context.Context) ([]*entity.Oracle, error)
	Upsert(ctx context.Context, oracle *entity.Oracle) error
}
