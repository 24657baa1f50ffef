package repository

import (
	"context"

	"messenger-fixtures/internal/faker"
)

type FixtureRepository interface {
	// SaveBatch writes every record of the batch in one transaction. Rows whose
	// key already exists are left untouched.
	SaveBatch(ctx context.Context, batch *faker.Batch) (faker.BatchCounts, error)
	LoadBatch(ctx context.Context) (*faker.Batch, error)
	CountAll(ctx context.Context) (faker.BatchCounts, error)
	Truncate(ctx context.Context) error
}
