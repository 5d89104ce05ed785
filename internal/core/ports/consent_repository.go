package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// PermissionRepository stores each user's current consent table.
type PermissionRepository interface {
	// FindByUser returns the user's permission set, or (nil, nil) when the
	// user has never changed any permission.
	FindByUser(ctx context.Context, userID string) (*domain.PermissionSet, error)
	// Merge upserts the given attribute→allowed entries into the user's
	// permission set, leaving untouched attributes as they were.
	Merge(ctx context.Context, userID string, permissions map[string]bool) (*domain.PermissionSet, error)
}

// ConsentRecordRepository stores the append-only consent change history.
type ConsentRecordRepository interface {
	Insert(ctx context.Context, record *domain.ConsentRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ConsentRecord, error)
}
