package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// PerceptionRepository stores the cached per-user perception document.
type PerceptionRepository interface {
	// FindByUser returns the user's perception, or (nil, nil) when none has
	// been generated yet.
	FindByUser(ctx context.Context, userID string) (*domain.Perception, error)
	// Upsert replaces the user's perception document.
	Upsert(ctx context.Context, perception *domain.Perception) (*domain.Perception, error)
	// MarkAttributeStatus flips the status of the attribute identified by
	// category and label.
	MarkAttributeStatus(ctx context.Context, userID, category, label, status string) error
}

// DisputeRepository stores user objections to perception attributes.
type DisputeRepository interface {
	Insert(ctx context.Context, dispute *domain.PerceptionDispute) (*domain.PerceptionDispute, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.PerceptionDispute, error)
}
