package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// DisputeInput is a user's objection to one perception attribute.
type DisputeInput struct {
	Category   string
	Label      string
	Reason     string
	Correction string
}

// PerceptionService serves the model's cached characterization of a user and
// the dispute workflow around it.
type PerceptionService interface {
	// Get returns the user's perception, regenerating it when the cached copy
	// has gone stale.
	Get(ctx context.Context, userID string) (*domain.Perception, error)
	// Refresh forces regeneration regardless of freshness.
	Refresh(ctx context.Context, userID string) (*domain.Perception, error)
	// Dispute flags one perception attribute as contested and records the
	// objection.
	Dispute(ctx context.Context, userID string, in DisputeInput) (*domain.PerceptionDispute, error)
	Disputes(ctx context.Context, userID string) ([]*domain.PerceptionDispute, error)
}
