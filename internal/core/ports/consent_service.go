package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/catalog"
	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// PermissionView is one catalog attribute annotated with the user's current
// consent decision.
type PermissionView struct {
	catalog.Attribute
	Allowed bool `json:"allowed"`
}

// PermissionCategoryView groups permission views the way the catalog groups
// attributes.
type PermissionCategoryView struct {
	Key         string           `json:"key"`
	Label       string           `json:"label"`
	Permissions []PermissionView `json:"permissions"`
}

// ConsentUpdateInput carries a batch of consent decisions plus the channel
// metadata recorded in the history.
type ConsentUpdateInput struct {
	Permissions map[string]bool
	Source      string
	IPAddress   string
	UserAgent   string
}

// PrivacyScore summarizes how much of the catalog the user has locked down.
type PrivacyScore struct {
	Score        int `json:"score"` // percent of attributes denied
	TotalCount   int `json:"total_count"`
	AllowedCount int `json:"allowed_count"`
	DeniedCount  int `json:"denied_count"`
}

// ConsentService is the single authority on attribute disclosure. Every
// component that reads or reveals user data consults it; attributes with no
// recorded decision default to allowed.
type ConsentService interface {
	// IsAllowed reports whether one attribute may be disclosed for the user.
	IsAllowed(ctx context.Context, userID, attributeID string) (bool, error)
	// Filter returns the subset of attributeIDs the user permits, preserving
	// input order.
	Filter(ctx context.Context, userID string, attributeIDs []string) ([]string, error)
	// Permissions returns the full catalog annotated with the user's
	// decisions.
	Permissions(ctx context.Context, userID string) ([]PermissionCategoryView, error)
	// Update merges the given decisions into the user's permission set and
	// appends a consent history record listing the granted attributes.
	Update(ctx context.Context, userID string, in ConsentUpdateInput) ([]PermissionCategoryView, error)
	History(ctx context.Context, userID string, limit int) ([]*domain.ConsentRecord, error)
	Score(ctx context.Context, userID string) (*PrivacyScore, error)
}
