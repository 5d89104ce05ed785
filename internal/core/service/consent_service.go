package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/catalog"
	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

// consentVersion tags consent history records with the policy revision they
// were recorded under.
const consentVersion = "1.0"

type ConsentService struct {
	permissions ports.PermissionRepository
	records     ports.ConsentRecordRepository
	logger      zerolog.Logger
}

func NewConsentService(
	permissions ports.PermissionRepository,
	records ports.ConsentRecordRepository,
	logger zerolog.Logger,
) *ConsentService {
	return &ConsentService{permissions: permissions, records: records, logger: logger}
}

// IsAllowed reports whether the attribute may be disclosed for the user.
// Attributes with no recorded decision are allowed.
func (s *ConsentService) IsAllowed(ctx context.Context, userID, attributeID string) (bool, error) {
	set, err := s.permissions.FindByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.Allows(attributeID), nil
}

// Filter returns the subset of attributeIDs the user permits, deduplicated,
// in first-occurrence order.
func (s *ConsentService) Filter(ctx context.Context, userID string, attributeIDs []string) ([]string, error) {
	set, err := s.permissions.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(attributeIDs))
	allowed := make([]string, 0, len(attributeIDs))
	for _, id := range attributeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if set.Allows(id) {
			allowed = append(allowed, id)
		}
	}
	return allowed, nil
}

// Permissions returns the full attribute catalog annotated with the user's
// current decisions.
func (s *ConsentService) Permissions(ctx context.Context, userID string) ([]ports.PermissionCategoryView, error) {
	set, err := s.permissions.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return annotateCatalog(set), nil
}

// Update merges the given decisions into the user's permission set and
// appends a consent history record listing the explicitly granted attributes.
func (s *ConsentService) Update(ctx context.Context, userID string, in ports.ConsentUpdateInput) ([]ports.PermissionCategoryView, error) {
	set, err := s.permissions.Merge(ctx, userID, in.Permissions)
	if err != nil {
		return nil, err
	}

	granted := make([]string, 0, len(in.Permissions))
	for _, id := range catalog.AttributeIDs() {
		if allowed, ok := in.Permissions[id]; ok && allowed {
			granted = append(granted, id)
		}
	}

	now := time.Now().UTC()
	record := &domain.ConsentRecord{
		UserID:      userID,
		ConsentType: "data_access",
		Status:      domain.ConsentGranted,
		Purpose:     "AI-powered financial assistance",
		DataTypes:   granted,
		Metadata: domain.ConsentMetadata{
			Source:    in.Source,
			IPAddress: in.IPAddress,
			UserAgent: in.UserAgent,
		},
		Version:   consentVersion,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.records.Insert(ctx, record); err != nil {
		// The permission change already took effect; a missing history row is
		// worth a log line, not a failed request.
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to record consent history")
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("changed", len(in.Permissions)).
		Int("granted", len(granted)).
		Msg("permissions updated")

	return annotateCatalog(set), nil
}

func (s *ConsentService) History(ctx context.Context, userID string, limit int) ([]*domain.ConsentRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.records.ListByUser(ctx, userID, limit)
}

// Score summarizes how much of the catalog the user has denied, as a percent.
func (s *ConsentService) Score(ctx context.Context, userID string) (*ports.PrivacyScore, error) {
	set, err := s.permissions.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := catalog.Total()
	denied := 0
	for _, id := range catalog.AttributeIDs() {
		if !set.Allows(id) {
			denied++
		}
	}

	return &ports.PrivacyScore{
		Score:        denied * 100 / total,
		TotalCount:   total,
		AllowedCount: total - denied,
		DeniedCount:  denied,
	}, nil
}

func annotateCatalog(set *domain.PermissionSet) []ports.PermissionCategoryView {
	cats := catalog.Categories()
	out := make([]ports.PermissionCategoryView, 0, len(cats))
	for _, c := range cats {
		view := ports.PermissionCategoryView{Key: c.Key, Label: c.Label}
		for _, a := range c.Attributes {
			view.Permissions = append(view.Permissions, ports.PermissionView{
				Attribute: a,
				Allowed:   set.Allows(a.ID),
			})
		}
		out = append(out, view)
	}
	return out
}
