package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

const perceptionSystemPrompt = `You are analyzing a bank customer's data to describe how the bank's systems currently characterize them. Base every judgement strictly on the data provided.

Respond with a single JSON object:
{"summary": "<2-3 sentence characterization>", "attributes": [{"category": "<spending|saving|risk|engagement>", "label": "<short label>", "confidence": <0.0-1.0>, "evidence": ["<data point>", ...]}]}`

type perceptionReply struct {
	Summary    string `json:"summary"`
	Attributes []struct {
		Category   string   `json:"category"`
		Label      string   `json:"label"`
		Confidence float64  `json:"confidence"`
		Evidence   []string `json:"evidence"`
	} `json:"attributes"`
}

// PerceptionService maintains the model's cached characterization of each
// user and the dispute workflow around it.
type PerceptionService struct {
	users       ports.UserRepository
	perceptions ports.PerceptionRepository
	disputes    ports.DisputeRepository
	registry    *Registry
	consent     consentGate
	completion  ports.CompletionClient
	logger      zerolog.Logger
}

func NewPerceptionService(
	users ports.UserRepository,
	perceptions ports.PerceptionRepository,
	disputes ports.DisputeRepository,
	registry *Registry,
	consent consentGate,
	completion ports.CompletionClient,
	logger zerolog.Logger,
) *PerceptionService {
	return &PerceptionService{
		users:       users,
		perceptions: perceptions,
		disputes:    disputes,
		registry:    registry,
		consent:     consent,
		completion:  completion,
		logger:      logger,
	}
}

// Get returns the user's perception, regenerating when the cached copy is
// older than the freshness window.
func (s *PerceptionService) Get(ctx context.Context, userID string) (*domain.Perception, error) {
	existing, err := s.perceptions.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing.Fresh(time.Now().UTC()) {
		return existing, nil
	}
	return s.regenerate(ctx, userID, existing)
}

// Refresh forces regeneration regardless of freshness.
func (s *PerceptionService) Refresh(ctx context.Context, userID string) (*domain.Perception, error) {
	existing, err := s.perceptions.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.regenerate(ctx, userID, existing)
}

func (s *PerceptionService) regenerate(ctx context.Context, userID string, previous *domain.Perception) (*domain.Perception, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	allow := func(ctx context.Context, attributeID string) (bool, error) {
		return s.consent.IsAllowed(ctx, userID, attributeID)
	}
	snapshot, _ := s.registry.RunAll(ctx, user, allow)

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	resp, err := s.completion.Complete(ctx, ports.CompletionRequest{
		System:   perceptionSystemPrompt,
		Prompt:   "Customer data:\n" + string(snapshotJSON),
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var reply perceptionReply
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCompletionOutput, err)
	}
	if reply.Summary == "" {
		return nil, fmt.Errorf("%w: empty summary", domain.ErrInvalidCompletionOutput)
	}

	now := time.Now().UTC()
	perception := &domain.Perception{
		UserID:       userID,
		Summary:      reply.Summary,
		LastAnalysis: now,
	}
	for _, a := range reply.Attributes {
		attr := domain.PerceptionAttribute{
			Category:    a.Category,
			Label:       a.Label,
			Confidence:  a.Confidence,
			Evidence:    a.Evidence,
			LastUpdated: now,
			Status:      domain.PerceptionActive,
		}
		// Disputed judgements stay flagged across regenerations until
		// reviewed.
		if previous != nil && previousStatus(previous, a.Category, a.Label) == domain.PerceptionDisputed {
			attr.Status = domain.PerceptionDisputed
		}
		perception.Attributes = append(perception.Attributes, attr)
	}

	stored, err := s.perceptions.Upsert(ctx, perception)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", userID).
		Int("attributes", len(stored.Attributes)).
		Msg("perception regenerated")
	return stored, nil
}

func previousStatus(p *domain.Perception, category, label string) string {
	for _, a := range p.Attributes {
		if a.Category == category && a.Label == label {
			return a.Status
		}
	}
	return ""
}

// Dispute flags one perception attribute as contested and records the
// objection for review.
func (s *PerceptionService) Dispute(ctx context.Context, userID string, in ports.DisputeInput) (*domain.PerceptionDispute, error) {
	if err := s.perceptions.MarkAttributeStatus(ctx, userID, in.Category, in.Label, domain.PerceptionDisputed); err != nil {
		return nil, err
	}

	dispute, err := s.disputes.Insert(ctx, &domain.PerceptionDispute{
		UserID:     userID,
		Category:   in.Category,
		Label:      in.Label,
		Reason:     in.Reason,
		Correction: in.Correction,
		Status:     "pending",
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("category", in.Category).
		Str("label", in.Label).
		Msg("perception attribute disputed")
	return dispute, nil
}

func (s *PerceptionService) Disputes(ctx context.Context, userID string) ([]*domain.PerceptionDispute, error) {
	return s.disputes.ListByUser(ctx, userID)
}
