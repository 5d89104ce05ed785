package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

const chatSystemPrompt = `You are a helpful banking assistant for EthicalBank. Answer the user's question using ONLY the customer data provided in the context. Be concise, accurate, and never invent figures.

Respond with a single JSON object of the form:
{"response": "<your answer>", "attributes_used": ["<attribute id>", ...], "confidence": <0.0-1.0>, "reasoning": "<one sentence on how you arrived at the answer>"}

attributes_used must list the dotted identifiers of every piece of customer data you relied on (e.g. "user.income", "accounts.balance"). List an attribute only if you actually used it. confidence and reasoning are optional but preferred.`

// consentGate is the slice of the consent service the query pipeline needs.
type consentGate interface {
	IsAllowed(ctx context.Context, userID, attributeID string) (bool, error)
	Filter(ctx context.Context, userID string, attributeIDs []string) ([]string, error)
}

// ChatService runs the query-answering pipeline: route the query, extract
// consent-filtered data, call the model, reconcile its self-reported
// attribute usage against the ground truth, and write the audit record.
type ChatService struct {
	users      ports.UserRepository
	consent    consentGate
	registry   *Registry
	completion ports.CompletionClient
	audit      ports.AuditRepository
	logger     zerolog.Logger
}

func NewChatService(
	users ports.UserRepository,
	consent consentGate,
	registry *Registry,
	completion ports.CompletionClient,
	audit ports.AuditRepository,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		users:      users,
		consent:    consent,
		registry:   registry,
		completion: completion,
		audit:      audit,
		logger:     logger,
	}
}

func (s *ChatService) AnswerQuery(ctx context.Context, in ports.AnswerQueryInput) (*ports.AnswerQueryResult, error) {
	start := time.Now()

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// 1. Route the query by keyword.
	queryType := classifyQuery(in.Query)

	// 2. Assemble the data snapshot. Only consented attributes are read, and
	// every read lands on the trail.
	allow := func(ctx context.Context, attributeID string) (bool, error) {
		return s.consent.IsAllowed(ctx, user.ID, attributeID)
	}
	snapshot, trail := s.registry.Run(ctx, user, in.Query, allow)
	accessed := trail.IDs()

	// 3. Ask the model, JSON mode.
	contextJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	resp, err := s.completion.Complete(ctx, ports.CompletionRequest{
		System:   chatSystemPrompt,
		Prompt:   "Customer data:\n" + string(contextJSON) + "\n\nQuestion: " + in.Query,
		JSONMode: true,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Str("query_type", queryType).Msg("completion failed")
		return nil, err
	}

	reply, err := parseModelReply(resp.Content)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Str("raw", resp.Content).Msg("unparseable completion output")
		return nil, err
	}

	// 4. Reconcile the model's claims against the ground truth, then apply
	// consent to the final disclosed set.
	validated := reconcileAttributes(reply.AttributesUsed, accessed)
	final, err := s.consent.Filter(ctx, user.ID, validated)
	if err != nil {
		return nil, err
	}
	status := validationStatus(final, accessed)

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	// 5. Audit. One immutable record per completed transaction.
	entry, err := s.audit.Insert(ctx, &domain.QueryLog{
		UserID:              user.ID,
		QueryType:           queryType,
		QueryText:           in.Query,
		AttributesAccessed:  accessed,
		Snapshot:            snapshot,
		Model:               resp.Model,
		ModelRawOutput:      resp.Content,
		AttributesReported:  reply.AttributesUsed,
		AttributesValidated: final,
		ValidationStatus:    status,
		Timestamp:           time.Now().UTC(),
		ProcessingTimeMs:    elapsed,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to write audit record")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("query_type", queryType).
		Int("attributes_accessed", len(accessed)).
		Str("validation_status", string(status)).
		Float64("processing_ms", elapsed).
		Msg("query answered")

	return &ports.AnswerQueryResult{
		Response:            reply.Response,
		QueryType:           queryType,
		AttributesAccessed:  accessed,
		AttributesReported:  reply.AttributesUsed,
		AttributesValidated: final,
		ValidationStatus:    status,
		Confidence:          reply.Confidence,
		AuditID:             entry.ID,
		ProcessingTimeMs:    elapsed,
	}, nil
}

func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]*domain.QueryLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.audit.ListByUser(ctx, userID, limit)
}
