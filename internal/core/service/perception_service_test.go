package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

const perceptionReplyJSON = `{"summary": "A cautious saver.", "attributes": [{"category": "saving", "label": "frugal", "confidence": 0.8, "evidence": ["high savings rate"]}]}`

func perceptionFixture(completion *stubCompletion) (*PerceptionService, *stubUserRepo, *stubPerceptionRepo, *stubDisputeRepo) {
	users := newStubUserRepo()
	perceptions := newStubPerceptionRepo()
	disputes := &stubDisputeRepo{}
	registry := NewRegistry(discardLogger, NewUserExtractor())
	svc := NewPerceptionService(users, perceptions, disputes, registry, denyAttributes(), completion, discardLogger)
	return svc, users, perceptions, disputes
}

func TestPerceptionGet_ServesFreshCopy(t *testing.T) {
	completion := &stubCompletion{content: perceptionReplyJSON}
	svc, users, perceptions, _ := perceptionFixture(completion)
	user := users.seed(&domain.User{ExternalID: "auth0|fresh"})
	perceptions.byUser[user.ID] = &domain.Perception{
		UserID:       user.ID,
		Summary:      "cached view",
		LastAnalysis: time.Now().UTC().Add(-1 * time.Hour),
	}

	p, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Summary != "cached view" {
		t.Errorf("summary: got %q", p.Summary)
	}
	if len(completion.requests) != 0 {
		t.Error("a fresh perception must not call the model")
	}
}

func TestPerceptionGet_RegeneratesStaleCopy(t *testing.T) {
	completion := &stubCompletion{content: perceptionReplyJSON}
	svc, users, perceptions, _ := perceptionFixture(completion)
	user := users.seed(&domain.User{ExternalID: "auth0|stale"})
	perceptions.byUser[user.ID] = &domain.Perception{
		UserID:       user.ID,
		Summary:      "stale view",
		LastAnalysis: time.Now().UTC().Add(-48 * time.Hour),
	}

	p, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Summary != "A cautious saver." {
		t.Errorf("summary: got %q", p.Summary)
	}
	if len(p.Attributes) != 1 || p.Attributes[0].Label != "frugal" {
		t.Errorf("attributes: %+v", p.Attributes)
	}
	if p.Attributes[0].Status != domain.PerceptionActive {
		t.Errorf("status: got %q", p.Attributes[0].Status)
	}
	if len(completion.requests) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(completion.requests))
	}
	if stored := perceptions.byUser[user.ID]; stored.Summary != "A cautious saver." {
		t.Error("regenerated perception was not persisted")
	}
}

func TestPerceptionGet_FirstContactGenerates(t *testing.T) {
	completion := &stubCompletion{content: perceptionReplyJSON}
	svc, users, _, _ := perceptionFixture(completion)
	user := users.seed(&domain.User{ExternalID: "auth0|new"})

	p, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Summary != "A cautious saver." {
		t.Errorf("summary: got %q", p.Summary)
	}
}

func TestPerceptionRefresh_IgnoresFreshness(t *testing.T) {
	completion := &stubCompletion{content: perceptionReplyJSON}
	svc, users, perceptions, _ := perceptionFixture(completion)
	user := users.seed(&domain.User{ExternalID: "auth0|force"})
	perceptions.byUser[user.ID] = &domain.Perception{
		UserID:       user.ID,
		Summary:      "cached view",
		LastAnalysis: time.Now().UTC(),
	}

	p, err := svc.Refresh(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Summary != "A cautious saver." {
		t.Errorf("summary: got %q", p.Summary)
	}
	if len(completion.requests) != 1 {
		t.Errorf("expected 1 completion call, got %d", len(completion.requests))
	}
}

func TestPerceptionRegenerate_CarriesDisputedStatus(t *testing.T) {
	completion := &stubCompletion{content: perceptionReplyJSON}
	svc, users, perceptions, _ := perceptionFixture(completion)
	user := users.seed(&domain.User{ExternalID: "auth0|disputed"})
	perceptions.byUser[user.ID] = &domain.Perception{
		UserID:       user.ID,
		Summary:      "stale view",
		LastAnalysis: time.Now().UTC().Add(-48 * time.Hour),
		Attributes: []domain.PerceptionAttribute{
			{Category: "saving", Label: "frugal", Status: domain.PerceptionDisputed},
		},
	}

	p, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Attributes[0].Status != domain.PerceptionDisputed {
		t.Errorf("disputed judgement must stay flagged, got %q", p.Attributes[0].Status)
	}
}

func TestPerceptionRegenerate_EmptySummaryRejected(t *testing.T) {
	completion := &stubCompletion{content: `{"summary": "", "attributes": []}`}
	svc, users, _, _ := perceptionFixture(completion)
	user := users.seed(&domain.User{ExternalID: "auth0|empty"})

	_, err := svc.Refresh(context.Background(), user.ID)
	if !errors.Is(err, domain.ErrInvalidCompletionOutput) {
		t.Errorf("expected ErrInvalidCompletionOutput, got %v", err)
	}
}

func TestPerceptionRegenerate_CompletionFailure(t *testing.T) {
	completion := &stubCompletion{err: domain.ErrCompletionUnavailable}
	svc, users, perceptions, _ := perceptionFixture(completion)
	user := users.seed(&domain.User{ExternalID: "auth0|down"})

	_, err := svc.Refresh(context.Background(), user.ID)
	if !errors.Is(err, domain.ErrCompletionUnavailable) {
		t.Errorf("expected ErrCompletionUnavailable, got %v", err)
	}
	if perceptions.byUser[user.ID] != nil {
		t.Error("failed regeneration must not persist a perception")
	}
}

func TestDispute_MarksAttributeAndRecordsObjection(t *testing.T) {
	svc, users, perceptions, disputes := perceptionFixture(&stubCompletion{content: perceptionReplyJSON})
	user := users.seed(&domain.User{ExternalID: "auth0|objector"})
	perceptions.byUser[user.ID] = &domain.Perception{
		UserID:       user.ID,
		Summary:      "view",
		LastAnalysis: time.Now().UTC(),
		Attributes: []domain.PerceptionAttribute{
			{Category: "risk", Label: "impulsive", Status: domain.PerceptionActive},
		},
	}

	dispute, err := svc.Dispute(context.Background(), user.ID, ports.DisputeInput{
		Category:   "risk",
		Label:      "impulsive",
		Reason:     "one-off purchase",
		Correction: "usually plans ahead",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispute.Status != "pending" {
		t.Errorf("dispute status: got %q", dispute.Status)
	}
	if got := perceptions.byUser[user.ID].Attributes[0].Status; got != domain.PerceptionDisputed {
		t.Errorf("attribute status: got %q", got)
	}
	if len(disputes.disputes) != 1 {
		t.Errorf("expected 1 recorded dispute, got %d", len(disputes.disputes))
	}
}

func TestDispute_UnknownAttribute(t *testing.T) {
	svc, users, perceptions, disputes := perceptionFixture(&stubCompletion{})
	user := users.seed(&domain.User{ExternalID: "auth0|confused"})
	perceptions.byUser[user.ID] = &domain.Perception{UserID: user.ID, Summary: "view"}

	_, err := svc.Dispute(context.Background(), user.ID, ports.DisputeInput{Category: "risk", Label: "impulsive"})
	if !errors.Is(err, domain.ErrPerceptionAttributeNotFound) {
		t.Errorf("expected ErrPerceptionAttributeNotFound, got %v", err)
	}
	if len(disputes.disputes) != 0 {
		t.Error("no dispute must be recorded when the attribute is unknown")
	}
}
