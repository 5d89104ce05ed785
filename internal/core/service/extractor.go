package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// Query types routed by keyword matching. Priority is the slice order in
// queryTypeRules: the first rule with a matching keyword wins.
const (
	QueryTypeLoan        = "loan"
	QueryTypeGoal        = "goal"
	QueryTypeAccount     = "account"
	QueryTypeTransaction = "transaction"
	QueryTypeOffer       = "offer"
	QueryTypeExplanation = "explanation"
	QueryTypeGeneral     = "general"
)

type queryTypeRule struct {
	queryType string
	keywords  []string
}

var queryTypeRules = []queryTypeRule{
	{QueryTypeLoan, []string{"loan", "borrow", "lend", "eligibility"}},
	{QueryTypeGoal, []string{"goal", "target"}},
	{QueryTypeAccount, []string{"account", "balance", "savings", "checking"}},
	{QueryTypeTransaction, []string{"transaction", "spending", "payment", "purchase"}},
	{QueryTypeOffer, []string{"offer", "promotion", "discount", "deal"}},
	{QueryTypeExplanation, []string{"explain", "what", "how", "why", "profile"}},
}

// classifyQuery maps a free-text query to a query type by case-insensitive
// substring matching against the rule table.
func classifyQuery(query string) string {
	q := strings.ToLower(query)
	for _, rule := range queryTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.queryType
			}
		}
	}
	return QueryTypeGeneral
}

// AccessTrail accumulates the attribute identifiers actually read while
// assembling one query's context. It is request-scoped: each query gets a
// fresh trail, so concurrent queries can never see each other's reads.
type AccessTrail struct {
	seen map[string]struct{}
	ids  []string
}

func NewAccessTrail() *AccessTrail {
	return &AccessTrail{seen: make(map[string]struct{})}
}

// Record notes one attribute read. Duplicates are ignored.
func (t *AccessTrail) Record(attributeID string) {
	if _, ok := t.seen[attributeID]; ok {
		return
	}
	t.seen[attributeID] = struct{}{}
	t.ids = append(t.ids, attributeID)
}

// IDs returns the recorded identifiers in first-read order.
func (t *AccessTrail) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Contains reports whether the identifier was recorded.
func (t *AccessTrail) Contains(attributeID string) bool {
	_, ok := t.seen[attributeID]
	return ok
}

// allowFunc answers whether one attribute may be disclosed for the user the
// trail belongs to.
type allowFunc func(ctx context.Context, attributeID string) (bool, error)

// Extractor assembles one section of the data snapshot handed to the model.
// Implementations consult the allow function before reading any attribute
// and record every read on the trail.
type Extractor interface {
	// Name is the snapshot section key the extractor writes under.
	Name() string
	// Keywords trigger the extractor; an empty list means it always runs.
	Keywords() []string
	Extract(ctx context.Context, user *domain.User, allow allowFunc, snapshot map[string]any, trail *AccessTrail) error
}

// Registry holds the extractor set and runs the matching subset for a query.
type Registry struct {
	extractors []Extractor
	logger     zerolog.Logger
}

func NewRegistry(logger zerolog.Logger, extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors, logger: logger}
}

// Run executes every extractor whose keywords match the query (always-on
// extractors included) and returns the assembled snapshot plus the trail of
// attributes read. A failing extractor is logged and skipped; its section is
// simply absent from the snapshot and the rest of the pipeline proceeds.
func (r *Registry) Run(ctx context.Context, user *domain.User, query string, allow allowFunc) (map[string]any, *AccessTrail) {
	return r.run(ctx, user, strings.ToLower(query), false, allow)
}

// RunAll executes every extractor regardless of keywords. Used when the full
// consented picture is wanted, not a query-shaped slice of it.
func (r *Registry) RunAll(ctx context.Context, user *domain.User, allow allowFunc) (map[string]any, *AccessTrail) {
	return r.run(ctx, user, "", true, allow)
}

func (r *Registry) run(ctx context.Context, user *domain.User, loweredQuery string, all bool, allow allowFunc) (map[string]any, *AccessTrail) {
	snapshot := make(map[string]any)
	trail := NewAccessTrail()

	for _, ext := range r.extractors {
		if !all && !matches(loweredQuery, ext.Keywords()) {
			continue
		}
		// Each extractor records its reads on a scratch trail that is only
		// merged once the extractor succeeds. A failed extractor contributes
		// neither a snapshot section nor access records, so the audit never
		// lists attributes whose data was discarded.
		scratch := NewAccessTrail()
		if err := ext.Extract(ctx, user, allow, snapshot, scratch); err != nil {
			r.logger.Error().
				Err(err).
				Str("extractor", ext.Name()).
				Str("user_id", user.ID).
				Msg("extractor failed, section skipped")
			delete(snapshot, ext.Name())
			continue
		}
		for _, id := range scratch.IDs() {
			trail.Record(id)
		}
	}

	return snapshot, trail
}

func matches(loweredQuery string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(loweredQuery, kw) {
			return true
		}
	}
	return false
}
