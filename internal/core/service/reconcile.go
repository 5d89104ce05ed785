package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aryan4codes/EthicalBank/internal/core/catalog"
	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// modelReply is the JSON object the completion model is instructed to emit.
// Confidence and reasoning are optional; models omit them often enough that
// their absence is not an error.
type modelReply struct {
	Response       string   `json:"response"`
	AttributesUsed []string `json:"attributes_used"`
	Confidence     *float64 `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
}

// parseModelReply decodes the model's answer, tolerating a markdown code
// fence around the JSON (models in JSON mode still occasionally wrap their
// output).
func parseModelReply(raw string) (*modelReply, error) {
	cleaned := stripCodeFence(raw)
	var reply modelReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCompletionOutput, err)
	}
	if reply.Response == "" {
		return nil, fmt.Errorf("%w: empty response field", domain.ErrInvalidCompletionOutput)
	}
	return &reply, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// reconcileAttributes validates the model's self-reported attribute usage
// against the ground truth of what was actually read. A reported identifier
// is kept when it was actually accessed, or when it at least carries a known
// category prefix (the model describing a tracked collection in more detail
// than we recorded). Every actually-accessed attribute is then force-added:
// the model forgetting to mention a read never erases it from the record.
func reconcileAttributes(reported, accessed []string) []string {
	accessedSet := make(map[string]struct{}, len(accessed))
	for _, id := range accessed {
		accessedSet[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	var validated []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		validated = append(validated, id)
	}

	for _, id := range reported {
		if _, ok := accessedSet[id]; ok {
			add(id)
			continue
		}
		if catalog.KnownPrefix(id) {
			add(id)
		}
	}
	for _, id := range accessed {
		add(id)
	}
	return validated
}

// validationStatus compares the final disclosed attribute set with the
// ground-truth accessed set. Only true set equality counts as matched;
// equal sizes with different members are partial.
func validationStatus(final, accessed []string) domain.ValidationStatus {
	if len(final) != len(accessed) {
		return domain.ValidationPartial
	}
	set := make(map[string]struct{}, len(final))
	for _, id := range final {
		set[id] = struct{}{}
	}
	for _, id := range accessed {
		if _, ok := set[id]; !ok {
			return domain.ValidationPartial
		}
	}
	return domain.ValidationMatched
}
