package domain

import "time"

// PermissionSet is one user's consent table: attribute identifier → allowed.
type PermissionSet struct {
	ID          string          `json:"id" bson:"-"`
	UserID      string          `json:"user_id" bson:"user_id"`
	Permissions map[string]bool `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

// Allows reports whether the attribute may be disclosed. Missing entries
// default to allowed: the consent model is deliberately fail-open, a product
// decision (users opt out, not in) rather than an implementation accident.
func (p *PermissionSet) Allows(attributeID string) bool {
	if p == nil || p.Permissions == nil {
		return true
	}
	allowed, ok := p.Permissions[attributeID]
	if !ok {
		return true
	}
	return allowed
}

// Consent record states.
const (
	ConsentGranted = "granted"
	ConsentRevoked = "revoked"
	ConsentExpired = "expired"
)

// ConsentMetadata records the channel a consent change arrived through.
type ConsentMetadata struct {
	Source    string `json:"source" bson:"source"`
	IPAddress string `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
}

// ConsentRecord is one append-only entry in the consent history. DataTypes
// lists the attribute identifiers explicitly granted in that change.
type ConsentRecord struct {
	ID          string          `json:"id" bson:"-"`
	UserID      string          `json:"user_id" bson:"user_id"`
	ConsentType string          `json:"consent_type" bson:"consent_type"`
	Status      string          `json:"status" bson:"status"`
	Purpose     string          `json:"purpose" bson:"purpose"`
	DataTypes   []string        `json:"data_types" bson:"data_types"`
	Metadata    ConsentMetadata `json:"metadata" bson:"metadata"`
	Version     string          `json:"version" bson:"version"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}
