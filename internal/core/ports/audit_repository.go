package ports

import (
	"context"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

// AuditRepository persists query-log audit records. Records are inserted once
// per completed query-answering transaction and never modified afterwards;
// the interface deliberately offers no update or delete.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.QueryLog) (*domain.QueryLog, error)
	// ListByUser returns the user's audit trail newest-first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.QueryLog, error)
}
