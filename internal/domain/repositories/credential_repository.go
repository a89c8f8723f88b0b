package repositories

import (
	"context"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// CredentialRepository defines read/write access to tenant credentials.
// Writes come from the (out of scope) tenant administration surface; the
// pipeline only reads.
type CredentialRepository interface {
	// GetActiveByTenantID returns the tenant's single active credential
	// set, or nil when none exists.
	GetActiveByTenantID(ctx context.Context, tenantID string) (*entities.TenantCredential, error)

	// Upsert replaces the tenant's active credential set, deactivating
	// any previous row.
	Upsert(ctx context.Context, cred *entities.TenantCredential) error
}
