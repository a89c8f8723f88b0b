package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// CredentialRepository handles tenant credential data operations
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetActiveByTenantID retrieves the tenant's active credential set
func (r *CredentialRepository) GetActiveByTenantID(ctx context.Context, tenantID string) (*entities.TenantCredential, error) {
	var cred entities.TenantCredential
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// Upsert replaces the tenant's active credential set inside one
// transaction, keeping the exactly-one-active-row invariant
func (r *CredentialRepository) Upsert(ctx context.Context, cred *entities.TenantCredential) error {
	if cred == nil {
		return errors.New("credential cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.TenantCredential{}).
			Where("tenant_id = ? AND active = ?", cred.TenantID, true).
			Updates(map[string]interface{}{
				"active":     false,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		cred.Active = true
		return tx.Create(cred).Error
	})
}
