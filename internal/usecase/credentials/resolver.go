package credentials

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/domain/repositories"
	"github.com/trananhdev/meeting-minutes/pkg/config"
)

// Credentials is the resolved provider credential set for one tenant
type Credentials struct {
	TenantID      string
	AccountID     string
	ClientID      string
	ClientSecret  string
	WebhookSecret string
}

// Resolver returns the provider credentials to use for a tenant: the
// reserved system tenant maps to process-level config, everyone else to an
// active row in the credential store.
type Resolver struct {
	repo   repositories.CredentialRepository
	cfg    *config.ProviderConfig
	logger *zap.Logger
}

// NewResolver creates a credential resolver
func NewResolver(repo repositories.CredentialRepository, cfg *config.ProviderConfig, logger *zap.Logger) *Resolver {
	return &Resolver{repo: repo, cfg: cfg, logger: logger}
}

// Resolve looks up active credentials for tenantID. Returns
// entities.ErrTenantNotConfigured when no usable credentials exist; callers
// treat that as a permanent failure for the tenant.
func (r *Resolver) Resolve(ctx context.Context, tenantID string) (*Credentials, error) {
	if r.cfg != nil && tenantID == r.cfg.SystemTenantID {
		if r.cfg.WebhookSecret == "" {
			return nil, fmt.Errorf("%w: system tenant has no webhook secret", entities.ErrTenantNotConfigured)
		}
		return &Credentials{
			TenantID:      tenantID,
			AccountID:     r.cfg.AccountID,
			ClientID:      r.cfg.ClientID,
			ClientSecret:  r.cfg.ClientSecret,
			WebhookSecret: r.cfg.WebhookSecret,
		}, nil
	}

	cred, err := r.repo.GetActiveByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		if r.logger != nil {
			r.logger.Warn("⚠️ No active credentials for tenant",
				zap.String("tenant_id", tenantID),
			)
		}
		return nil, fmt.Errorf("%w: tenant %s", entities.ErrTenantNotConfigured, tenantID)
	}

	return &Credentials{
		TenantID:      cred.TenantID,
		AccountID:     cred.ProviderAccountID,
		ClientID:      cred.ProviderClientID,
		ClientSecret:  cred.ProviderClientSecret,
		WebhookSecret: cred.WebhookSigningSecret,
	}, nil
}
