package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/pkg/config"
)

type fakeCredRepo struct {
	creds map[string]*entities.TenantCredential
	err   error
}

func (f *fakeCredRepo) GetActiveByTenantID(_ context.Context, tenantID string) (*entities.TenantCredential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.creds[tenantID], nil
}

func (f *fakeCredRepo) Upsert(_ context.Context, cred *entities.TenantCredential) error {
	if f.creds == nil {
		f.creds = make(map[string]*entities.TenantCredential)
	}
	f.creds[cred.TenantID] = cred
	return nil
}

func testProviderConfig() *config.ProviderConfig {
	return &config.ProviderConfig{
		SystemTenantID: "system",
		AccountID:      "env-account",
		ClientID:       "env-client",
		ClientSecret:   "env-secret",
		WebhookSecret:  "env-webhook-secret",
	}
}

func TestResolve_SystemTenantUsesConfig(t *testing.T) {
	resolver := NewResolver(&fakeCredRepo{}, testProviderConfig(), nil)

	creds, err := resolver.Resolve(context.Background(), "system")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if creds.WebhookSecret != "env-webhook-secret" {
		t.Errorf("system tenant should use process config, got %q", creds.WebhookSecret)
	}
}

func TestResolve_TenantFromStore(t *testing.T) {
	repo := &fakeCredRepo{creds: map[string]*entities.TenantCredential{
		"acme": {
			TenantID:             "acme",
			ProviderAccountID:    "acct-1",
			ProviderClientID:     "client-1",
			ProviderClientSecret: "cs-1",
			WebhookSigningSecret: "ws-1",
			Active:               true,
		},
	}}
	resolver := NewResolver(repo, testProviderConfig(), nil)

	creds, err := resolver.Resolve(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if creds.WebhookSecret != "ws-1" || creds.AccountID != "acct-1" {
		t.Errorf("unexpected credentials %+v", creds)
	}
}

func TestResolve_NotConfigured(t *testing.T) {
	resolver := NewResolver(&fakeCredRepo{}, testProviderConfig(), nil)

	_, err := resolver.Resolve(context.Background(), "unknown-tenant")
	if !errors.Is(err, entities.ErrTenantNotConfigured) {
		t.Fatalf("expected ErrTenantNotConfigured, got %v", err)
	}
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	resolver := NewResolver(&fakeCredRepo{err: boom}, testProviderConfig(), nil)

	_, err := resolver.Resolve(context.Background(), "acme")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
