package entities

import (
	"time"

	"github.com/google/uuid"
)

// TenantCredential holds a tenant's provider API credentials and webhook
// signing secret. At most one active row per tenant; the reserved system
// tenant is served from process configuration instead of this table.
// Secret fields must never be logged in plaintext.
type TenantCredential struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID             string    `json:"tenant_id" gorm:"type:varchar(255);not null;index"`
	ProviderAccountID    string    `json:"provider_account_id" gorm:"type:varchar(255);not null"`
	ProviderClientID     string    `json:"provider_client_id" gorm:"type:varchar(255);not null"`
	ProviderClientSecret string    `json:"-" gorm:"type:text;not null"`
	WebhookSigningSecret string    `json:"-" gorm:"type:text;not null"`
	Active               bool      `json:"active" gorm:"not null;default:true;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewTenantCredential creates an active credential set for a tenant
func NewTenantCredential(tenantID, accountID, clientID, clientSecret, webhookSecret string) *TenantCredential {
	return &TenantCredential{
		ID:                   uuid.New(),
		TenantID:             tenantID,
		ProviderAccountID:    accountID,
		ProviderClientID:     clientID,
		ProviderClientSecret: clientSecret,
		WebhookSigningSecret: webhookSecret,
		Active:               true,
	}
}

// TableName specifies the table name for GORM
func (TenantCredential) TableName() string {
	return "tenant_credentials"
}

// Redacted returns a copy safe for logging
func (c TenantCredential) Redacted() map[string]string {
	return map[string]string{
		"tenant_id":           c.TenantID,
		"provider_account_id": c.ProviderAccountID,
		"provider_client_id":  c.ProviderClientID,
	}
}
