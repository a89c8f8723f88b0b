package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/trananhdev/meeting-minutes/internal/adapter/repository"
	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/internal/infrastructure/database"
	"github.com/trananhdev/meeting-minutes/pkg/config"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant identifier (required)")
	accountID := flag.String("account", "", "provider account ID")
	clientID := flag.String("client-id", "", "provider OAuth client ID")
	clientSecret := flag.String("client-secret", "", "provider OAuth client secret")
	webhookSecret := flag.String("webhook-secret", "", "webhook signing secret (required)")
	flag.Parse()

	if *tenantID == "" || *webhookSecret == "" {
		log.Fatal("both -tenant and -webhook-secret are required")
	}

	log.Println("🚀 Seeding tenant credentials...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	credRepo := repository.NewCredentialRepository(db)

	cred := entities.NewTenantCredential(*tenantID, *accountID, *clientID, *clientSecret, *webhookSecret)
	if err := credRepo.Upsert(context.Background(), cred); err != nil {
		log.Fatalf("❌ Failed to upsert credentials for %s: %v", *tenantID, err)
	}

	log.Printf("✅ Active credentials stored for tenant %s", *tenantID)

	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Printf("Tenant ID:     %s\n", cred.TenantID)
	fmt.Printf("Credential ID: %s\n", cred.ID)
	fmt.Printf("Account ID:    %s\n", cred.ProviderAccountID)
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Printf("\n💡 Webhook endpoint: POST /v1/webhooks/%s\n", cred.TenantID)
	fmt.Println("   Sign request bodies with HMAC-SHA256 using the webhook secret.")
}
