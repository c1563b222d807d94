// Package main seeds a development database with a demo account, settings
// and a day of query logs.
package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/brachiGH/firedns-dashboard/internal/config"
	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/policy"
	"github.com/brachiGH/firedns-dashboard/internal/storage"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer postgres.Close()

	ctx := context.Background()
	catalog := policy.DefaultCatalog()

	users := storage.NewUserRepository(postgres)
	settings := storage.NewSettingsRepository(postgres, catalog)
	lists := storage.NewDomainListRepository(postgres)
	links := storage.NewLinkedIPRepository(postgres)
	logs := storage.NewQueryLogRepository(postgres)

	user := &models.User{
		Name:         "Demo User",
		Email:        "demo@example.com",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Created demo user %s", user.ID)

	general := models.DefaultGeneralSettings(user.ID)
	general.ThreatIntelligence = true
	general.GoogleSafeBrowsing = true
	general.BlockCSAM = true
	if err := settings.SaveGeneral(ctx, &general); err != nil {
		log.Fatalf("Failed to seed general settings: %v", err)
	}

	privacy := models.DefaultPrivacySettings(user.ID)
	privacy.AdAway = true
	privacy.HageziMultiPro = true
	if err := settings.SavePrivacy(ctx, &privacy); err != nil {
		log.Fatalf("Failed to seed privacy settings: %v", err)
	}

	parental := policy.DefaultParentalSettings(user.ID, catalog)
	parental.BlockedApps["TikTok"] = true
	parental.BlockedApps["Fortnite"] = true
	if err := settings.SaveParental(ctx, &parental); err != nil {
		log.Fatalf("Failed to seed parental settings: %v", err)
	}

	for _, domain := range []string{"wikipedia.org", "khanacademy.org"} {
		if err := lists.Add(ctx, user.ID, types.ListAllow, domain); err != nil {
			log.Fatalf("Failed to seed allow list: %v", err)
		}
	}
	for _, domain := range []string{"ads.example.net", "tracker.example.net"} {
		if err := lists.Add(ctx, user.ID, types.ListDeny, domain); err != nil {
			log.Fatalf("Failed to seed deny list: %v", err)
		}
	}

	if _, err := links.Append(ctx, user.ID, "203.0.113.7"); err != nil {
		log.Fatalf("Failed to seed linked ip: %v", err)
	}

	if err := logs.InsertBatch(ctx, user.ID, demoLogs()); err != nil {
		log.Fatalf("Failed to seed query logs: %v", err)
	}

	log.Println("Seeding completed")
}

// demoLogs fabricates a day of plausible traffic.
func demoLogs() []models.QueryLogEntry {
	resolved := []string{
		"wikipedia.org", "news.ycombinator.com", "github.com",
		"golang.org", "khanacademy.org", "openstreetmap.org", "archive.org",
	}
	blocked := []string{
		"ads.example.net", "tracker.example.net", "www.tiktok.com",
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	var entries []models.QueryLogEntry
	for i := 0; i < 400; i++ {
		at := now.Add(-time.Duration(rng.Intn(24*60)) * time.Minute)
		if rng.Intn(100) < 20 {
			entries = append(entries, models.QueryLogEntry{
				Domain:    blocked[rng.Intn(len(blocked))],
				Timestamp: at,
				Status:    types.StatusBlocked,
			})
		} else {
			entries = append(entries, models.QueryLogEntry{
				Domain:    resolved[rng.Intn(len(resolved))],
				Timestamp: at,
				Status:    types.StatusAllowed,
			})
		}
	}
	return entries
}
