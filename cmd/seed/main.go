package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"imogest/internal/database"
	"imogest/internal/domain"
	"imogest/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "imogest.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	ctx := context.Background()

	declRepo := repository.NewDeclarationRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	userRepo := repository.NewUserRepository(db)

	log.Println("Running AutoMigrate...")
	for _, m := range []interface{ Migrate() error }{
		declRepo, notifRepo, prefRepo, providerRepo, userRepo,
	} {
		if err := m.Migrate(); err != nil {
			log.Fatal("AutoMigrate failed:", err)
		}
	}

	// Default channel preferences (singleton)
	prefs := domain.DefaultPreferences()
	if err := prefRepo.Upsert(ctx, prefs); err != nil {
		log.Fatal("Seeding preferences failed:", err)
	}

	// Back-office admin account
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "change-me-admin"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	admin := &domain.User{
		Email:        "admin@imogest.pt",
		PasswordHash: string(hash),
		Name:         "Administrador",
		Role:         domain.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Println("Admin user already exists or insert failed:", err)
	}

	// Sample providers
	providers := []domain.ServiceProvider{
		{
			CompanyName:  "Electro Lisboa Lda",
			ContactName:  "João Ferreira",
			Email:        "geral@electrolisboa.pt",
			Phone:        "+351 210 000 001",
			WorkCategory: "electrical",
			City:         "Lisboa",
		},
		{
			CompanyName:  "Canalizações do Tejo",
			ContactName:  "Ana Ribeiro",
			Email:        "contacto@canalizacoestejo.pt",
			Phone:        "+351 210 000 002",
			WorkCategory: "plumbing",
			City:         "Almada",
		},
		{
			CompanyName:  "Clima & Conforto",
			Email:        "suporte@climaconforto.pt",
			Phone:        "+351 210 000 003",
			WorkCategory: "hvac",
			City:         "Lisboa",
		},
	}
	for i := range providers {
		if err := providerRepo.Create(ctx, &providers[i]); err != nil {
			log.Println("Provider insert failed:", err)
		}
	}

	log.Println("Seed complete.")
}
