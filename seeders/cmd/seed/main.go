package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"local-branch/internal/dto"
	"local-branch/internal/repositories"
	"local-branch/internal/services"
	"local-branch/pkg/config"
	"local-branch/pkg/database/postgresql"
	"local-branch/pkg/service"
	"local-branch/seeders"

	"go.uber.org/zap"
)

func main() {
	runDemo := flag.Bool("demo", false, "Create a demo local branch (SEED_* variables)")
	hashPassword := flag.String("hash", "", "Print a bcrypt hash of the given password and exit")
	flag.Parse()

	cfg := config.New()

	if *hashPassword != "" {
		hash, err := service.NewPasswordHasher(cfg.Auth.BcryptCost).Hash(*hashPassword)
		if err != nil {
			log.Fatalf("❌ Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	if !*runDemo {
		log.Println("❌ No seeder selected.")
		log.Println("Available flags:")
		flag.PrintDefaults()
		log.Println("Examples:")
		log.Println("  go run ./seeders/cmd/seed -demo")
		log.Println("  go run ./seeders/cmd/seed -hash 'Password123!'")
		return
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		log.Fatal("❌ SEED_PASSWORD is required for -demo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("❌ Failed to connect to postgres: %v", err)
	}
	defer dbPool.Close()

	if err := postgresql.RunMigrations(ctx, dbPool); err != nil {
		log.Fatalf("❌ Failed to apply migrations: %v", err)
	}

	logger := zap.NewNop()
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.TokenTTL, logger)
	authService := services.NewAuthService(hasher, jwtSvc, nil, logger, &cfg.Auth)
	branchService := services.NewLocalBranchService(
		repositories.NewLocalBranchRepository(dbPool, logger),
		repositories.NewTxManager(dbPool),
		authService,
		logger,
	)

	var phone *string
	if p := os.Getenv("SEED_PHONE"); p != "" {
		phone = &p
	}
	payload := dto.CreateLocalBranchDTO{
		UserID:     getEnv("SEED_USER_ID", "demo-branch"),
		BranchName: getEnv("SEED_BRANCH_NAME", "Demo branch"),
		BranchCode: getEnv("SEED_BRANCH_CODE", "DEMO-001"),
		Email:      getEnv("SEED_EMAIL", "demo.branch@example.com"),
		Password:   password,
		Phone:      phone,
	}

	if _, err := seeders.SeedDemoBranch(ctx, branchService, payload); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✅ Seeding finished.")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
