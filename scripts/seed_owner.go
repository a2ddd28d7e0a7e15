package main

import (
	"context"
	"fmt"
	"log"

	"github.com/khoahotran/soundfolio/adapters/persistence"
	authUC "github.com/khoahotran/soundfolio/internal/application/usecase/auth"
	"github.com/khoahotran/soundfolio/internal/config"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

func main() {
	fmt.Println("adding owner into database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	created, err := authUC.EnsureOwner(ctx, persistence.NewPostgresUserRepo(pool, appLogger), authUC.OwnerInput{
		Email:    cfg.Owner.Email,
		Password: cfg.Owner.Password,
		Name:     cfg.Owner.Name,
	})
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	if created {
		fmt.Printf("added owner '%s' successfully!\n", cfg.Owner.Email)
		return
	}
	fmt.Printf("owner '%s' already exists\n", cfg.Owner.Email)
}
