// File: cmd/seed/main.go
// Seeds a local database with a customer, a few translators and an open job,
// then prints bearer tokens for poking the API by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"translator-booking/internal/config"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/repository"
	pg "translator-booking/internal/infra/db/postgres"
	"translator-booking/internal/infra/web"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	users := pg.NewUserRepo(pool)
	jobs := pg.NewJobRepo(pool)
	auth := web.NewAuthManager(cfg.Server.JWTSecret, 24*time.Hour)

	seedUsers := []*model.User{
		{ID: "seed-customer", Role: model.RoleCustomer, Name: "Seed Customer", Email: "customer@example.test", Phone: "+46700000001", RegisteredAt: time.Now()},
		{ID: "seed-admin", Role: model.RoleAdmin, Name: "Seed Admin", Email: "admin@example.test", Phone: "+46700000002", RegisteredAt: time.Now()},
		{ID: "seed-t1", Role: model.RoleTranslator, Name: "Translator One", Email: "t1@example.test", Phone: "+46700000003", Languages: []string{"english", "swedish"}, RegisteredAt: time.Now()},
		{ID: "seed-t2", Role: model.RoleTranslator, Name: "Translator Two", Email: "t2@example.test", Phone: "+46700000004", Languages: []string{"english", "swedish", "arabic"}, RegisteredAt: time.Now()},
	}
	for _, u := range seedUsers {
		if err := users.Save(ctx, repository.NoTX, u); err != nil {
			log.Fatalf("seed user %s: %v", u.ID, err)
		}
	}

	job := &model.Job{
		ID:           model.NewJobID(),
		Status:       model.JobStatusOpen,
		CustomerID:   "seed-customer",
		FromLanguage: "english",
		ToLanguage:   "swedish",
		DueAt:        time.Now().Add(48 * time.Hour),
		Duration:     60,
		CreatedAt:    time.Now(),
	}
	if err := jobs.Save(ctx, repository.NoTX, job); err != nil {
		log.Fatalf("seed job: %v", err)
	}

	fmt.Printf("seeded job %s\n", job.ID)
	for _, u := range seedUsers {
		tok, err := auth.Mint(u.ID, u.Role)
		if err != nil {
			log.Fatalf("mint token for %s: %v", u.ID, err)
		}
		fmt.Printf("%-14s %s\n", u.ID+":", tok)
	}
}
