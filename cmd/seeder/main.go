package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"grocery-admin/internal/config"
	"grocery-admin/internal/seed"
	"grocery-admin/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Printf("Warning: failed to close storage: %v", err)
		}
	}()

	seeder := seed.New(store.Repos, seed.Options{
		AdminName:     cfg.Seed.AdminName,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		Buyers:        cfg.Seed.Buyers,
		Orders:        cfg.Seed.Orders,
		RandSeed:      cfg.Seed.RandSeed,
	})
	results, err := seeder.Run(ctx)
	if err != nil {
		log.Fatalf("[Seeder] %v", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Seeder", "Dibuat", "Dilewati")
	for _, r := range results {
		if err := table.Append([]string{r.Name, strconv.Itoa(r.Created), strconv.Itoa(r.Skipped)}); err != nil {
			log.Fatal(err)
		}
	}
	if err := table.Render(); err != nil {
		log.Fatal(err)
	}
}
