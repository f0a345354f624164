package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"standvirtual-scraper/config"
	"standvirtual-scraper/services"
	"standvirtual-scraper/storage"
	"standvirtual-scraper/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Default()

	queriesFlag := flag.String("queries", "",
		"Semicolon-separated free-text car queries (default: two sample queries)")
	workers := flag.Int("workers", cfg.Workers,
		"Concurrent searches (each worker owns a full browser process)")
	outFile := flag.String("out", cfg.OutFile,
		"Output JSON filename")
	headless := flag.Bool("headless", cfg.Headless,
		"Run Chrome headless (false = visible window)")
	saveDB := flag.Bool("save-db", cfg.SaveToDB,
		"Also upsert listings into PostgreSQL")
	flag.Parse()

	if *queriesFlag != "" {
		cfg.Queries = splitQueries(*queriesFlag)
	}
	cfg.Workers = *workers
	cfg.OutFile = *outFile
	cfg.Headless = *headless
	cfg.SaveToDB = *saveDB

	log.Printf("╔═══════════════════════════════════════════════════╗")
	log.Printf("║        Standvirtual Car Search (Concurrent)       ║")
	log.Printf("╚═══════════════════════════════════════════════════╝")
	log.Printf("Queries  : %s", strings.Join(cfg.Queries, " | "))
	log.Printf("Workers  : %d (one browser process each)", cfg.Workers)
	log.Printf("Output   : %s", cfg.OutFile)
	if cfg.SaveToDB {
		log.Printf("Postgres : %s:%d/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	}

	rootCtx, cancelRoot := context.WithTimeout(context.Background(), cfg.GlobalTimeout)
	defer cancelRoot()

	results := services.RunAll(rootCtx, cfg)

	total, err := utils.WriteJSON(cfg.OutFile, results)
	if err != nil {
		log.Fatalf("✗ Failed to write JSON: %v", err)
	}

	if cfg.SaveToDB {
		store, err := storage.NewPostgresStore(cfg)
		if err != nil {
			log.Fatalf("✗ Failed to connect to PostgreSQL: %v", err)
		}
		defer store.Close()

		dbCtx, cancelDB := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelDB()
		saved, err := store.SaveResults(dbCtx, results)
		if err != nil {
			log.Fatalf("✗ Failed to store listings in PostgreSQL: %v", err)
		}
		log.Printf("  DB   — %d listings upserted → cars table", saved)
	}

	log.Printf("═══════════════════════════════════════════════════")
	log.Printf("  DONE — %d total listings → %s", total, cfg.OutFile)
	for _, r := range results {
		status := fmt.Sprintf("%d listings", len(r.Cars))
		if r.Err != nil {
			status = "ERROR: " + r.Err.Error()
		}
		log.Printf("    %-40s %s", r.Query, status)
		if r.Summary != "" {
			log.Printf("      ↳ %s", r.Summary)
		}
	}

	stats := utils.BuildSummaryStats(results)
	log.Printf("  STATS")
	log.Printf("    Total Listings       : %d (%d with a known price)", stats.TotalCars, stats.PricedCars)
	if stats.PricedCars > 0 {
		log.Printf("    Average Price        : %.0f EUR", stats.AveragePrice)
		log.Printf("    Price Range          : %d – %d EUR", stats.MinimumPrice, stats.MaximumPrice)
		log.Printf("    Cheapest Listing     : %s | %d EUR", stats.CheapestCar.Title, stats.CheapestCar.Price)
	}
	log.Printf("    Listings per Fuel")
	for _, fc := range stats.CarsPerFuel {
		log.Printf("      - %s: %d", fc.Fuel, fc.Count)
	}
	log.Printf("    Newest Listings")
	for i, car := range stats.NewestCars {
		log.Printf("      %d) %d | %s", i+1, car.Year, car.Title)
	}
	log.Printf("═══════════════════════════════════════════════════")
}

func splitQueries(raw string) []string {
	parts := strings.Split(raw, ";")
	queries := make([]string, 0, len(parts))
	for _, p := range parts {
		if q := strings.TrimSpace(p); q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}
