package services

import (
	"context"
	"log"

	"standvirtual-scraper/models"
)

// carSearcher is the slice of scraper.Scraper the pipeline depends on.
// Tests substitute a stub so the pool can run without browsers.
type carSearcher interface {
	Search(ctx context.Context, filter models.SearchFilter) []models.Car
	Close()
}

// ProcessQuery runs the full pipeline for one free-text query: parse the
// filter, scrape the listings, apply the filters the site URL cannot
// express, summarise. The scraper owns its own session; see RunAll for
// how instances are pooled.
func ProcessQuery(ctx context.Context, sc carSearcher, ai *GeminiClient, query string) models.QueryResult {
	result := models.QueryResult{Query: query}

	result.Filter = ai.ParseFilters(ctx, query)
	if result.Filter.IsEmpty() {
		log.Printf("[search] %q: no constraints parsed, running unconstrained search", query)
	} else {
		log.Printf("[search] %q: parsed filter %+v", query, result.Filter)
	}

	cars := sc.Search(ctx, result.Filter)
	result.Cars = Refine(result.Filter, cars)
	if dropped := len(cars) - len(result.Cars); dropped > 0 {
		log.Printf("[search] %q: refinement dropped %d of %d listings", query, dropped, len(cars))
	}

	result.Summary = ai.SummarizeResults(ctx, result.Cars)
	result.Err = ctx.Err()
	return result
}

// Refine applies the constraints Standvirtual's search URL cannot carry:
// fuel type and maximum mileage. A record with unknown (zero) mileage
// passes the km bound — only a known excess disqualifies it.
func Refine(filter models.SearchFilter, cars []models.Car) []models.Car {
	wantFuel := models.FuelOther
	if filter.Fuel != "" {
		wantFuel = models.ParseFuelLabel(filter.Fuel)
	}
	maxKm := 0
	if filter.MaxKm != nil && *filter.MaxKm > 0 {
		maxKm = *filter.MaxKm
	}
	if wantFuel == models.FuelOther && maxKm == 0 {
		return cars
	}

	kept := make([]models.Car, 0, len(cars))
	for _, car := range cars {
		if wantFuel != models.FuelOther && car.Fuel != wantFuel {
			continue
		}
		if maxKm > 0 && car.Mileage > maxKm {
			continue
		}
		kept = append(kept, car)
	}
	return kept
}
