package utils

import (
	"errors"
	"testing"

	"standvirtual-scraper/models"
)

func TestBuildSummaryStats_Empty(t *testing.T) {
	stats := BuildSummaryStats(nil)
	if stats.TotalCars != 0 || stats.PricedCars != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestBuildSummaryStats_UnknownPricesExcludedFromAggregates(t *testing.T) {
	results := []models.QueryResult{
		{
			Query: "q1",
			Cars: []models.Car{
				{Title: "priced low", Price: 5000, Year: 2015, Fuel: models.FuelPetrol},
				{Title: "priced high", Price: 10000, Year: 2020, Fuel: models.FuelDiesel},
				{Title: "unpriced", Price: 0, Year: 2019, Fuel: models.FuelDiesel},
			},
		},
		{Query: "failed", Err: errors.New("cancelled"), Cars: []models.Car{{Title: "x", Price: 1}}},
	}

	stats := BuildSummaryStats(results)
	if stats.TotalCars != 3 {
		t.Errorf("failed queries must be skipped: got %d cars", stats.TotalCars)
	}
	if stats.PricedCars != 2 {
		t.Errorf("expected 2 priced cars, got %d", stats.PricedCars)
	}
	if stats.AveragePrice != 7500 {
		t.Errorf("expected average 7500 over known prices, got %v", stats.AveragePrice)
	}
	if stats.MinimumPrice != 5000 || stats.MaximumPrice != 10000 {
		t.Errorf("unexpected price range %d–%d", stats.MinimumPrice, stats.MaximumPrice)
	}
	if stats.CheapestCar.Title != "priced low" {
		t.Errorf("unexpected cheapest car %+v", stats.CheapestCar)
	}

	if len(stats.CarsPerFuel) != 2 || stats.CarsPerFuel[0].Fuel != models.FuelDiesel || stats.CarsPerFuel[0].Count != 2 {
		t.Errorf("unexpected fuel breakdown %+v", stats.CarsPerFuel)
	}

	if len(stats.NewestCars) != 3 || stats.NewestCars[0].Year != 2020 {
		t.Errorf("unexpected newest ordering %+v", stats.NewestCars)
	}
}

func TestBuildSummaryStats_AllUnpriced(t *testing.T) {
	results := []models.QueryResult{{Cars: []models.Car{{Title: "a", Year: 2019}}}}
	stats := BuildSummaryStats(results)
	if stats.PricedCars != 0 || stats.AveragePrice != 0 {
		t.Errorf("expected no price aggregates, got %+v", stats)
	}
	if stats.TotalCars != 1 {
		t.Errorf("unpriced cars still count, got %d", stats.TotalCars)
	}
}
