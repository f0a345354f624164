package utils

import (
	"sort"

	"standvirtual-scraper/models"
)

type FuelCount struct {
	Fuel  models.FuelType
	Count int
}

type SummaryStats struct {
	TotalCars    int
	PricedCars   int
	AveragePrice float64
	MinimumPrice int
	MaximumPrice int
	CheapestCar  models.Car
	CarsPerFuel  []FuelCount
	NewestCars   []models.Car
}

// BuildSummaryStats aggregates price, fuel and year statistics over every
// listing in the results. Listings with unknown (zero) price are counted
// but excluded from the price aggregates.
func BuildSummaryStats(results []models.QueryResult) SummaryStats {
	all := make([]models.Car, 0)
	fuelCounts := make(map[models.FuelType]int)

	for _, result := range results {
		if result.Err != nil {
			continue
		}
		for _, car := range result.Cars {
			all = append(all, car)
			fuelCounts[car.Fuel]++
		}
	}

	stats := SummaryStats{TotalCars: len(all)}
	if len(all) == 0 {
		return stats
	}

	var totalPrice int
	for _, car := range all {
		if car.Price == 0 {
			continue
		}
		if stats.PricedCars == 0 {
			stats.MinimumPrice = car.Price
			stats.MaximumPrice = car.Price
			stats.CheapestCar = car
		}
		stats.PricedCars++
		totalPrice += car.Price
		if car.Price < stats.MinimumPrice {
			stats.MinimumPrice = car.Price
			stats.CheapestCar = car
		}
		if car.Price > stats.MaximumPrice {
			stats.MaximumPrice = car.Price
		}
	}
	if stats.PricedCars > 0 {
		stats.AveragePrice = float64(totalPrice) / float64(stats.PricedCars)
	}

	perFuel := make([]FuelCount, 0, len(fuelCounts))
	for fuel, count := range fuelCounts {
		perFuel = append(perFuel, FuelCount{Fuel: fuel, Count: count})
	}
	sort.Slice(perFuel, func(i, j int) bool {
		if perFuel[i].Count == perFuel[j].Count {
			return perFuel[i].Fuel < perFuel[j].Fuel
		}
		return perFuel[i].Count > perFuel[j].Count
	})
	stats.CarsPerFuel = perFuel

	newest := make([]models.Car, len(all))
	copy(newest, all)
	sort.Slice(newest, func(i, j int) bool {
		if newest[i].Year == newest[j].Year {
			return newest[i].Price < newest[j].Price
		}
		return newest[i].Year > newest[j].Year
	})
	if len(newest) > 5 {
		newest = newest[:5]
	}
	stats.NewestCars = newest

	return stats
}
