package utils

import (
	"encoding/json"
	"os"

	"standvirtual-scraper/models"
)

// WriteJSON writes all query results (filters, listings and summaries)
// into a single JSON array. Returns the total number of listings written.
func WriteJSON(filename string, results []models.QueryResult) (int, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return 0, err
	}

	total := 0
	for _, r := range results {
		total += len(r.Cars)
	}
	return total, nil
}
