package models

import "strings"

// FuelType is the normalised fuel classification for a listing.
type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
	FuelOther    FuelType = "Other"
)

// ParseFuelLabel maps a free-form fuel label (Portuguese or English, as
// returned by the query parser) onto a FuelType. Unrecognised labels map
// to FuelOther.
func ParseFuelLabel(label string) FuelType {
	switch l := strings.ToLower(strings.TrimSpace(label)); {
	case strings.Contains(l, "gasolina"), strings.Contains(l, "petrol"):
		return FuelPetrol
	case strings.Contains(l, "diesel"), strings.Contains(l, "gasóleo"):
		return FuelDiesel
	case strings.Contains(l, "elétrico"), strings.Contains(l, "eletrico"), strings.Contains(l, "electric"):
		return FuelElectric
	case strings.Contains(l, "híbrido"), strings.Contains(l, "hibrido"), strings.Contains(l, "hybrid"):
		return FuelHybrid
	default:
		return FuelOther
	}
}

// SearchFilter carries the constraints for one search. Nil pointers and
// empty strings mean "unconstrained". Filters are built per call and
// discarded afterwards.
type SearchFilter struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	MinPrice *int   `json:"min_price"`
	MaxPrice *int   `json:"max_price"`
	MinYear  *int   `json:"min_year"`
	MaxKm    *int   `json:"max_km"`
	Fuel     string `json:"fuel"`
	Location string `json:"location"`
}

// IsEmpty reports whether no constraint at all was extracted. An empty
// filter is a valid unconstrained search, not an error.
func (f SearchFilter) IsEmpty() bool {
	return f.Brand == "" && f.Model == "" && f.Fuel == "" && f.Location == "" &&
		f.MinPrice == nil && f.MaxPrice == nil && f.MinYear == nil && f.MaxKm == nil
}

// Car holds the extracted fields for a single listing. Zero values for
// Price, Year and Mileage mean "unknown" rather than literally zero.
type Car struct {
	Title    string   `json:"title"`
	Price    int      `json:"price"`
	Year     int      `json:"year"`
	Mileage  int      `json:"km"`
	Fuel     FuelType `json:"fuel"`
	URL      string   `json:"link"`
	ImageURL string   `json:"image_url,omitempty"`
}

// SkipReason explains why a card was not turned into a Car.
type SkipReason string

const (
	SkipNone      SkipReason = ""
	SkipNoLink    SkipReason = "no-link"
	SkipNoSignal  SkipReason = "no-signal"
	SkipMalformed SkipReason = "malformed"
)

// ExtractReport aggregates per-card outcomes for one extraction batch.
// Skipped cards are expected noise, surfaced here for diagnostics only.
type ExtractReport struct {
	Cards     int
	Emitted   int
	NoLink    int
	NoSignal  int
	Malformed int
}

// QueryResult is sent back from each worker goroutine.
type QueryResult struct {
	Query   string       `json:"query"`
	Index   int          `json:"-"` // original position in the query list — preserves output order
	Filter  SearchFilter `json:"filter"`
	Cars    []Car        `json:"results"`
	Summary string       `json:"summary,omitempty"`
	Err     error        `json:"-"`
}
