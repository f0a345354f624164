package scraper

import (
	"net/url"
	"strings"
	"testing"

	"standvirtual-scraper/models"
)

func intPtr(v int) *int { return &v }

func TestBuildSearchURL_EmptyFilter(t *testing.T) {
	got := BuildSearchURL(models.SearchFilter{})
	if got != BaseSearchURL {
		t.Errorf("empty filter: expected %q, got %q", BaseSearchURL, got)
	}
}

func TestBuildSearchURL_Deterministic(t *testing.T) {
	filter := models.SearchFilter{
		Brand:    "BMW",
		Model:    "X5",
		MinPrice: intPtr(5000),
		MaxPrice: intPtr(30000),
		MinYear:  intPtr(2018),
	}
	first := BuildSearchURL(filter)
	for i := 0; i < 10; i++ {
		if got := BuildSearchURL(filter); got != first {
			t.Fatalf("non-deterministic URL: %q vs %q", first, got)
		}
	}
}

func TestBuildSearchURL_BrandModelPath(t *testing.T) {
	cases := []struct {
		name   string
		filter models.SearchFilter
		path   string
	}{
		{"brand and model", models.SearchFilter{Brand: "BMW", Model: "X5"}, "/carros/bmw/x5"},
		{"brand only", models.SearchFilter{Brand: "Fiat"}, "/carros/fiat"},
		{"model without brand is ignored", models.SearchFilter{Model: "Panda"}, "/carros"},
		{"spaces become hyphens", models.SearchFilter{Brand: "Alfa Romeo", Model: "Giulietta Sprint"}, "/carros/alfa-romeo/giulietta-sprint"},
	}
	for _, tc := range cases {
		u, err := url.Parse(BuildSearchURL(tc.filter))
		if err != nil {
			t.Fatalf("%s: parse: %v", tc.name, err)
		}
		if u.Path != tc.path {
			t.Errorf("%s: expected path %q, got %q", tc.name, tc.path, u.Path)
		}
	}
}

func TestBuildSearchURL_MaxPriceScenario(t *testing.T) {
	filter := models.SearchFilter{Brand: "BMW", Model: "X5", MaxPrice: intPtr(30000), Fuel: "Diesel"}
	raw := BuildSearchURL(filter)

	if !strings.Contains(raw, "/bmw/x5") {
		t.Errorf("expected /bmw/x5 path in %q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if got := q.Get(ParamPriceTo); got != "30000" {
		t.Errorf("expected upper price bound 30000, got %q", got)
	}
	if q.Has(ParamPriceFrom) {
		t.Errorf("lower price bound must be absent: %q", raw)
	}
	if q.Has(ParamYearFrom) {
		t.Errorf("year bound must be absent: %q", raw)
	}
}

func TestBuildSearchURL_OmitsUnsetAndZeroBounds(t *testing.T) {
	cases := []struct {
		name   string
		filter models.SearchFilter
	}{
		{"nil pointers", models.SearchFilter{Brand: "Fiat"}},
		{"zero prices", models.SearchFilter{Brand: "Fiat", MinPrice: intPtr(0), MaxPrice: intPtr(0)}},
	}
	for _, tc := range cases {
		raw := BuildSearchURL(tc.filter)
		if strings.Contains(raw, "?") {
			t.Errorf("%s: expected no query parameters, got %q", tc.name, raw)
		}
	}
}

func TestBuildSearchURL_MinYearIncluded(t *testing.T) {
	raw := BuildSearchURL(models.SearchFilter{MinYear: intPtr(2015)})
	u, _ := url.Parse(raw)
	if got := u.Query().Get(ParamYearFrom); got != "2015" {
		t.Errorf("expected year bound 2015, got %q in %q", got, raw)
	}
}
