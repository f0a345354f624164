package scraper

import (
	"net/url"
	"strconv"
	"strings"

	"standvirtual-scraper/models"
)

// BuildSearchURL deterministically maps a filter to a Standvirtual search
// URL. Brand and model become lower-cased, hyphen-normalised path segments
// (model only when a brand is present); price and year bounds become query
// parameters, included only when set and, for prices, non-zero. Identical
// filters always yield byte-identical URLs — url.Values encodes keys in
// sorted order.
func BuildSearchURL(f models.SearchFilter) string {
	target := BaseSearchURL
	if f.Brand != "" {
		target += "/" + slugify(f.Brand)
		if f.Model != "" {
			target += "/" + slugify(f.Model)
		}
	}

	params := url.Values{}
	if f.MinPrice != nil && *f.MinPrice > 0 {
		params.Set(ParamPriceFrom, strconv.Itoa(*f.MinPrice))
	}
	if f.MaxPrice != nil && *f.MaxPrice > 0 {
		params.Set(ParamPriceTo, strconv.Itoa(*f.MaxPrice))
	}
	if f.MinYear != nil && *f.MinYear > 0 {
		params.Set(ParamYearFrom, strconv.Itoa(*f.MinYear))
	}
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	return target
}

// slugify lowercases a brand or model name and collapses whitespace runs
// into single hyphens, matching the site's path-segment convention.
func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}
