package scraper

import "standvirtual-scraper/models"

// Selectors, markers and vocabulary coupled to Standvirtual's rendered
// markup. Centralising them makes future site updates trivial — this is
// the part that breaks when the site changes.
const (
	// BaseSearchURL is the listings root; brand/model path segments and
	// price/year query parameters are appended by BuildSearchURL.
	BaseSearchURL = "https://www.standvirtual.com/carros"

	// TargetDomain gates which anchors count as listing links.
	TargetDomain = "standvirtual.com"

	// CardSelector matches one repeating listing card on a results page.
	CardSelector = "article"

	// ConsentSelector is the OneTrust cookie banner accept button.
	ConsentSelector = "#onetrust-accept-btn-handler"

	// PriceHookSelector is the dedicated price element the site exposes on
	// well-formed cards. Preferred over text scanning when present.
	PriceHookSelector = `[data-testid="ad-price"], [data-price]`

	// Query parameter names understood by the site's search endpoint.
	ParamPriceFrom = "search[filter_float_price:from]"
	ParamPriceTo   = "search[filter_float_price:to]"
	ParamYearFrom  = "search[filter_float_year:from]"
)

// NoResultsMarkers are body-text fragments that distinguish a legitimate
// empty result set from a page that never rendered. Matched
// case-insensitively.
var NoResultsMarkers = []string{
	"sem resultados",
	"não encontrámos",
	"0 resultados",
}

// fuelKeywords is the fixed fuel vocabulary in the target market's
// language, checked in priority order; first match wins.
var fuelKeywords = []struct {
	keyword string
	fuel    models.FuelType
}{
	{"gasolina", models.FuelPetrol},
	{"diesel", models.FuelDiesel},
	{"elétrico", models.FuelElectric},
	{"eletrico", models.FuelElectric},
	{"híbrido", models.FuelHybrid},
	{"hibrido", models.FuelHybrid},
}
