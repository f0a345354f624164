package scraper

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"standvirtual-scraper/config"
	"standvirtual-scraper/models"
)

var (
	// priceRe captures a digit run (spaces, dots or commas as thousands
	// separators) immediately preceding a currency marker.
	priceRe = regexp.MustCompile(`(?i)(\d[\d\s.,]*)\s?(?:€|EUR)`)

	// yearRe matches a plausible 4-digit model year.
	yearRe = regexp.MustCompile(`(19|20)\d{2}`)

	// kmRe captures a digit run immediately followed by the distance unit,
	// with the same separator tolerance as prices.
	kmRe = regexp.MustCompile(`(?i)(\d[\d\s.,]*)\s?km\b`)

	nonDigitRe = regexp.MustCompile(`[^\d]`)

	// searchBase anchors relative hrefs found in card snapshots.
	searchBase, _ = url.Parse(BaseSearchURL)
)

// ExtractCards turns rendered card markup snapshots into validated Cars.
// Each card is processed independently: a malformed card is skipped and
// counted, never aborting the batch. Output order follows snapshot
// (document) order, so repeated extraction of the same snapshot yields
// the same records.
func ExtractCards(snapshots []string, cfg config.Config) ([]models.Car, models.ExtractReport) {
	if cfg.MaxCards > 0 && len(snapshots) > cfg.MaxCards {
		snapshots = snapshots[:cfg.MaxCards]
	}

	report := models.ExtractReport{Cards: len(snapshots)}
	cars := make([]models.Car, 0, len(snapshots))
	for _, markup := range snapshots {
		car, skip := extractCard(markup, cfg)
		switch skip {
		case models.SkipNone:
			report.Emitted++
			cars = append(cars, car)
		case models.SkipNoLink:
			report.NoLink++
		case models.SkipNoSignal:
			report.NoSignal++
		default:
			report.Malformed++
		}
	}
	return cars, report
}

// extractCard runs the per-field strategy chains over one card. A card
// without a same-domain anchor cannot be a listing and is skipped; a card
// whose price and year both came back unknown carries no identifying
// signal and is dropped as extraction noise.
func extractCard(markup string, cfg config.Config) (models.Car, models.SkipReason) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return models.Car{}, models.SkipMalformed
	}
	card := doc.Selection

	link, anchor := linkFromCard(card)
	if link == "" {
		return models.Car{}, models.SkipNoLink
	}

	text := card.Text()
	car := models.Car{
		Title:    titleFromCard(card, anchor),
		URL:      link,
		ImageURL: imageFromCard(card),
		Price:    priceFromCard(card, text),
		Year:     yearFromText(text),
		Mileage:  mileageFromText(text),
		Fuel:     fuelFromText(text),
	}

	// A wildly wrong number is worse than "unknown".
	if car.Price != 0 && (car.Price < cfg.MinPlausiblePrice || car.Price > cfg.MaxPlausiblePrice) {
		car.Price = 0
	}

	if car.Price == 0 && car.Year == 0 {
		return models.Car{}, models.SkipNoSignal
	}
	return car, models.SkipNone
}

// linkFromCard returns the first anchor whose href, resolved against the
// search page base, lands on the target domain, along with the anchor
// itself for title fallback. Snapshots carry raw markup, so site-relative
// hrefs are as common as absolute ones.
func linkFromCard(card *goquery.Selection) (string, *goquery.Selection) {
	var link string
	var anchor *goquery.Selection
	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if resolved := resolveListingHref(a.AttrOr("href", "")); resolved != "" {
			link = resolved
			anchor = a
			return false
		}
		return true
	})
	return link, anchor
}

// resolveListingHref absolutises an href against the search base and
// keeps it only when it points at the target domain over http(s).
// Fragment and script pseudo-links never identify a listing.
func resolveListingHref(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := searchBase.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	if !strings.Contains(abs.Host, TargetDomain) {
		return ""
	}
	return abs.String()
}

// titleFromCard prefers a nested heading when richer markup is present,
// then the anchor's visible text.
func titleFromCard(card, anchor *goquery.Selection) string {
	if h := card.Find("h1, h2, h3").First(); h.Length() > 0 {
		if t := collapseSpace(h.Text()); t != "" {
			return t
		}
	}
	if t := collapseSpace(anchor.Text()); t != "" {
		return t
	}
	return "No Title"
}

// imageFromCard tries the first image's src, then its lazy-load data-src.
// A card without a usable image is fine — the field stays empty.
func imageFromCard(card *goquery.Selection) string {
	img := card.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	if src := img.AttrOr("src", ""); isAbsoluteURL(src) {
		return src
	}
	if src := img.AttrOr("data-src", ""); isAbsoluteURL(src) {
		return src
	}
	return ""
}

// priceFromCard applies the three price tiers in order: dedicated price
// element, currency-marked block, whole-card brute force. First hit wins;
// 0 means unparsed.
func priceFromCard(card *goquery.Selection, cardText string) int {
	if p, ok := priceFromHook(card); ok {
		return p
	}
	if p, ok := priceFromMarkedBlock(card); ok {
		return p
	}
	if m := priceRe.FindStringSubmatch(cardText); m != nil {
		return parseNumericRun(m[1])
	}
	return 0
}

func priceFromHook(card *goquery.Selection) (int, bool) {
	hook := card.Find(PriceHookSelector).First()
	if hook.Length() == 0 {
		return 0, false
	}
	raw := hook.AttrOr("data-price", "")
	if raw == "" {
		raw = hook.Text()
	}
	if p := parseNumericRun(raw); p > 0 {
		return p, true
	}
	return 0, false
}

// priceFromMarkedBlock scans the card's inner blocks for one containing a
// currency marker and extracts the digit run preceding it. Scoping the
// regex to the containing block avoids picking up unrelated numbers
// elsewhere on the card.
func priceFromMarkedBlock(card *goquery.Selection) (int, bool) {
	price := 0
	card.Find("p, span, div, h3, h4, strong").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		text := block.Text()
		if !strings.Contains(text, "€") && !strings.Contains(strings.ToUpper(text), "EUR") {
			return true
		}
		if m := priceRe.FindStringSubmatch(text); m != nil {
			if p := parseNumericRun(m[1]); p > 0 {
				price = p
				return false
			}
		}
		return true
	})
	return price, price > 0
}

// yearFromText returns the first 4-digit token in the plausible
// 1900–2099 range, or 0.
func yearFromText(text string) int {
	m := yearRe.FindString(text)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}

// mileageFromText returns the digit run preceding a km marker, or 0.
func mileageFromText(text string) int {
	m := kmRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return parseNumericRun(m[1])
}

// fuelFromText matches the card text against the fuel vocabulary in
// priority order; FuelOther when nothing matches.
func fuelFromText(text string) models.FuelType {
	lower := strings.ToLower(text)
	for _, entry := range fuelKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.fuel
		}
	}
	return models.FuelOther
}

// parseNumericRun strips every non-digit character (thousands separators
// of any convention) and parses what remains.
func parseNumericRun(raw string) int {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
