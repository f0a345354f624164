package scraper

import "strings"

// ContentState is the outcome of waiting for the listings container.
type ContentState int

const (
	// ContentReady means at least one listing card rendered.
	ContentReady ContentState = iota
	// ContentEmpty means the site reported a legitimate empty result set.
	ContentEmpty
	// ContentTimedOut means nothing rendered within the wait window and no
	// empty-result marker was found. Treated as "no records", not a fault.
	ContentTimedOut
)

func (s ContentState) String() string {
	switch s {
	case ContentReady:
		return "ready"
	case ContentEmpty:
		return "empty"
	case ContentTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// classifyBody decides, from the page body text after the card wait gave
// up, whether the site rendered a genuine "no results" page or simply
// never finished. Dynamic sites legitimately render nothing for filters
// with no matches; that must not be conflated with a malfunction.
func classifyBody(body string) ContentState {
	lower := strings.ToLower(body)
	for _, marker := range NoResultsMarkers {
		if strings.Contains(lower, marker) {
			return ContentEmpty
		}
	}
	return ContentTimedOut
}
