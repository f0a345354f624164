package scraper

import (
	"context"
	"log"

	"standvirtual-scraper/config"
	"standvirtual-scraper/models"
)

// Scraper drives one browser session against Standvirtual search pages.
// A Scraper supports a single search in flight: the underlying browser is
// single-tabbed and stateful, so concurrent callers must use independent
// Scraper instances. The session is created lazily on first use and
// replaced transparently after a navigation failure.
type Scraper struct {
	cfg  config.Config
	base context.Context

	newSession func(context.Context, config.Config) (session, error)
	sess       session
}

// New returns a Scraper whose browser session lives under ctx: cancelling
// it releases the browser process on every exit path.
func New(ctx context.Context, cfg config.Config) *Scraper {
	return &Scraper{
		cfg:        cfg,
		base:       ctx,
		newSession: newBrowserSession,
	}
}

// Search runs one fetch-and-parse pass for the filter. It never returns
// an error: transport failures are retried once on a fresh session, and
// every failure mode degrades to an empty list with a logged diagnostic.
func (s *Scraper) Search(ctx context.Context, filter models.SearchFilter) []models.Car {
	target := BuildSearchURL(filter)
	log.Printf("[scraper] navigating to %s", target)

	cars, err := s.attempt(ctx, target)
	if err == nil {
		return cars
	}

	log.Printf("[scraper] ✗ %v — restarting session", err)
	s.restart()

	cars, err = s.attempt(ctx, target)
	if err != nil {
		log.Printf("[scraper] ✗ retry after restart: %v — returning no results", err)
		return nil
	}
	return cars
}

// attempt performs navigate → await → snapshot → extract on the current
// session. Only session-level failures come back as errors; empty and
// timed-out pages resolve to zero records.
func (s *Scraper) attempt(ctx context.Context, target string) ([]models.Car, error) {
	sess, err := s.ensureSession()
	if err != nil {
		return nil, err
	}

	if err := sess.Navigate(ctx, target); err != nil {
		return nil, err
	}

	state, err := sess.AwaitContent(ctx)
	if err != nil {
		return nil, err
	}
	switch state {
	case ContentEmpty:
		log.Printf("[scraper] site reported no results")
		return nil, nil
	case ContentTimedOut:
		log.Printf("[scraper] timed out waiting for listing cards")
		return nil, nil
	}

	snapshots, err := sess.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	cars, report := ExtractCards(snapshots, s.cfg)
	log.Printf("[scraper] %d raw cards → %d valid (no-link=%d no-signal=%d malformed=%d)",
		report.Cards, report.Emitted, report.NoLink, report.NoSignal, report.Malformed)
	return cars, nil
}

func (s *Scraper) ensureSession() (session, error) {
	if s.sess == nil {
		sess, err := s.newSession(s.base, s.cfg)
		if err != nil {
			return nil, err
		}
		s.sess = sess
	}
	return s.sess, nil
}

// restart disposes the current session; the next attempt lazily builds a
// fresh one.
func (s *Scraper) restart() {
	if s.sess != nil {
		s.sess.Close()
		s.sess = nil
	}
}

// Close releases the browser session. The Scraper may be reused after
// Close; a new session will be created on the next Search.
func (s *Scraper) Close() {
	s.restart()
}
