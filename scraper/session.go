package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"standvirtual-scraper/config"
	"standvirtual-scraper/utils"
)

// ErrNavigation marks transport-level failures: the page load could not
// complete or the browser process stopped responding.
var ErrNavigation = errors.New("navigation failed")

// session abstracts the live browser a Scraper drives. One session maps
// to one single-tabbed browser process; it is never shared across
// concurrent callers.
type session interface {
	Navigate(ctx context.Context, target string) error
	AwaitContent(ctx context.Context) (ContentState, error)
	Snapshot(ctx context.Context) ([]string, error)
	Close()
}

// browserSession owns a headless Chrome process via chromedp. The
// allocator and tab contexts are created eagerly so that startup failures
// surface on construction rather than mid-search.
type browserSession struct {
	cfg config.Config

	tab         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	limiter     *rate.Limiter
	consentDone bool
}

func newBrowserSession(parent context.Context, cfg config.Config) (session, error) {
	allocCtx, cancelAlloc := utils.NewAllocator(parent, cfg)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			log.Printf("[browser] "+format, args...)
		}),
	)

	s := &browserSession{
		cfg:         cfg,
		tab:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}

	// Installing the stealth script also forces the browser to launch,
	// surfacing environment problems (missing Chrome, dead display) now.
	startCtx, cancel := context.WithTimeout(tabCtx, cfg.NavTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(utils.StealthScript(cfg.Locale)).Do(ctx)
		return err
	})); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: start browser: %v", ErrNavigation, err)
	}

	return s, nil
}

// Navigate loads the target URL, then makes a one-time advisory attempt
// to dismiss the cookie-consent overlay. Consent failure is not an error;
// navigation failure is.
func (s *browserSession) Navigate(ctx context.Context, target string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNavigation, err)
	}

	navCtx, cancel := context.WithTimeout(s.tab, s.cfg.NavTimeout)
	defer cancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(target)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, target, err)
	}

	if !s.consentDone {
		s.dismissConsent()
		s.consentDone = true
	}
	return nil
}

// dismissConsent waits briefly for the OneTrust accept button and clicks
// it if present. Best effort only — the overlay does not block scraping,
// it just occludes the viewport.
func (s *browserSession) dismissConsent() {
	consentCtx, cancel := context.WithTimeout(s.tab, s.cfg.ConsentTimeout)
	defer cancel()
	err := chromedp.Run(consentCtx,
		chromedp.WaitVisible(ConsentSelector, chromedp.ByQuery),
		chromedp.Click(ConsentSelector, chromedp.ByQuery),
	)
	if err == nil {
		log.Printf("[scraper] consent banner dismissed")
	}
}

// AwaitContent polls the live DOM for listing cards until they appear or
// the wait window closes, then classifies the page body to tell a
// legitimate empty result set apart from a render that never finished.
func (s *browserSession) AwaitContent(ctx context.Context) (ContentState, error) {
	countJS := fmt.Sprintf(`document.querySelectorAll(%q).length`, CardSelector)
	deadline := time.Now().Add(s.cfg.ContentTimeout)

	for {
		var count int
		pollCtx, cancel := context.WithTimeout(s.tab, s.cfg.PollInterval*4)
		err := chromedp.Run(pollCtx, chromedp.Evaluate(countJS, &count))
		cancel()
		if err != nil {
			return ContentTimedOut, fmt.Errorf("%w: poll cards: %v", ErrNavigation, err)
		}
		if count > 0 {
			// Settle buffer: cards stream in after the first one renders.
			settleCtx, cancel := context.WithTimeout(s.tab, s.cfg.SettleDelay+time.Second)
			_ = chromedp.Run(settleCtx, chromedp.Sleep(s.cfg.SettleDelay))
			cancel()
			return ContentReady, nil
		}
		if time.Now().After(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return ContentTimedOut, fmt.Errorf("%w: %v", ErrNavigation, ctx.Err())
		case <-time.After(s.cfg.PollInterval):
		}
	}

	var body string
	bodyCtx, cancel := context.WithTimeout(s.tab, s.cfg.PollInterval*4)
	defer cancel()
	if err := chromedp.Run(bodyCtx,
		chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &body),
	); err != nil {
		return ContentTimedOut, fmt.Errorf("%w: read body: %v", ErrNavigation, err)
	}
	return classifyBody(body), nil
}

// Snapshot captures the outerHTML of up to MaxCards card elements, in
// document order, for offline extraction.
func (s *browserSession) Snapshot(ctx context.Context) ([]string, error) {
	snapJS := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).slice(0, %d).map(el => el.outerHTML)`,
		CardSelector, s.cfg.MaxCards,
	)

	var snapshots []string
	snapCtx, cancel := context.WithTimeout(s.tab, s.cfg.NavTimeout)
	defer cancel()
	if err := chromedp.Run(snapCtx, chromedp.Evaluate(snapJS, &snapshots)); err != nil {
		return nil, fmt.Errorf("%w: snapshot cards: %v", ErrNavigation, err)
	}
	return snapshots, nil
}

// Close tears down the tab and the browser process. Safe to call more
// than once.
func (s *browserSession) Close() {
	if s.cancelTab != nil {
		s.cancelTab()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}
