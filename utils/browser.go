package utils

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"standvirtual-scraper/config"
)

// NewAllocator creates a Chrome exec allocator context from the given Config.
// The flag set mirrors what the target site tolerates: automation-visible
// switches off, realistic user-agent, Portuguese locale, notifications and
// geolocation prompts blocked.
func NewAllocator(parent context.Context, cfg config.Config) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", cfg.Locale),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(cfg.WindowW, cfg.WindowH),
	)
	return chromedp.NewExecAllocator(parent, opts...)
}

// StealthScript returns the page-init script that hides the automation
// signal exposed to page JavaScript. Without it the site serves an empty
// results shell.
func StealthScript(locale string) string {
	return fmt.Sprintf(`
		Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
		Object.defineProperty(navigator, 'languages', { get: () => [%q, 'en'] });
	`, locale)
}
