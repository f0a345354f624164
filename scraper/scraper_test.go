package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"standvirtual-scraper/config"
	"standvirtual-scraper/models"
)

type stubSession struct {
	navErr   error
	state    ContentState
	stateErr error
	snaps    []string

	navigated []string
	closed    bool
}

func (s *stubSession) Navigate(_ context.Context, target string) error {
	s.navigated = append(s.navigated, target)
	return s.navErr
}

func (s *stubSession) AwaitContent(context.Context) (ContentState, error) {
	return s.state, s.stateErr
}

func (s *stubSession) Snapshot(context.Context) ([]string, error) {
	return s.snaps, nil
}

func (s *stubSession) Close() { s.closed = true }

// newStubScraper wires a Scraper to a sequence of canned sessions; each
// restart consumes the next one.
func newStubScraper(t *testing.T, sessions ...*stubSession) (*Scraper, *int) {
	t.Helper()
	created := 0
	sc := New(context.Background(), testCfg())
	sc.newSession = func(context.Context, config.Config) (session, error) {
		if created >= len(sessions) {
			t.Fatal("unexpected extra session creation")
		}
		created++
		return sessions[created-1], nil
	}
	return sc, &created
}

func stubSnapshots(n int) []string {
	snaps := make([]string, n)
	for i := range snaps {
		snaps[i] = fmt.Sprintf(`<article>
			<a href="https://www.standvirtual.com/carros/anuncio/ok-ID%d.html">Carro %d</a>
			<span>%d €</span>
		</article>`, i, i, 5000+i)
	}
	return snaps
}

func TestSearch_HappyPath(t *testing.T) {
	sess := &stubSession{state: ContentReady, snaps: stubSnapshots(3)}
	sc, created := newStubScraper(t, sess)

	cars := sc.Search(context.Background(), models.SearchFilter{Brand: "Fiat"})
	if len(cars) != 3 {
		t.Fatalf("expected 3 cars, got %d", len(cars))
	}
	if *created != 1 {
		t.Errorf("expected a single lazily-created session, got %d", *created)
	}
	if len(sess.navigated) != 1 || sess.navigated[0] != BaseSearchURL+"/fiat" {
		t.Errorf("unexpected navigations: %v", sess.navigated)
	}
}

func TestSearch_RestartsOnceAfterNavigationFailure(t *testing.T) {
	failing := &stubSession{navErr: fmt.Errorf("%w: connection refused", ErrNavigation)}
	healthy := &stubSession{state: ContentReady, snaps: stubSnapshots(2)}
	sc, created := newStubScraper(t, failing, healthy)

	cars := sc.Search(context.Background(), models.SearchFilter{})
	if len(cars) != 2 {
		t.Fatalf("expected records from the retried session, got %d", len(cars))
	}
	if *created != 2 {
		t.Errorf("expected session replacement, created=%d", *created)
	}
	if !failing.closed {
		t.Error("failed session must be disposed on restart")
	}
}

func TestSearch_BothAttemptsFailReturnsEmpty(t *testing.T) {
	first := &stubSession{navErr: errors.New("boom")}
	second := &stubSession{navErr: errors.New("still down")}
	sc, created := newStubScraper(t, first, second)

	cars := sc.Search(context.Background(), models.SearchFilter{})
	if len(cars) != 0 {
		t.Fatalf("expected empty result, got %d", len(cars))
	}
	if *created != 2 {
		t.Errorf("expected exactly one restart, created=%d", *created)
	}
}

func TestSearch_TimedOutContentIsNotAFailure(t *testing.T) {
	sess := &stubSession{state: ContentTimedOut}
	sc, created := newStubScraper(t, sess)

	cars := sc.Search(context.Background(), models.SearchFilter{})
	if len(cars) != 0 {
		t.Fatalf("expected no records on timeout, got %d", len(cars))
	}
	if *created != 1 {
		t.Errorf("timeout must not trigger a session restart, created=%d", *created)
	}
}

func TestSearch_EmptyResultPage(t *testing.T) {
	sess := &stubSession{state: ContentEmpty}
	sc, _ := newStubScraper(t, sess)

	if cars := sc.Search(context.Background(), models.SearchFilter{Brand: "Lada"}); len(cars) != 0 {
		t.Fatalf("expected zero records for an empty result page, got %d", len(cars))
	}
}

func TestSearch_SessionReusedAcrossSearches(t *testing.T) {
	sess := &stubSession{state: ContentReady, snaps: stubSnapshots(1)}
	sc, created := newStubScraper(t, sess)

	first := sc.Search(context.Background(), models.SearchFilter{})
	second := sc.Search(context.Background(), models.SearchFilter{})
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected identical results, got %d and %d", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Errorf("same snapshot must yield the same record: %+v vs %+v", first[0], second[0])
	}
	if *created != 1 {
		t.Errorf("expected one session across searches, created=%d", *created)
	}
}

func TestClose_DisposesSession(t *testing.T) {
	sess := &stubSession{state: ContentReady, snaps: stubSnapshots(1)}
	sc, _ := newStubScraper(t, sess)

	sc.Search(context.Background(), models.SearchFilter{})
	sc.Close()
	if !sess.closed {
		t.Error("Close must dispose the live session")
	}
	sc.Close() // safe to call again
}
