package browser

import (
	"context"
	"net/http"
	"time"

	cdpstorage "github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"
)

// KeyEnter is the key sent to submit a form from within an input field.
const KeyEnter = kb.Enter

// Browser is the navigation/DOM/cookie capability the scraper needs from the
// automation engine. Session implements it with chromedp; tests implement it
// with fakes.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	Fill(ctx context.Context, sel, value string) error
	Press(ctx context.Context, sel, key string) error
	Click(ctx context.Context, sel string) error
	Settle(ctx context.Context, d time.Duration) error
	Cookies(ctx context.Context) ([]*http.Cookie, error)
}

// Session owns one headless browser and the single page the scheduler drives.
// It is not safe for concurrent use; only the scheduler's page-advance logic
// touches it.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// NewSession starts a browser. Close must run on every exit path.
func NewSession(headless bool, logger *zap.Logger) *Session {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)
	return &Session{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		logger:      logger,
	}
}

func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// run executes chromedp actions on the session context while honoring the
// caller's cancellation. chromedp actions must run on a context derived from
// the session's, not the caller's.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("navigating", zap.String("url", url))
	return s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	)
}

func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	err := s.run(ctx, chromedp.Location(&loc))
	return loc, err
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (s *Session) Fill(ctx context.Context, sel, value string) error {
	return s.run(ctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.SetValue(sel, value, chromedp.ByQuery),
	)
}

func (s *Session) Press(ctx context.Context, sel, key string) error {
	return s.run(ctx, chromedp.SendKeys(sel, key, chromedp.ByQuery))
}

func (s *Session) Click(ctx context.Context, sel string) error {
	return s.run(ctx, chromedp.Click(sel, chromedp.ByQuery))
}

// Settle pauses on the current page, standing in for a network-idle wait
// which the protocol does not expose directly.
func (s *Session) Settle(ctx context.Context, d time.Duration) error {
	return s.run(ctx, chromedp.Sleep(d))
}

// Cookies snapshots the browser's cookies so downloads can reuse the
// authenticated session on a plain HTTP client.
func (s *Session) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cs, err := cdpstorage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cs {
			cookies = append(cookies, &http.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Secure:   c.Secure,
				HttpOnly: c.HTTPOnly,
			})
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return cookies, nil
}
