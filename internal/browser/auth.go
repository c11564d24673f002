package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"courtscraper/internal/config"
	"courtscraper/internal/retry"
)

// ErrLoginFailed marks an exhausted login; the run cannot proceed without it.
var ErrLoginFailed = errors.New("login failed")

// Portal form selectors.
const (
	userFieldSel = "#userEmail-id"
	passFieldSel = "#plainTextPassword"

	// Secondary send-security-code challenge.
	securityCodeURLMarker = "send-security-code"
	challengeSubmitSel    = "#edit-submit"
	codeInputSel          = "#edit-security-code"
)

const (
	submitSettle     = 2 * time.Second
	codeDispatchWait = 5 * time.Second
	codeFetchTimeout = 15 * time.Second
)

// Keys under which a JSON one-time-code endpoint may expose the code.
var codeKeys = []string{"code", "totp", "token", "otp"}

// Auth performs the form login, optionally completing the portal's
// one-time-code challenge, and exports the session cookies into the shared
// download jar.
type Auth struct {
	b      Browser
	cfg    *config.Config
	jar    http.CookieJar
	codes  *resty.Client
	logger *zap.Logger
}

func NewAuth(b Browser, cfg *config.Config, jar http.CookieJar, logger *zap.Logger) *Auth {
	return &Auth{
		b:      b,
		cfg:    cfg,
		jar:    jar,
		codes:  resty.New().SetTimeout(codeFetchTimeout),
		logger: logger,
	}
}

// Login retries the whole attempt with exponential backoff; exhaustion is a
// terminal error for the run.
func (a *Auth) Login(ctx context.Context) error {
	backoff := retry.Backoff{Base: time.Second, Cap: 10 * time.Second}
	if err := retry.Do(ctx, a.cfg.MaxRetries, backoff, a.attempt); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if err := a.exportCookies(ctx); err != nil {
		return fmt.Errorf("%w: exporting session cookies: %v", ErrLoginFailed, err)
	}
	a.logger.Info("login complete")
	return nil
}

func (a *Auth) attempt(ctx context.Context) error {
	a.logger.Info("navigating to login page")
	if err := a.b.Navigate(ctx, a.cfg.LoginURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := a.b.Fill(ctx, userFieldSel, a.cfg.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := a.b.Fill(ctx, passFieldSel, a.cfg.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	// The portal's form handler listens for Enter in the password field,
	// not a button click.
	if err := a.b.Press(ctx, passFieldSel, KeyEnter); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}
	if err := a.b.Settle(ctx, submitSettle); err != nil {
		return fmt.Errorf("wait after submit: %w", err)
	}
	a.securityCodeStep(ctx)
	return nil
}

// securityCodeStep completes the send-security-code challenge when present.
// Every failure here degrades to a warning: the login call still succeeds and
// later navigation surfaces the auth-required condition instead.
func (a *Auth) securityCodeStep(ctx context.Context) {
	loc, err := a.b.Location(ctx)
	if err != nil {
		a.logger.Warn("could not read post-login location", zap.Error(err))
		return
	}
	if !strings.Contains(loc, securityCodeURLMarker) {
		return
	}
	a.logger.Info("security code challenge detected")

	if err := a.b.Click(ctx, challengeSubmitSel); err != nil {
		a.logger.Warn("could not request security code dispatch", zap.Error(err))
		return
	}
	// The dispatch is asynchronous on the portal side.
	if err := a.b.Settle(ctx, codeDispatchWait); err != nil {
		a.logger.Warn("wait for code dispatch interrupted", zap.Error(err))
		return
	}

	if a.cfg.TOTPEndpoint == "" {
		a.logger.Warn("security code challenge present but no code endpoint configured")
		return
	}
	code, err := a.fetchCode(ctx)
	if err != nil {
		a.logger.Warn("could not retrieve security code", zap.Error(err))
		return
	}
	if err := a.b.Fill(ctx, codeInputSel, code); err != nil {
		a.logger.Warn("could not enter security code", zap.Error(err))
		return
	}
	if err := a.b.Press(ctx, codeInputSel, KeyEnter); err != nil {
		a.logger.Warn("could not submit security code", zap.Error(err))
		return
	}
	if err := a.b.Settle(ctx, submitSettle); err != nil {
		a.logger.Warn("wait after code submit interrupted", zap.Error(err))
		return
	}
	// Log only the length, never the code itself.
	a.logger.Info("security code submitted", zap.Int("code_length", len(code)))
}

// fetchCode accepts either a JSON body carrying the code under a recognized
// key or a raw text body.
func (a *Auth) fetchCode(ctx context.Context) (string, error) {
	resp, err := a.codes.R().SetContext(ctx).Get(a.cfg.TOTPEndpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("code endpoint returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range codeKeys {
			if v, ok := payload[key]; ok {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s), nil
				}
			}
		}
		return "", fmt.Errorf("code endpoint JSON carries none of %v", codeKeys)
	}

	code := strings.TrimSpace(string(body))
	if code == "" {
		return "", errors.New("code endpoint returned an empty body")
	}
	return code, nil
}

// exportCookies keys the download client's jar off the authenticated
// session so per-row fetches never touch the browser.
func (a *Auth) exportCookies(ctx context.Context) error {
	cookies, err := a.b.Cookies(ctx)
	if err != nil {
		return err
	}
	target, err := url.Parse(a.cfg.TargetURL)
	if err != nil {
		return fmt.Errorf("parse target url: %w", err)
	}
	origin := &url.URL{Scheme: target.Scheme, Host: target.Host}
	a.jar.SetCookies(origin, cookies)
	return nil
}
