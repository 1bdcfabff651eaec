// Package browser owns headless Chromium sessions. One Session is acquired
// per source run, handed to the extractor, and released on every exit path.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/tayseermbabiker/usa-events-board/internal/config"
)

// Session wraps one browser with a single configured page: fixed viewport,
// en-US locale, configured user agent, and a default per-navigation timeout.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
}

// New launches and configures a browser. proxy may be nil.
func New(cfg config.Browser, proxy *url.URL) (*Session, error) {
	launch := launcher.New().Headless(cfg.Headless)
	if proxy != nil {
		launch = launch.Proxy(proxy.Host)
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		launch.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	session := &Session{
		launcher: launch,
		browser:  b,
		timeout:  cfg.Timeout(),
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	session.page = page

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            800,
		DeviceScaleFactor: 1,
	}); err != nil {
		session.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: "en-US",
	}); err != nil {
		session.Close()
		return nil, fmt.Errorf("set user agent: %w", err)
	}

	return session, nil
}

// Close releases the browser and its launcher. Safe to call on a nil
// session and on every exit path.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
		s.page = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

// Navigate loads target and waits for the document to finish loading.
func (s *Session) Navigate(ctx context.Context, target string) error {
	page := s.page.Context(ctx).Timeout(s.timeout)
	if err := page.Navigate(target); err != nil {
		return fmt.Errorf("navigate %s: %w", target, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", target, err)
	}
	return nil
}

// HTML returns the current rendered document markup.
func (s *Session) HTML() (string, error) {
	return s.page.Timeout(s.timeout).HTML()
}

// EvalString runs a JS function expression in the page and returns its
// string result.
func (s *Session) EvalString(ctx context.Context, js string) (string, error) {
	obj, err := s.page.Context(ctx).Timeout(s.timeout).Eval(js)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}

// EvalBool runs a JS function expression in the page and returns its
// boolean result.
func (s *Session) EvalBool(ctx context.Context, js string) (bool, error) {
	obj, err := s.page.Context(ctx).Timeout(s.timeout).Eval(js)
	if err != nil {
		return false, err
	}
	return obj.Value.Bool(), nil
}

// ScrollBottom scrolls the page to the bottom so lazy content loads.
func (s *Session) ScrollBottom(ctx context.Context) error {
	_, err := s.page.Context(ctx).Timeout(s.timeout).
		Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

// Settle pauses so dynamically rendered content can finish appearing.
func (s *Session) Settle(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
