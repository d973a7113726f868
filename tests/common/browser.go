package common

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// BrowserConfig controls the Chrome instance used by UI tests.
type BrowserConfig struct {
	Headless bool
	Timeout  time.Duration
}

func DefaultBrowserConfig() *BrowserConfig {
	b := LoadTestConfig().Browser
	return &BrowserConfig{
		Headless: b.Headless,
		Timeout:  time.Duration(b.TimeoutSecs) * time.Second,
	}
}

// NewBrowserContext starts Chrome and returns a context bounded by the
// configured timeout. cancel tears down the tab and the allocator.
func NewBrowserContext(cfg *BrowserConfig) (ctx context.Context, cancel context.CancelFunc) {
	if cfg == nil {
		cfg = DefaultBrowserConfig()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1440, 900),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	ctx, timeoutCancel := context.WithTimeout(tabCtx, cfg.Timeout)

	return ctx, func() {
		timeoutCancel()
		tabCancel()
		allocCancel()
	}
}

// externalNoise matches console errors raised by the third-party widget and
// chart scripts when the test host has no internet access.
var externalNoise = []string{"favicon", "tradingview", "TradingView", "plot.ly", "Plotly", "ERR_NAME_NOT_RESOLVED", "via.placeholder.com"}

// JSErrorCollector records uncaught exceptions and console.error output that
// is not attributable to external scripts. Attach it before navigating.
type JSErrorCollector struct {
	mu     sync.Mutex
	errors []string
}

func NewJSErrorCollector(ctx context.Context) *JSErrorCollector {
	c := &JSErrorCollector{}
	chromedp.ListenTarget(ctx, func(ev any) {
		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			c.record("EXCEPTION", exceptionText(e.ExceptionDetails))
		case *runtime.EventConsoleAPICalled:
			if e.Type == runtime.APITypeError {
				c.record("console.error", consoleText(e.Args))
			}
		}
	})
	return c
}

func exceptionText(d *runtime.ExceptionDetails) string {
	if d.Exception != nil && d.Exception.Description != "" {
		return d.Exception.Description
	}
	return d.Text
}

func consoleText(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case arg.Value != nil:
			parts = append(parts, string(arg.Value))
		case arg.Description != "":
			parts = append(parts, arg.Description)
		}
	}
	return strings.Join(parts, " ")
}

func (c *JSErrorCollector) record(kind, msg string) {
	if msg == "" || isNoise(msg) {
		return
	}
	c.mu.Lock()
	c.errors = append(c.errors, kind+": "+msg)
	c.mu.Unlock()
}

func isNoise(msg string) bool {
	for _, s := range externalNoise {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Errors returns a copy of everything recorded so far.
func (c *JSErrorCollector) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}

// NavigateAndWait loads url and pauses waitMs (800 when zero) for scripts.
func NavigateAndWait(ctx context.Context, url string, waitMs int) error {
	if waitMs == 0 {
		waitMs = 800
	}
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(time.Duration(waitMs)*time.Millisecond),
	)
}

// query evaluates a JS expression template with the escaped selector in
// place of %s.
func query[T any](ctx context.Context, expr, selector string) (T, error) {
	var out T
	err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(expr, escJS(selector)), &out))
	return out, err
}

func Exists(ctx context.Context, selector string) (bool, error) {
	return query[bool](ctx, `document.querySelector('%s') !== null`, selector)
}

func ElementCount(ctx context.Context, selector string) (int, error) {
	return query[int](ctx, `document.querySelectorAll('%s').length`, selector)
}

// TextContent returns the trimmed text of the first match, or "".
func TextContent(ctx context.Context, selector string) (string, error) {
	return query[string](ctx, `(() => { const el = document.querySelector('%s'); return el ? el.textContent.trim() : ''; })()`, selector)
}

// Screenshot writes a full-page JPEG to path.
func Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func escJS(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
