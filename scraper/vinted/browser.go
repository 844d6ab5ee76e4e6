package vinted

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"market-scout/utils"
)

// BrowserSource renders catalog pages in headless Chrome before handing back the DOM.
// Use it when the catalog only fills its grid client-side.
type BrowserSource struct {
	browserCtx context.Context
	cancel     context.CancelFunc
	timeout    time.Duration
	settle     time.Duration
	logger     *utils.Logger
}

// NewBrowserSource starts a headless browser. chromeBin may be empty, in which case
// the usual install locations are searched.
func NewBrowserSource(chromeBin, userAgent string, timeout time.Duration, logger *utils.Logger) (*BrowserSource, error) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	if chromeBin == "" {
		return nil, fmt.Errorf("vinted: no chrome binary found (set CHROME_BIN)")
	}
	logger.Info("[browser] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
		chromedp.ExecPath(chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so a bad binary fails here and not on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("vinted: start browser: %w", err)
	}

	return &BrowserSource{
		browserCtx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		timeout: timeout,
		settle:  2 * time.Second,
		logger:  logger,
	}, nil
}

// Fetch opens pageURL in a new tab and returns the rendered document.
func (b *BrowserSource) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout+b.settle)
	defer cancelTimeout()

	var status documentStatus
	chromedp.ListenTarget(tabCtx, status.observe)

	var html string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("vinted: render %s: %w", pageURL, err)
	}
	if err := status.check(pageURL); err != nil {
		return nil, err
	}
	b.logger.Debug("[browser] Rendered %s (%d bytes)", pageURL, len(html))
	return []byte(html), nil
}

// documentStatus records the HTTP status of the first document response in a tab.
type documentStatus struct {
	code atomic.Int64
}

func (d *documentStatus) observe(ev interface{}) {
	e, ok := ev.(*network.EventResponseReceived)
	if !ok || e.Type != network.ResourceTypeDocument || e.Response == nil {
		return
	}
	d.code.CompareAndSwap(0, e.Response.Status)
}

// check returns a StatusError for a non-2xx document. No response seen is not an error.
func (d *documentStatus) check(pageURL string) error {
	code := d.code.Load()
	if code == 0 || (code >= 200 && code < 300) {
		return nil
	}
	return &StatusError{URL: pageURL, Code: int(code)}
}

// Close shuts the browser down.
func (b *BrowserSource) Close() {
	b.cancel()
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
