package scanner

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// blockedResources are not needed to read the seat map.
var blockedResources = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.mp4", "*.woff", "*.woff2"}

// ChromeTab is a browser tab showing a seating page.  Requests are only
// served once the probe has been injected, the same way a page only
// answers once its content script is loaded.
type ChromeTab struct {
	page *ChromePage
	opts []Option
}

// OpenTab opens url in a new tab of the browser behind browserCtx and waits
// for seat buttons to render.  It does not inject the probe.
func OpenTab(browserCtx context.Context, url string, opts ...Option) (*ChromeTab, context.CancelFunc, error) {
	tabCtx, cancel := chromedp.NewContext(browserCtx)
	loadCtx, loadCancel := context.WithTimeout(tabCtx, LoadTimeout)
	defer loadCancel()

	var ignored bool
	if err := chromedp.Run(loadCtx, loadActions(url, &ignored)...); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("open %s: %w", url, err)
	}
	return &ChromeTab{page: NewChromePage(tabCtx), opts: opts}, cancel, nil
}

// loadActions navigates to url with heavy resources blocked, waits for the
// first button and closes the cookie banner if one is shown.
func loadActions(url string, dismissed *bool) []chromedp.Action {
	return []chromedp.Action{
		network.Enable(),
		network.SetBlockedURLS(blockedResources),
		chromedp.Navigate(url),
		chromedp.WaitReady("button", chromedp.ByQuery),
		chromedp.Evaluate(dismissCookieDialog, dismissed),
	}
}

// AttachTab wraps an already open chromedp tab.
func AttachTab(tabCtx context.Context, opts ...Option) *ChromeTab {
	return &ChromeTab{page: NewChromePage(tabCtx), opts: opts}
}

// URL returns the tab's current location.
func (t *ChromeTab) URL(ctx context.Context) (string, error) {
	var loc string
	if err := t.page.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// Send delivers a request to the in-page scanner.  It returns
// ErrProbeMissing when the probe has not been injected.
func (t *ChromeTab) Send(ctx context.Context, req Request) (Response, error) {
	ok, err := t.page.Installed(ctx)
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return Response{}, ErrProbeMissing
	}
	return New(t.page, t.opts...).Handle(ctx, req), nil
}

// Inject installs the in-page scanner.
func (t *ChromeTab) Inject(ctx context.Context) error {
	return t.page.Inject(ctx)
}

// SnapshotTab serves requests from a saved snapshot of a seating page.
type SnapshotTab struct {
	url  string
	page *HTMLPage
	opts []Option
}

// NewSnapshotTab pairs a snapshot with the URL it was saved from.
func NewSnapshotTab(url string, page *HTMLPage, opts ...Option) *SnapshotTab {
	return &SnapshotTab{url: url, page: page, opts: opts}
}

// URL returns the URL the snapshot was taken from.
func (t *SnapshotTab) URL(ctx context.Context) (string, error) { return t.url, nil }

// Send scans the snapshot.
func (t *SnapshotTab) Send(ctx context.Context, req Request) (Response, error) {
	return New(t.page, t.opts...).Handle(ctx, req), nil
}

// Inject is a no-op; snapshots need no probe.
func (t *SnapshotTab) Inject(ctx context.Context) error { return nil }
