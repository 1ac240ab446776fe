package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// LoadTimeout bounds navigation to a seating page and the wait for its
// seat buttons to render.
const LoadTimeout = 20 * time.Second

// probeScript installs window.__seatProbe, the in-page half of the scanner.
// The Go side only ever talks to the page through it.
const probeScript = `(() => {
  window.__seatProbe = {
    buttons: () => Array.from(document.getElementsByTagName("button")).map((b) => ({
      text: b.textContent || "",
      classes: Array.from(b.classList),
    })),
    meta: () => {
      const list = document.querySelector("` + MetaSelector + `");
      if (!list) return null;
      const head = list.previousElementSibling;
      return {
        headline: head ? head.textContent : "",
        items: Array.from(list.children).map((c) => c.textContent || ""),
      };
    },
    zoom: () => {
      const z = document.querySelector("` + ZoomSelector + `");
      if (!z) return false;
      z.click();
      return true;
    },
  };
  return true;
})()`

// dismissCookieDialog removes the consent overlay that covers the seat map
// on a fresh browser profile.
const dismissCookieDialog = `(() => {
  const close = document.querySelector(".osano-cm-dialog__close");
  if (close) { close.click(); }
  const dialog = document.querySelector(".osano-cm-dialog");
  if (dialog) { dialog.remove(); }
  return true;
})()`

// NewBrowser starts Chrome with the flags the booking site tolerates.
// Tabs opened from the returned context share this one browser.  Call the
// returned function to shut it down.
func NewBrowser(parent context.Context, headless bool) (context.Context, context.CancelFunc, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		browserCancel()
		allocCancel()
	}
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("start chrome: %w", err)
	}
	return browserCtx, cancel, nil
}

// ChromePage is a Page backed by a chromedp tab.
type ChromePage struct {
	ctx context.Context // chromedp tab context
}

// NewChromePage wraps an existing chromedp tab context.
func NewChromePage(tabCtx context.Context) *ChromePage {
	return &ChromePage{ctx: tabCtx}
}

func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(p.ctx, actions...)
}

// Installed reports whether the probe is present in the page.
func (p *ChromePage) Installed(ctx context.Context) (bool, error) {
	var ok bool
	if err := p.run(ctx, chromedp.Evaluate(`typeof window.__seatProbe === "object" && window.__seatProbe !== null`, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

// Inject installs the probe.  Installing twice is harmless.
func (p *ChromePage) Inject(ctx context.Context) error {
	var ok bool
	if err := p.run(ctx, chromedp.Evaluate(probeScript, &ok)); err != nil {
		return fmt.Errorf("inject probe: %w", err)
	}
	return nil
}

// Buttons implements Page.
func (p *ChromePage) Buttons(ctx context.Context) ([]Element, error) {
	var res struct {
		Missing bool      `json:"missing"`
		Buttons []Element `json:"buttons"`
	}
	const js = `(() => window.__seatProbe ? {buttons: window.__seatProbe.buttons()} : {missing: true})()`
	if err := p.run(ctx, chromedp.Evaluate(js, &res)); err != nil {
		return nil, err
	}
	if res.Missing {
		return nil, ErrProbeMissing
	}
	return res.Buttons, nil
}

// ShowMeta implements Page.
func (p *ChromePage) ShowMeta(ctx context.Context) (string, []string, error) {
	var res struct {
		Missing bool `json:"missing"`
		Meta    *struct {
			Headline string   `json:"headline"`
			Items    []string `json:"items"`
		} `json:"meta"`
	}
	const js = `(() => window.__seatProbe ? {meta: window.__seatProbe.meta()} : {missing: true})()`
	if err := p.run(ctx, chromedp.Evaluate(js, &res)); err != nil {
		return "", nil, err
	}
	if res.Missing {
		return "", nil, ErrProbeMissing
	}
	if res.Meta == nil {
		return "", nil, ErrNoShowInfo
	}
	return res.Meta.Headline, res.Meta.Items, nil
}

// ClickZoom implements Page.
func (p *ChromePage) ClickZoom(ctx context.Context) (bool, error) {
	var res struct {
		Missing bool `json:"missing"`
		Clicked bool `json:"clicked"`
	}
	const js = `(() => window.__seatProbe ? {clicked: window.__seatProbe.zoom()} : {missing: true})()`
	if err := p.run(ctx, chromedp.Evaluate(js, &res)); err != nil {
		return false, err
	}
	if res.Missing {
		return false, ErrProbeMissing
	}
	return res.Clicked, nil
}
