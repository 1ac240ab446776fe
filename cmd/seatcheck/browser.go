package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/iliyamo/cinema-seat-alert/internal/popup"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
)

// chromeBrowser opens the page in Chrome on first use.  The probe is not
// injected up front; the controller does that when the tab asks for it.
type chromeBrowser struct {
	ctx  context.Context
	url  string
	opts []scanner.Option

	tab      *scanner.ChromeTab
	closeTab context.CancelFunc
}

func (b *chromeBrowser) ActiveTab(ctx context.Context) (popup.Tab, error) {
	if b.tab != nil {
		return b.tab, nil
	}
	tab, closeTab, err := scanner.OpenTab(b.ctx, b.url, b.opts...)
	if err != nil {
		return nil, err
	}
	b.tab, b.closeTab = tab, closeTab
	return tab, nil
}

func (b *chromeBrowser) close() {
	if b.closeTab != nil {
		b.closeTab()
	}
}

// snapshotBrowser has a single tab showing a saved page.
type snapshotBrowser struct {
	tab *scanner.SnapshotTab
}

func (b snapshotBrowser) ActiveTab(context.Context) (popup.Tab, error) { return b.tab, nil }

func newBrowser(ctx context.Context, o options) (popup.Browser, func(), error) {
	if o.url == "" {
		return nil, nil, errors.New("missing -url: pass the address of the seating page")
	}
	if o.snapshot != "" {
		f, err := os.Open(o.snapshot)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		page, err := scanner.NewHTMLPage(f)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", o.snapshot, err)
		}
		return snapshotBrowser{tab: scanner.NewSnapshotTab(o.url, page, o.scanOpts...)}, func() {}, nil
	}

	browserCtx, closeBrowser, err := scanner.NewBrowser(ctx, o.headless)
	if err != nil {
		return nil, nil, err
	}
	b := &chromeBrowser{ctx: browserCtx, url: o.url, opts: o.scanOpts}
	return b, func() {
		b.close()
		closeBrowser()
	}, nil
}
