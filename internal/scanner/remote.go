package scanner

import (
	"context"
	"fmt"
)

// Remote scans seating pages in fresh tabs of one shared browser.  It is
// safe for concurrent use; every call gets its own tab.
type Remote struct {
	browser context.Context
	opts    []Option
}

// NewRemote returns a Remote opening tabs in the browser behind
// browserCtx (see NewBrowser).
func NewRemote(browserCtx context.Context, opts ...Option) *Remote {
	return &Remote{browser: browserCtx, opts: opts}
}

// Scan loads url, injects the probe and serves req.  The tab is closed
// when Scan returns or ctx ends, whichever comes first.
func (r *Remote) Scan(ctx context.Context, url string, req Request) (Response, error) {
	tab, closeTab, err := OpenTab(r.browser, url, r.opts...)
	if err != nil {
		return Response{}, err
	}
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	if err := tab.Inject(ctx); err != nil {
		return Response{}, err
	}
	resp, err := tab.Send(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("scan %s: %w", url, err)
	}
	return resp, nil
}
