package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage serves buttons before and after a zoom click.
type fakePage struct {
	before, after []Element
	hasZoom       bool
	zoomed        bool
	zoomClicks    int
	headline      string
	items         []string
	metaErr       error
	buttonsErr    error
	panicOnButton bool
}

func (p *fakePage) Buttons(ctx context.Context) ([]Element, error) {
	if p.panicOnButton {
		panic("boom")
	}
	if p.buttonsErr != nil {
		return nil, p.buttonsErr
	}
	if p.zoomed {
		return p.after, nil
	}
	return p.before, nil
}

func (p *fakePage) ShowMeta(ctx context.Context) (string, []string, error) {
	if p.metaErr != nil {
		return "", nil, p.metaErr
	}
	return p.headline, p.items, nil
}

func (p *fakePage) ClickZoom(ctx context.Context) (bool, error) {
	p.zoomClicks++
	if !p.hasZoom {
		return false, nil
	}
	p.zoomed = true
	return true, nil
}

func btn(label string, occupied bool) Element {
	e := Element{Text: " " + label + " ", Classes: []string{"seat"}}
	if occupied {
		e.Classes = append(e.Classes, UnavailableClass)
	}
	return e
}

type sleepRecorder struct{ calls []time.Duration }

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return nil
}

func newTestScanner(p Page, rec *sleepRecorder) *Scanner {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	return New(p, WithSleep(rec.sleep), WithLocation(time.UTC), WithClock(func() time.Time { return now }))
}

func metaPage() *fakePage {
	return &fakePage{
		headline: "Dune: Part Two",
		items:    []string{"AMC Lincoln Square 13", "Today, Feb 16, 2025", "7:30pm"},
	}
}

func TestCheckSeatsPartitionsWithoutZoom(t *testing.T) {
	p := metaPage()
	p.before = []Element{btn("A1", true), btn("A2", false), btn("B7", false)}
	rec := &sleepRecorder{}

	resp := newTestScanner(p, rec).Handle(context.Background(), Request{Action: ActionCheckSeat, SeatNumbers: []string{"A1", "A2"}})

	require.False(t, resp.Failed(), resp.Error)
	assert.Equal(t, []string{"A1"}, resp.OccupiedSeats)
	assert.Equal(t, []string{"A2"}, resp.AvailableSeats)
	assert.Equal(t, "AMC Lincoln Square 13", resp.TheaterName)
	assert.Equal(t, "Dune: Part Two", resp.MovieName)
	assert.Equal(t, "7:30pm", resp.MovieShowtime)
	require.NotNil(t, resp.Date)
	assert.Equal(t, time.Date(2025, 2, 16, 19, 30, 0, 0, time.UTC), *resp.Date)
	assert.Zero(t, p.zoomClicks)
	assert.Empty(t, rec.calls)
}

func TestCheckSeatsZoomsOnceAndWaitsSettleDelay(t *testing.T) {
	p := metaPage()
	p.hasZoom = true
	p.before = []Element{btn("A1", false)}
	p.after = []Element{btn("A1", false), btn("B2", true)}
	rec := &sleepRecorder{}

	resp := newTestScanner(p, rec).CheckSeats(context.Background(), []string{"A1", "B2"})

	require.False(t, resp.Failed(), resp.Error)
	assert.Equal(t, []string{"B2"}, resp.OccupiedSeats)
	assert.Equal(t, []string{"A1"}, resp.AvailableSeats)
	assert.Equal(t, 1, p.zoomClicks)
	assert.Equal(t, []time.Duration{SettleDelay}, rec.calls)
}

func TestCheckSeatsMissingAfterZoomIsAnError(t *testing.T) {
	p := metaPage()
	p.hasZoom = true
	p.before = []Element{btn("A1", false)}
	p.after = []Element{btn("A1", false)}
	rec := &sleepRecorder{}

	resp := newTestScanner(p, rec).CheckSeats(context.Background(), []string{"A1", "B2"})

	assert.Equal(t, Response{Error: MsgSeatsNotFound}, resp)
	assert.Equal(t, 1, p.zoomClicks)
}

func TestCheckSeatsWithoutZoomControlSkipsWait(t *testing.T) {
	p := metaPage()
	p.before = []Element{btn("A1", false)}
	rec := &sleepRecorder{}

	resp := newTestScanner(p, rec).CheckSeats(context.Background(), []string{"A1", "B2"})

	assert.Equal(t, MsgSeatsNotFound, resp.Error)
	assert.Equal(t, 1, p.zoomClicks)
	assert.Empty(t, rec.calls)
}

func TestCheckSeatsDuplicateButtonsDoNotCountTwice(t *testing.T) {
	p := metaPage()
	p.before = []Element{btn("A1", false), btn("A1", false)}
	resp := newTestScanner(p, &sleepRecorder{}).CheckSeats(context.Background(), []string{"A1", "A2"})
	assert.Equal(t, MsgSeatsNotFound, resp.Error)
}

func TestSingleSeatOccupiedAndAvailable(t *testing.T) {
	p := metaPage()
	p.before = []Element{btn("C4", true)}
	resp := newTestScanner(p, &sleepRecorder{}).CheckSeats(context.Background(), []string{"C4"})
	assert.Equal(t, []string{"C4"}, resp.OccupiedSeats)
	assert.Empty(t, resp.AvailableSeats)

	p.before = []Element{btn("C4", false)}
	resp = newTestScanner(p, &sleepRecorder{}).CheckSeats(context.Background(), []string{"C4"})
	assert.Empty(t, resp.OccupiedSeats)
	assert.Equal(t, []string{"C4"}, resp.AvailableSeats)
}

func TestAllOccupiedFiltersSeatShapedButtons(t *testing.T) {
	p := metaPage()
	var before []Element
	for i := 1; i <= 12; i++ {
		before = append(before, btn(fmt.Sprintf("D%d", i), i%3 == 0))
	}
	before = append(before, Element{Text: "Continue"}, Element{Text: "a1"})
	p.before = before

	resp := newTestScanner(p, &sleepRecorder{}).Handle(context.Background(), Request{Action: ActionGetAllOccupiedSeats})

	require.False(t, resp.Failed())
	assert.Equal(t, []string{"D3", "D6", "D9", "D12"}, resp.OccupiedSeats)
	assert.Len(t, resp.AvailableSeats, 8)
	assert.Zero(t, p.zoomClicks)
}

func TestAllOccupiedZoomsWhenFewSeatsAndFailsWhenNone(t *testing.T) {
	p := metaPage()
	p.hasZoom = true
	rec := &sleepRecorder{}

	resp := newTestScanner(p, rec).AllOccupied(context.Background())

	assert.Equal(t, MsgNoSeatsOnScreen, resp.Error)
	assert.Equal(t, 1, p.zoomClicks)
	assert.Len(t, rec.calls, 1)
}

func TestMissingShowInfo(t *testing.T) {
	p := metaPage()
	p.metaErr = ErrNoShowInfo
	resp := newTestScanner(p, &sleepRecorder{}).CheckSeats(context.Background(), []string{"A1"})
	assert.Equal(t, MsgNoShowInfo, resp.Error)
}

func TestPageErrorsAndPanicsBecomeResponses(t *testing.T) {
	p := metaPage()
	p.buttonsErr = errors.New("target closed")
	resp := newTestScanner(p, &sleepRecorder{}).CheckSeats(context.Background(), []string{"A1"})
	assert.Equal(t, MsgScanFailed, resp.Error)

	p = metaPage()
	p.panicOnButton = true
	resp = newTestScanner(p, &sleepRecorder{}).Handle(context.Background(), Request{Action: ActionCheckSeat, SeatNumbers: []string{"A1"}})
	assert.Equal(t, MsgScanFailed, resp.Error)
}

func TestUnknownAction(t *testing.T) {
	resp := newTestScanner(metaPage(), &sleepRecorder{}).Handle(context.Background(), Request{Action: "ping"})
	assert.Equal(t, MsgUnknownAction, resp.Error)
}

func TestUnparseableDateIsPassedThroughAsNull(t *testing.T) {
	p := metaPage()
	p.items = []string{"AMC Empire 25", "Someday soon", "late"}
	p.before = []Element{btn("A1", false)}

	resp := newTestScanner(p, &sleepRecorder{}).CheckSeats(context.Background(), []string{"A1"})

	require.False(t, resp.Failed())
	assert.Nil(t, resp.Date)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"date":null`)
}

func TestErrorResponseJSONCarriesOnlyError(t *testing.T) {
	raw, err := json.Marshal(Response{Error: MsgSeatsNotFound})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Some seat numbers were not found on this screen."}`, string(raw))
}

func TestHTMLPageSnapshotWithZoom(t *testing.T) {
	const before = `<html><body>
<h1 class="headline">Nosferatu</h1>
<ul><li>AMC Empire 25</li><li>Monday, February 17, 2025</li><li>9:45 PM</li></ul>
<button class="rounded-full bg-gray-400 p-4">+</button>
<button class="seat">E1</button>
</body></html>`
	const after = `<html><body>
<h1 class="headline">Nosferatu</h1>
<ul><li>AMC Empire 25</li><li>Monday, February 17, 2025</li><li>9:45 PM</li></ul>
<button class="seat"> E1 </button>
<button class="seat cursor-not-allowed"><span>E2</span></button>
</body></html>`

	page, err := NewHTMLPage(strings.NewReader(before))
	require.NoError(t, err)
	require.NoError(t, page.WithZoomed(strings.NewReader(after)))
	rec := &sleepRecorder{}

	resp := newTestScanner(page, rec).CheckSeats(context.Background(), []string{"E1", "E2"})

	require.False(t, resp.Failed(), resp.Error)
	assert.Equal(t, []string{"E2"}, resp.OccupiedSeats)
	assert.Equal(t, []string{"E1"}, resp.AvailableSeats)
	assert.Equal(t, "Nosferatu", resp.MovieName)
	assert.Equal(t, "AMC Empire 25", resp.TheaterName)
	require.NotNil(t, resp.Date)
	assert.Equal(t, time.Date(2025, 2, 17, 21, 45, 0, 0, time.UTC), *resp.Date)
	assert.Len(t, rec.calls, 1)
}

func TestHTMLPageWithoutMetadata(t *testing.T) {
	page, err := NewHTMLPage(strings.NewReader(`<html><body><button>A1</button></body></html>`))
	require.NoError(t, err)
	_, _, err = page.ShowMeta(context.Background())
	assert.ErrorIs(t, err, ErrNoShowInfo)

	zoomed, err := page.ClickZoom(context.Background())
	require.NoError(t, err)
	assert.False(t, zoomed)
}

func TestSnapshotTabServesRequests(t *testing.T) {
	page, err := NewHTMLPage(strings.NewReader(`<div class="headline">X</div><ul><li>T</li></ul><button>A1</button>`))
	require.NoError(t, err)
	tab := NewSnapshotTab("https://www.amctheatres.com/showtimes/1/seats", page)

	url, err := tab.URL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://www.amctheatres.com/showtimes/1/seats", url)
	require.NoError(t, tab.Inject(context.Background()))

	resp, err := tab.Send(context.Background(), Request{Action: ActionCheckSeat, SeatNumbers: []string{"A1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, resp.AvailableSeats)
}

func TestLoadActionsBlockHeavyResources(t *testing.T) {
	var dismissed bool
	actions := loadActions("https://www.amctheatres.com/showtimes/1/seats", &dismissed)
	require.Len(t, actions, 5)

	assert.IsType(t, &network.EnableParams{}, actions[0])
	blocked, ok := actions[1].(*network.SetBlockedURLSParams)
	require.True(t, ok)
	raw, err := json.Marshal(blocked)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"*.png"`)
	assert.Contains(t, string(raw), `"*.woff2"`)
}
