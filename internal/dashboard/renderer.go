// Package dashboard assembles the recommendation page from the snapshot and
// the equity curve.
package dashboard

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bobmcallan/vire-picks/internal/chart"
	"github.com/bobmcallan/vire-picks/internal/common"
	"github.com/bobmcallan/vire-picks/internal/data"
	"github.com/bobmcallan/vire-picks/internal/models"
	"github.com/bobmcallan/vire-picks/internal/symbol"
	"github.com/bobmcallan/vire-picks/internal/widget"
)

// ErrNoPicks is returned when top10 is empty and the selector has no default.
var ErrNoPicks = errors.New("snapshot top10 is empty")

// Source supplies the two input documents.
type Source interface {
	Snapshot() (*models.Snapshot, error)
	Equity() ([]models.EquityPoint, error)
}

// Options are the static page settings.
type Options struct {
	Title       string
	Icon        string
	Layout      string
	Widget      widget.Options
	FrameHeight int
	PlotlyURL   string
	Support     SupportSection
}

// Renderer builds a Page per request.
type Renderer struct {
	source Source
	opts   Options
	logger *common.Logger
}

// NewRenderer creates a renderer reading from source.
func NewRenderer(source Source, opts Options, logger *common.Logger) *Renderer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Renderer{source: source, opts: opts, logger: logger}
}

// Render builds the page. key picks the detail stock by its selector label
// ("{code} - {name}") or by bare code; empty or unknown keys select the
// first top10 entry.
//
// A missing or malformed snapshot produces a page carrying only Error. A
// missing equity curve adds one warning. Any other failure (empty top10, bad
// CSV rows, a zero starting value) is returned as an error.
func (r *Renderer) Render(key string) (*Page, error) {
	page := &Page{
		Title:  r.opts.Title,
		Icon:   r.opts.Icon,
		Layout: r.opts.Layout,
	}

	snap, err := r.source.Snapshot()
	switch {
	case errors.Is(err, data.ErrSnapshotNotFound):
		r.logger.Warn().Err(err).Msg("snapshot missing")
		page.Error = MsgSnapshotNotFound
		return page, nil
	case errors.Is(err, data.ErrSnapshotMalformed):
		r.logger.Warn().Err(err).Msg("snapshot malformed")
		page.Error = MsgSnapshotMalformed
		return page, nil
	case err != nil:
		return nil, err
	}

	page.Date = snap.Date
	if len(snap.Top1) > 0 {
		top := snap.Top1[0]
		page.Top1 = &top
	}
	page.Top3 = rankTop3(snap.Top3)
	page.Top10 = rank(snap.Top10)

	if len(snap.Top10) == 0 {
		return nil, ErrNoPicks
	}
	page.Options, page.Selected, err = r.selection(snap.Top10, key)
	if err != nil {
		return nil, err
	}

	points, err := r.source.Equity()
	switch {
	case errors.Is(err, data.ErrEquityNotFound):
		page.Warnings = append(page.Warnings, MsgEquityNotFound)
	case err != nil:
		return nil, err
	default:
		section, err := r.equitySection(points)
		if err != nil {
			return nil, err
		}
		page.Equity = section
	}

	page.Support = r.opts.Support
	page.Risks = RiskNotes
	return page, nil
}

func (r *Renderer) selection(top10 []models.Pick, key string) ([]Option, *Selection, error) {
	selected := selectedIndex(top10, key)

	options := make([]Option, len(top10))
	for i, p := range top10 {
		options[i] = Option{Label: p.Label(), Code: p.Code, Selected: i == selected}
	}

	pick := top10[selected]
	sym := symbol.Resolve(pick.Code)
	embed, err := widget.Embed(sym, r.opts.Widget)
	if err != nil {
		return nil, nil, err
	}

	return options, &Selection{
		Pick:        pick,
		Symbol:      sym,
		Heading:     fmt.Sprintf("[图表] %s (%s) - TradingView图表", pick.Name, pick.Code),
		Widget:      embed,
		FrameHeight: r.opts.FrameHeight,
	}, nil
}

// selectedIndex matches key against labels first so duplicate codes under
// different names stay selectable.
func selectedIndex(top10 []models.Pick, key string) int {
	if key == "" {
		return 0
	}
	if i := slices.IndexFunc(top10, func(p models.Pick) bool { return p.Label() == key }); i >= 0 {
		return i
	}
	if i := slices.IndexFunc(top10, func(p models.Pick) bool { return p.Code == key }); i >= 0 {
		return i
	}
	return 0
}

func (r *Renderer) equitySection(points []models.EquityPoint) (*EquitySection, error) {
	summary, err := data.Summarize(points)
	if err != nil {
		return nil, err
	}
	fig, err := chart.EquityFigure(points).JS()
	if err != nil {
		return nil, err
	}
	return &EquitySection{
		Summary:     summary,
		Initial:     common.FormatEquity(summary.Initial),
		Current:     common.FormatEquity(summary.Current),
		TotalReturn: common.FormatPct(summary.TotalReturnPct),
		Figure:      fig,
		PlotlyURL:   r.opts.PlotlyURL,
	}, nil
}

func rank(picks []models.Pick) []RankedPick {
	out := make([]RankedPick, len(picks))
	for i, p := range picks {
		out[i] = RankedPick{Pick: p, Rank: i + 1}
	}
	return out
}

func rankTop3(picks []models.Pick) []RankedPick {
	out := rank(picks)
	for i := range out {
		if i < len(badges) {
			out[i].Badge = badges[i]
		} else {
			out[i].Badge = badges[len(badges)-1]
		}
	}
	return out
}
