// Package chart describes the equity curve as a Plotly figure. The figure is
// serialised to JSON and drawn in the browser by Plotly.js.
package chart

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/bobmcallan/vire-picks/internal/models"
)

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a scatter trace.
type Trace struct {
	Type      string    `json:"type"`
	X         []string  `json:"x"`
	Y         []float64 `json:"y"`
	Mode      string    `json:"mode"`
	Name      string    `json:"name"`
	Line      Line      `json:"line"`
	Fill      string    `json:"fill,omitempty"`
	FillColor string    `json:"fillcolor,omitempty"`
}

// Line styles a trace's line.
type Line struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

// Layout is the figure layout.
type Layout struct {
	Title  Text   `json:"title"`
	XAxis  Axis   `json:"xaxis"`
	YAxis  Axis   `json:"yaxis"`
	Height int    `json:"height"`
	Margin Margin `json:"margin"`
}

// Text is a Plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Axis carries an axis title.
type Axis struct {
	Title Text `json:"title"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// EquityFigure returns a filled line-and-marker chart of equity over date.
func EquityFigure(points []models.EquityPoint) Figure {
	x := make([]string, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.Date.Format("2006-01-02")
		y[i] = p.Equity
	}

	return Figure{
		Data: []Trace{{
			Type:      "scatter",
			X:         x,
			Y:         y,
			Mode:      "lines+markers",
			Name:      "资金曲线",
			Line:      Line{Color: "#1f77b4", Width: 2},
			Fill:      "tozeroy",
			FillColor: "rgba(31, 119, 180, 0.1)",
		}},
		Layout: Layout{
			Title:  Text{Text: "等权持有策略资金曲线"},
			XAxis:  Axis{Title: Text{Text: "日期"}},
			YAxis:  Axis{Title: Text{Text: "资金价值"}},
			Height: 400,
			Margin: Margin{L: 20, R: 20, T: 40, B: 20},
		},
	}
}

// JS returns the figure as a JavaScript object literal for a <script> block.
func (f Figure) JS() (template.JS, error) {
	out, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encode equity figure: %w", err)
	}
	return template.JS(out), nil
}
