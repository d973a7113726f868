// Package widget builds the embed fragment for the TradingView chart widget.
package widget

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
)

// ContainerID is the element the widget mounts into.
const ContainerID = "tradingview_widget"

// Options are the display settings shared by every embedded chart.
type Options struct {
	ScriptURL         string
	Height            int
	Interval          string
	Timezone          string
	Theme             string
	Style             string
	Locale            string
	ToolbarBg         string
	AllowSymbolChange bool
}

// DefaultOptions returns a daily, light-themed, Chinese-locale chart in
// Shanghai time, 600px high.
func DefaultOptions() Options {
	return Options{
		ScriptURL:         "https://s3.tradingview.com/tv.js",
		Height:            600,
		Interval:          "D",
		Timezone:          "Asia/Shanghai",
		Theme:             "light",
		Style:             "1",
		Locale:            "zh_CN",
		ToolbarBg:         "#f1f3f6",
		AllowSymbolChange: true,
	}
}

// Settings is the configuration object passed to new TradingView.widget.
// Field order is the key order of the emitted object.
type Settings struct {
	Width             string `json:"width"`
	Height            int    `json:"height"`
	Symbol            string `json:"symbol"`
	Interval          string `json:"interval"`
	Timezone          string `json:"timezone"`
	Theme             string `json:"theme"`
	Style             string `json:"style"`
	Locale            string `json:"locale"`
	ToolbarBg         string `json:"toolbar_bg"`
	EnablePublishing  bool   `json:"enable_publishing"`
	AllowSymbolChange bool   `json:"allow_symbol_change"`
	ContainerID       string `json:"container_id"`
}

// NewSettings returns the widget configuration for a venue-qualified symbol.
func NewSettings(symbol string, opts Options) Settings {
	return Settings{
		Width:             "100%",
		Height:            opts.Height,
		Symbol:            symbol,
		Interval:          opts.Interval,
		Timezone:          opts.Timezone,
		Theme:             opts.Theme,
		Style:             opts.Style,
		Locale:            opts.Locale,
		ToolbarBg:         opts.ToolbarBg,
		EnablePublishing:  false,
		AllowSymbolChange: opts.AllowSymbolChange,
		ContainerID:       ContainerID,
	}
}

const embedFormat = `<div class="tradingview-widget-container">
    <div id="%s"></div>
    <script type="text/javascript" src="%s"></script>
    <script type="text/javascript">
    new TradingView.widget(%s);
    </script>
</div>`

// Embed returns a self-contained markup fragment that loads the widget
// script and instantiates it for symbol. The settings object is JSON encoded,
// which escapes <, > and & so symbol text cannot close the script element.
func Embed(symbol string, opts Options) (template.HTML, error) {
	cfg, err := json.MarshalIndent(NewSettings(symbol, opts), "    ", "  ")
	if err != nil {
		return "", fmt.Errorf("encode widget settings: %w", err)
	}
	return template.HTML(fmt.Sprintf(embedFormat, ContainerID, html.EscapeString(opts.ScriptURL), cfg)), nil
}
