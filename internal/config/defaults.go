package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 8501,
			Host: "localhost",
		},
		Data: DataConfig{
			SnapshotPath: "today.json",
			EquityPath:   "equity.csv",
			Cache:        true,
			CacheEntries: 16,
		},
		Page: PageConfig{
			Title:  "A股量化推荐",
			Icon:   "📊",
			Layout: "wide",
		},
		Widget: WidgetConfig{
			ScriptURL:         "https://s3.tradingview.com/tv.js",
			Height:            600,
			FrameHeight:       650,
			Interval:          "D",
			Timezone:          "Asia/Shanghai",
			Theme:             "light",
			Style:             "1",
			Locale:            "zh_CN",
			ToolbarBg:         "#f1f3f6",
			AllowSymbolChange: true,
		},
		Chart: ChartConfig{
			PlotlyURL: "https://cdn.plot.ly/plotly-2.35.2.min.js",
		},
		Support: SupportConfig{
			WeChatQRURL: "https://via.placeholder.com/200x200.png?text=微信支付二维码",
			AlipayQRURL: "https://via.placeholder.com/200x200.png?text=支付宝二维码",
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
