package app

import (
	"strings"

	"github.com/bobmcallan/vire-picks/internal/common"
	"github.com/bobmcallan/vire-picks/internal/config"
	"github.com/bobmcallan/vire-picks/internal/dashboard"
	"github.com/bobmcallan/vire-picks/internal/data"
	"github.com/bobmcallan/vire-picks/internal/handlers"
	"github.com/bobmcallan/vire-picks/internal/mcp"
	"github.com/bobmcallan/vire-picks/internal/widget"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Store    *data.Store
	Renderer *dashboard.Renderer

	// HTTP handlers
	DashboardHandler *handlers.DashboardHandler
	StaticHandler    *handlers.StaticHandler
	APIHandler       *handlers.APIHandler
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	MCPHandler       *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Validate environment setting
	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE: templates are reloaded on every request")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	a.initData()
	a.initHandlers()

	logger.Info().
		Str("snapshot", cfg.Data.SnapshotPath).
		Str("equity", cfg.Data.EquityPath).
		Bool("cache", cfg.Data.Cache).
		Msg("application initialization complete")

	return a, nil
}

// initData creates the document store and the page renderer.
func (a *App) initData() {
	a.Store = data.NewStore(data.StoreOptions{
		SnapshotPath: a.Config.Data.SnapshotPath,
		EquityPath:   a.Config.Data.EquityPath,
		Cache:        a.Config.Data.Cache,
		CacheEntries: a.Config.Data.CacheEntries,
	}, a.Logger)

	a.Renderer = dashboard.NewRenderer(a.Store, RendererOptions(a.Config), a.Logger)
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	pagesDir := handlers.FindPagesDir()

	a.DashboardHandler = handlers.NewDashboardHandler(a.Logger, a.Renderer, pagesDir, a.Config.IsDevMode())
	a.StaticHandler = handlers.NewStaticHandler(pagesDir)
	a.APIHandler = handlers.NewAPIHandler(a.Logger, a.Store)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Config.Data.SnapshotPath, a.Config.Data.EquityPath)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	if a.Config.MCP.Enabled {
		a.MCPHandler = mcp.NewHandler(a.Store, a.Logger)
	}

	a.Logger.Debug().Str("pages_dir", pagesDir).Msg("HTTP handlers initialized")
}

// RendererOptions maps configuration onto the page renderer settings.
func RendererOptions(cfg *config.Config) dashboard.Options {
	w := cfg.Widget
	return dashboard.Options{
		Title:  cfg.Page.Title,
		Icon:   cfg.Page.Icon,
		Layout: cfg.Page.Layout,
		Widget: widget.Options{
			ScriptURL:         w.ScriptURL,
			Height:            w.Height,
			Interval:          w.Interval,
			Timezone:          w.Timezone,
			Theme:             w.Theme,
			Style:             w.Style,
			Locale:            w.Locale,
			ToolbarBg:         w.ToolbarBg,
			AllowSymbolChange: w.AllowSymbolChange,
		},
		FrameHeight: w.FrameHeight,
		PlotlyURL:   cfg.Chart.PlotlyURL,
		Support: dashboard.SupportSection{
			WeChatQRURL: cfg.Support.WeChatQRURL,
			AlipayQRURL: cfg.Support.AlipayQRURL,
		},
	}
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
