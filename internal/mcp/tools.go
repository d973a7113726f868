package mcp

import (
	"context"
	"strings"

	"github.com/bobmcallan/vire-picks/internal/data"
	"github.com/bobmcallan/vire-picks/internal/models"
	"github.com/bobmcallan/vire-picks/internal/symbol"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type registration struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// recommendation is a ranked pick with its TradingView symbol.
type recommendation struct {
	Rank   int    `json:"rank"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type recommendations struct {
	Date  string           `json:"date"`
	Top1  []recommendation `json:"top1,omitempty"`
	Top3  []recommendation `json:"top3,omitempty"`
	Top10 []recommendation `json:"top10,omitempty"`
}

type symbolInfo struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
}

type equitySummary struct {
	models.EquitySummary
	Points int    `json:"points"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// RegisterTools adds every tool to s and returns how many were registered.
func RegisterTools(s *server.MCPServer, docs Documents) int {
	regs := toolset(docs)
	for _, r := range regs {
		s.AddTool(r.tool, r.handler)
	}
	return len(regs)
}

func toolset(docs Documents) []registration {
	return []registration{
		{RecommendationsTool(), RecommendationsToolHandler(docs)},
		{SymbolTool(), SymbolToolHandler()},
		{EquitySummaryTool(), EquitySummaryToolHandler(docs)},
		{VersionTool(), VersionToolHandler()},
	}
}

// RecommendationsTool returns the get_recommendations tool definition.
func RecommendationsTool() mcp.Tool {
	return mcp.NewTool("get_recommendations",
		mcp.WithDescription("Get today's A-share recommendations (top1, top3, top10) with TradingView symbols."),
		mcp.WithString("tier",
			mcp.Description("Restrict the result to one list"),
			mcp.Enum("top1", "top3", "top10"),
		),
	)
}

// RecommendationsToolHandler returns the handler for get_recommendations.
func RecommendationsToolHandler(docs Documents) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tier := request.GetString("tier", "")
		switch tier {
		case "", "top1", "top3", "top10":
		default:
			return errorResult("tier must be one of top1, top3, top10"), nil
		}

		snap, err := docs.Snapshot()
		if err != nil {
			return loadError(err), nil
		}

		out := recommendations{Date: snap.Date}
		if tier == "" || tier == "top1" {
			out.Top1 = ranked(snap.Top1)
		}
		if tier == "" || tier == "top3" {
			out.Top3 = ranked(snap.Top3)
		}
		if tier == "" || tier == "top10" {
			out.Top10 = ranked(snap.Top10)
		}
		return jsonResult(out), nil
	}
}

func ranked(picks []models.Pick) []recommendation {
	out := make([]recommendation, len(picks))
	for i, p := range picks {
		out[i] = recommendation{Rank: i + 1, Code: p.Code, Name: p.Name, Symbol: symbol.Resolve(p.Code)}
	}
	return out
}

// SymbolTool returns the resolve_symbol tool definition.
func SymbolTool() mcp.Tool {
	return mcp.NewTool("resolve_symbol",
		mcp.WithDescription("Map a 6-digit A-share code to its TradingView symbol (SSE: or SZSE:)."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("6-digit stock code, e.g. 600519"),
		),
	)
}

// SymbolToolHandler returns the handler for resolve_symbol.
func SymbolToolHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code := strings.TrimSpace(request.GetString("code", ""))
		if code == "" {
			return errorResult("code is required"), nil
		}
		return jsonResult(symbolInfo{
			Code:     code,
			Symbol:   symbol.Resolve(code),
			Exchange: string(symbol.ExchangeOf(code)),
		}), nil
	}
}

// EquitySummaryTool returns the get_equity_summary tool definition.
func EquitySummaryTool() mcp.Tool {
	return mcp.NewTool("get_equity_summary",
		mcp.WithDescription("Get the initial value, current value and total return of the equal-weight equity curve."),
	)
}

// EquitySummaryToolHandler returns the handler for get_equity_summary.
func EquitySummaryToolHandler(docs Documents) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		points, err := docs.Equity()
		if err != nil {
			return loadError(err), nil
		}
		summary, err := data.Summarize(points)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(equitySummary{
			EquitySummary: summary,
			Points:        len(points),
			From:          points[0].Date.Format("2006-01-02"),
			To:            points[len(points)-1].Date.Format("2006-01-02"),
		}), nil
	}
}
