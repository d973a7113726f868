package mcp

import (
	"net/http"

	"github.com/bobmcallan/vire-picks/internal/common"
	"github.com/bobmcallan/vire-picks/internal/models"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Documents is the data the tools read from.
type Documents interface {
	Snapshot() (*models.Snapshot, error)
	Equity() ([]models.EquityPoint, error)
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	tools      int
}

// NewServer creates the MCP server with every tool registered.
func NewServer(docs Documents) *mcpserver.MCPServer {
	mcpSrv, _ := newServer(docs)
	return mcpSrv
}

func newServer(docs Documents) (*mcpserver.MCPServer, int) {
	mcpSrv := mcpserver.NewMCPServer(
		"vire-picks",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	return mcpSrv, RegisterTools(mcpSrv, docs)
}

// NewHandler creates a new stateless MCP handler over docs.
func NewHandler(docs Documents, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	mcpSrv, count := newServer(docs)
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", count).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		tools:      count,
	}
}

// ToolCount returns the number of registered tools.
func (h *Handler) ToolCount() int {
	return h.tools
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
