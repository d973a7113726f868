package server

import "net/http"

type route struct {
	pattern string
	handler http.Handler
}

// routes lists every endpoint. The MCP route is omitted when disabled.
func (s *Server) routes() []route {
	a := s.app
	rs := []route{
		{"/", a.DashboardHandler},
		{"/static/", a.StaticHandler},
		{"/api/health", a.HealthHandler},
		{"/api/version", a.VersionHandler},
		{"/api/snapshot", http.HandlerFunc(a.APIHandler.HandleSnapshot)},
		{"/api/equity", http.HandlerFunc(a.APIHandler.HandleEquity)},
		{"/api/symbol", http.HandlerFunc(a.APIHandler.HandleSymbol)},
		{"/api/", http.HandlerFunc(apiNotFound)},
	}
	if a.MCPHandler != nil {
		rs = append(rs, route{"/mcp", a.MCPHandler})
	}
	return rs
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	for _, r := range s.routes() {
		mux.Handle(r.pattern, r.handler)
	}
	return mux
}

// apiNotFound answers unmatched /api/ paths with a JSON 404.
func apiNotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"status":"error","error":"endpoint not found"}`))
}
