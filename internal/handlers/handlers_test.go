package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/vire-picks/internal/config"
	"github.com/bobmcallan/vire-picks/internal/dashboard"
	"github.com/bobmcallan/vire-picks/internal/data"
	"github.com/bobmcallan/vire-picks/internal/widget"
)

const testSnapshot = `{
  "date": "2026-10-16",
  "top1": [["600519", "贵州茅台"]],
  "top3": [["600519", "贵州茅台"], ["000858", "五粮液"], ["300750", "宁德时代"]],
  "top10": [
    ["600519", "贵州茅台"],
    ["000858", "五粮液"],
    ["300750", "宁德时代"],
    ["688981", "中芯国际"],
    ["430047", "诺思兰德"]
  ]
}`

const testEquity = "date,equity\n2026-10-14,1.0\n2026-10-15,1.05\n2026-10-16,1.1\n"

// testStore writes the given documents into a temp dir. An empty string leaves
// the file absent.
func testStore(t *testing.T, snapshot, equity string) *data.Store {
	t.Helper()
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "today.json")
	eqPath := filepath.Join(dir, "equity.csv")
	if snapshot != "" {
		if err := os.WriteFile(snapPath, []byte(snapshot), 0o644); err != nil {
			t.Fatalf("write snapshot: %v", err)
		}
	}
	if equity != "" {
		if err := os.WriteFile(eqPath, []byte(equity), 0o644); err != nil {
			t.Fatalf("write equity: %v", err)
		}
	}
	return data.NewStore(data.StoreOptions{SnapshotPath: snapPath, EquityPath: eqPath}, nil)
}

func testDashboard(t *testing.T, store *data.Store) *DashboardHandler {
	t.Helper()
	cfg := config.NewDefaultConfig()
	renderer := dashboard.NewRenderer(store, dashboard.Options{
		Title:       cfg.Page.Title,
		Icon:        cfg.Page.Icon,
		Layout:      cfg.Page.Layout,
		Widget:      widget.DefaultOptions(),
		FrameHeight: cfg.Widget.FrameHeight,
		PlotlyURL:   cfg.Chart.PlotlyURL,
		Support: dashboard.SupportSection{
			WeChatQRURL: cfg.Support.WeChatQRURL,
			AlipayQRURL: cfg.Support.AlipayQRURL,
		},
	}, nil)
	return NewDashboardHandler(nil, renderer, FindPagesDir(), false)
}

func getBody(t *testing.T, h http.Handler, target string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

// --- Health ---

func TestHealthHandler_ReturnsOK(t *testing.T) {
	store := testStore(t, testSnapshot, "")
	handler := NewHealthHandler(nil, store.SnapshotPath(), store.EquityPath())

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
	if body["snapshot"] != "present" {
		t.Errorf("expected snapshot present, got %s", body["snapshot"])
	}
	if body["equity"] != "missing" {
		t.Errorf("expected equity missing, got %s", body["equity"])
	}
}

func TestHealthHandler_RejectsNonGET(t *testing.T) {
	handler := NewHealthHandler(nil, "", "")

	req := httptest.NewRequest("POST", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

// --- Version ---

func TestVersionHandler_ReturnsVersionInfo(t *testing.T) {
	handler := NewVersionHandler(nil)

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	for _, key := range []string{"version", "build", "git_commit"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected %s field in response", key)
		}
	}
}

// --- Dashboard ---

func TestDashboardHandler_RendersFullPage(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, testEquity))

	code, body := getBody(t, handler, "/")
	if code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", code)
	}

	for _, want := range []string{
		"A股量化推荐",
		"[日历] 数据更新日期：2026-10-16",
		"[金牌]", "[银牌]", "[铜牌]",
		"600519 - 贵州茅台",
		"[图表] 贵州茅台 (600519) - TradingView图表",
		`"symbol": "SSE:600519"`,
		`id="metric-return"`,
		"10.00%",
		"等权持有策略资金曲线",
		"微信支付",
		"支付宝",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "[警告]") {
		t.Error("expected no warning when equity curve is present")
	}
}

func TestDashboardHandler_SelectsRequestedCode(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, testEquity))

	_, body := getBody(t, handler, "/?code=000858")

	if !strings.Contains(body, `"symbol": "SZSE:000858"`) {
		t.Error("expected widget for SZSE:000858")
	}
	if !strings.Contains(body, `<option value="000858 - 五粮液" selected>`) {
		t.Error("expected 000858 to be the selected option")
	}
}

func TestDashboardHandler_SelectsByLabel(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, testEquity))

	_, body := getBody(t, handler, "/?pick="+url.QueryEscape("300750 - 宁德时代"))

	if !strings.Contains(body, `"symbol": "SZSE:300750"`) {
		t.Error("expected widget for SZSE:300750")
	}
	if !strings.Contains(body, `<option value="300750 - 宁德时代" selected>`) {
		t.Error("expected 300750 to be the selected option")
	}
}

func TestDashboardHandler_UnknownCodeFallsBackToFirst(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, testEquity))

	_, body := getBody(t, handler, "/?code=999999")

	if !strings.Contains(body, `"symbol": "SSE:600519"`) {
		t.Error("expected fallback to first top10 entry")
	}
}

func TestDashboardHandler_UnknownVenueDefaultsToSSE(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, testEquity))

	_, body := getBody(t, handler, "/?code=430047")

	if !strings.Contains(body, `"symbol": "SSE:430047"`) {
		t.Error("expected 430047 to resolve to SSE:430047")
	}
}

func TestDashboardHandler_MissingSnapshot(t *testing.T) {
	handler := testDashboard(t, testStore(t, "", testEquity))

	code, body := getBody(t, handler, "/")
	if code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", code)
	}
	if !strings.Contains(body, dashboard.MsgSnapshotNotFound) {
		t.Error("expected snapshot-not-found message")
	}
	for _, absent := range []string{"数据更新日期", "stock-select", "equity-chart", "微信支付"} {
		if strings.Contains(body, absent) {
			t.Errorf("expected error-only page, found %q", absent)
		}
	}
}

func TestDashboardHandler_MalformedSnapshot(t *testing.T) {
	handler := testDashboard(t, testStore(t, `{"date": "2026-10-16", "top1": [`, testEquity))

	code, body := getBody(t, handler, "/")
	if code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", code)
	}
	if !strings.Contains(body, dashboard.MsgSnapshotMalformed) {
		t.Error("expected malformed-snapshot message")
	}
	if strings.Contains(body, "stock-select") {
		t.Error("expected no selector on error page")
	}
}

func TestDashboardHandler_MissingEquityShowsOneWarning(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, ""))

	code, body := getBody(t, handler, "/")
	if code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", code)
	}
	if n := strings.Count(body, dashboard.MsgEquityNotFound); n != 1 {
		t.Errorf("expected exactly one equity warning, got %d", n)
	}
	if strings.Contains(body, `id="equity-chart"`) {
		t.Error("expected no chart without equity curve")
	}
	if !strings.Contains(body, "微信支付") {
		t.Error("expected support panel after the warning")
	}
}

func TestDashboardHandler_EmptyTop10Returns500(t *testing.T) {
	snap := `{"date":"2026-10-16","top1":[],"top3":[],"top10":[]}`
	handler := testDashboard(t, testStore(t, snap, testEquity))

	code, _ := getBody(t, handler, "/")
	if code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", code)
	}
}

func TestDashboardHandler_IncompleteEquityReturns500(t *testing.T) {
	tests := []struct {
		name   string
		equity string
	}{
		{"blank cell", "date,equity\n2026-10-15,1.0\n2026-10-16,\n"},
		{"missing column", "date,value\n2026-10-15,1.0\n"},
		{"nan", "date,equity\n2026-10-15,NaN\n2026-10-16,1.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := testDashboard(t, testStore(t, testSnapshot, tt.equity))

			code, body := getBody(t, handler, "/")
			if code != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", code)
			}
			if strings.Contains(body, "-100.00%") {
				t.Error("expected no computed return for incomplete curve")
			}
		})
	}
}

func TestDashboardHandler_MalformedEquityReturns500(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, "date,equity\n2026-10-16,abc\n"))

	code, _ := getBody(t, handler, "/")
	if code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", code)
	}
}

func TestDashboardHandler_XSSEscaping(t *testing.T) {
	snap := `{"date":"<script>alert(1)</script>","top1":[["600519","<b>x</b>"]],"top3":[],"top10":[["600519","<b>x</b>"]]}`
	handler := testDashboard(t, testStore(t, snap, ""))

	_, body := getBody(t, handler, "/")

	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("expected date to be escaped")
	}
	if strings.Contains(body, "<b>x</b>") {
		t.Error("expected stock name to be escaped")
	}
}

func TestDashboardHandler_UnknownPathReturns404(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, testEquity))

	code, _ := getBody(t, handler, "/nope")
	if code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", code)
	}
}

func TestDashboardHandler_RejectsPost(t *testing.T) {
	handler := testDashboard(t, testStore(t, testSnapshot, testEquity))

	req := httptest.NewRequest("POST", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

// --- API ---

func TestAPIHandler_Snapshot(t *testing.T) {
	handler := NewAPIHandler(nil, testStore(t, testSnapshot, ""))

	req := httptest.NewRequest("GET", "/api/snapshot", nil)
	w := httptest.NewRecorder()
	handler.HandleSnapshot(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body SnapshotResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Date != "2026-10-16" {
		t.Errorf("expected date 2026-10-16, got %s", body.Date)
	}
	if len(body.Top10) != 5 {
		t.Fatalf("expected 5 top10 entries, got %d", len(body.Top10))
	}
	if body.Top10[1].Symbol != "SZSE:000858" {
		t.Errorf("expected SZSE:000858, got %s", body.Top10[1].Symbol)
	}
	if body.Top10[3].Exchange != "SSE" {
		t.Errorf("expected SSE exchange for 688981, got %s", body.Top10[3].Exchange)
	}
}

func TestAPIHandler_SnapshotErrors(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
		want     int
	}{
		{"missing", "", http.StatusNotFound},
		{"malformed", "not json", http.StatusUnprocessableEntity},
		{"missing key", `{"date":"2026-10-16","top1":[],"top3":[]}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAPIHandler(nil, testStore(t, tt.snapshot, ""))

			req := httptest.NewRequest("GET", "/api/snapshot", nil)
			w := httptest.NewRecorder()
			handler.HandleSnapshot(w, req)

			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if body["status"] != "error" {
				t.Errorf("expected status error, got %s", body["status"])
			}
		})
	}
}

func TestAPIHandler_Equity(t *testing.T) {
	handler := NewAPIHandler(nil, testStore(t, "", testEquity))

	req := httptest.NewRequest("GET", "/api/equity", nil)
	w := httptest.NewRecorder()
	handler.HandleEquity(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body EquityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(body.Points) != 3 {
		t.Errorf("expected 3 points, got %d", len(body.Points))
	}
	if body.Summary.Initial != 1.0 || body.Summary.Current != 1.1 {
		t.Errorf("unexpected summary: %+v", body.Summary)
	}
}

func TestAPIHandler_EquityMissing(t *testing.T) {
	handler := NewAPIHandler(nil, testStore(t, "", ""))

	req := httptest.NewRequest("GET", "/api/equity", nil)
	w := httptest.NewRecorder()
	handler.HandleEquity(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestAPIHandler_Symbol(t *testing.T) {
	handler := NewAPIHandler(nil, testStore(t, "", ""))

	req := httptest.NewRequest("GET", "/api/symbol?code=300750", nil)
	w := httptest.NewRecorder()
	handler.HandleSymbol(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body PickResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Symbol != "SZSE:300750" {
		t.Errorf("expected SZSE:300750, got %s", body.Symbol)
	}
	if body.Exchange != "SZSE" {
		t.Errorf("expected SZSE, got %s", body.Exchange)
	}
}

func TestAPIHandler_SymbolRequiresCode(t *testing.T) {
	handler := NewAPIHandler(nil, testStore(t, "", ""))

	req := httptest.NewRequest("GET", "/api/symbol", nil)
	w := httptest.NewRecorder()
	handler.HandleSymbol(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// --- Static ---

func TestStaticHandler_ServesCSS(t *testing.T) {
	handler := NewStaticHandler(FindPagesDir())

	code, body := getBody(t, handler, "/static/css/dashboard.css")
	if code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", code)
	}
	if body == "" {
		t.Error("expected non-empty stylesheet")
	}
}

func TestStaticHandler_BlocksTraversal(t *testing.T) {
	handler := NewStaticHandler(FindPagesDir())

	code, _ := getBody(t, handler, "/static/../dashboard.html")
	if code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", code)
	}
}

// --- Helpers ---

func TestRequireMethod_AllowsHeadForGet(t *testing.T) {
	req := httptest.NewRequest("HEAD", "/", nil)
	w := httptest.NewRecorder()

	if !RequireMethod(w, req, http.MethodGet) {
		t.Error("expected HEAD to be accepted for GET")
	}
}

func TestWriteError_Shape(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusTeapot, "short and stout")

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["error"] != "short and stout" {
		t.Errorf("unexpected error field: %s", body["error"])
	}
}

func TestRequireMethod_SetsAllowHeader(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/api/snapshot", nil)
	w := httptest.NewRecorder()

	if RequireMethod(w, req, http.MethodGet, http.MethodPost) {
		t.Fatal("expected DELETE to be rejected")
	}
	if got := w.Header().Get("Allow"); got != "GET, POST" {
		t.Errorf("expected Allow: GET, POST, got %q", got)
	}
}
