package dashboard

import (
	"html/template"

	"github.com/bobmcallan/vire-picks/internal/models"
)

// User-visible messages.
const (
	MsgSnapshotNotFound  = "[错误] 找不到today.json文件，请确保数据文件存在"
	MsgSnapshotMalformed = "[错误] today.json文件格式错误"
	MsgEquityNotFound    = "[警告] 资金曲线数据文件不存在"
)

// Rank badges for the top-3 panel.
var badges = [...]string{"[金牌]", "[银牌]", "[铜牌]"}

// RiskNotes is the fixed risk disclosure list.
var RiskNotes = []string{
	"本推荐仅供参考，不构成投资建议",
	"股票投资有风险，入市需谨慎",
	"请根据自身风险承受能力投资",
	"过往表现不代表未来收益",
}

// Page is everything the dashboard template needs for one render. When Error
// is set nothing else is populated.
type Page struct {
	Title  string
	Icon   string
	Layout string

	Error string

	Date     string
	Top1     *models.Pick
	Top3     []RankedPick
	Top10    []RankedPick
	Options  []Option
	Selected *Selection

	Equity   *EquitySection
	Warnings []string

	Support SupportSection
	Risks   []string
}

// RankedPick is a pick with its 1-based rank and, for the top-3 panel, a badge.
type RankedPick struct {
	models.Pick
	Rank  int
	Badge string
}

// Option is one entry of the stock selector.
type Option struct {
	Label    string
	Code     string
	Selected bool
}

// Selection is the stock shown in the detail view.
type Selection struct {
	models.Pick
	Symbol      string
	Heading     string
	Widget      template.HTML
	FrameHeight int
}

// EquitySection holds the formatted summary metrics and the chart.
type EquitySection struct {
	Summary     models.EquitySummary
	Initial     string
	Current     string
	TotalReturn string
	Figure      template.JS
	PlotlyURL   string
}

// SupportSection holds the subscription panel images.
type SupportSection struct {
	WeChatQRURL string
	AlipayQRURL string
}
