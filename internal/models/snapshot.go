package models

// Pick is one recommended stock: a 6-digit exchange code and its display name.
type Pick struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Label returns the selector key for the pick, "{code} - {name}".
func (p Pick) Label() string {
	return p.Code + " - " + p.Name
}

// Snapshot is the daily recommendation document (today.json).
type Snapshot struct {
	Date  string `json:"date"`
	Top1  []Pick `json:"top1"`
	Top3  []Pick `json:"top3"`
	Top10 []Pick `json:"top10"`
}
