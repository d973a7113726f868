// Package data reads the recommendation snapshot and the equity curve from disk.
package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bobmcallan/vire-picks/internal/models"
	"github.com/tidwall/gjson"
)

// snapshotKeys are the top-level keys today.json must carry.
var snapshotKeys = []string{"date", "top1", "top3", "top10"}

// LoadSnapshot reads and parses the snapshot at path.
// A missing file yields ErrSnapshotNotFound; anything unparseable yields
// ErrSnapshotMalformed.
func LoadSnapshot(path string) (*models.Snapshot, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
		}
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return ParseSnapshot(body)
}

// ParseSnapshot parses a today.json document. Each pick is either a
// two-element array [code, name] or an object {"code": .., "name": ..}.
func ParseSnapshot(body []byte) (*models.Snapshot, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrSnapshotMalformed)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrSnapshotMalformed)
	}
	for _, key := range snapshotKeys {
		if !root.Get(key).Exists() {
			return nil, fmt.Errorf("%w: missing key %q", ErrSnapshotMalformed, key)
		}
	}

	snap := &models.Snapshot{
		Date: root.Get("date").String(),
	}

	var err error
	if snap.Top1, err = parsePicks(root.Get("top1"), "top1"); err != nil {
		return nil, err
	}
	if snap.Top3, err = parsePicks(root.Get("top3"), "top3"); err != nil {
		return nil, err
	}
	if snap.Top10, err = parsePicks(root.Get("top10"), "top10"); err != nil {
		return nil, err
	}
	return snap, nil
}

func parsePicks(list gjson.Result, key string) ([]models.Pick, error) {
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: %s is not an array", ErrSnapshotMalformed, key)
	}

	items := list.Array()
	picks := make([]models.Pick, 0, len(items))
	for i, item := range items {
		switch {
		case item.IsArray():
			pair := item.Array()
			if len(pair) != 2 {
				return nil, fmt.Errorf("%w: %s[%d] has %d elements, want [code, name]", ErrSnapshotMalformed, key, i, len(pair))
			}
			picks = append(picks, models.Pick{Code: pair[0].String(), Name: pair[1].String()})
		case item.IsObject():
			code := item.Get("code")
			if !code.Exists() {
				return nil, fmt.Errorf("%w: %s[%d] has no code", ErrSnapshotMalformed, key, i)
			}
			picks = append(picks, models.Pick{Code: code.String(), Name: item.Get("name").String()})
		default:
			return nil, fmt.Errorf("%w: %s[%d] is neither a pair nor an object", ErrSnapshotMalformed, key, i)
		}
	}
	return picks, nil
}
