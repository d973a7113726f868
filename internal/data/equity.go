package data

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/vire-picks/internal/models"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// equityRow mirrors one line of equity.csv. Equity stays text so an empty
// cell is an error instead of a zero.
type equityRow struct {
	Date   string `csv:"date"`
	Equity string `csv:"equity"`
}

var equityColumns = []string{"date", "equity"}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"20060102",
	time.RFC3339,
	time.DateTime,
}

var hundred = decimal.NewFromInt(100)

// LoadEquity reads and parses the equity curve at path.
// A missing file yields ErrEquityNotFound.
func LoadEquity(path string) ([]models.EquityPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrEquityNotFound, path)
		}
		return nil, fmt.Errorf("open equity curve %s: %w", path, err)
	}
	defer f.Close()

	return ParseEquity(f)
}

// ParseEquity parses CSV with a header row containing date and equity
// columns. Rows are returned in file order.
func ParseEquity(r io.Reader) ([]models.EquityPoint, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read equity curve: %w", err)
	}
	if err := checkEquityHeader(body); err != nil {
		return nil, err
	}

	var rows []equityRow
	if err := gocsv.UnmarshalBytes(body, &rows); err != nil {
		return nil, fmt.Errorf("parse equity curve: %w", err)
	}

	points := make([]models.EquityPoint, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("equity curve row %d: %w", i+1, err)
		}
		value, err := parseEquityValue(row.Equity)
		if err != nil {
			return nil, fmt.Errorf("equity curve row %d: %w", i+1, err)
		}
		points = append(points, models.EquityPoint{Date: date, Equity: value})
	}
	return points, nil
}

// checkEquityHeader requires both the date and equity columns.
func checkEquityHeader(body []byte) error {
	header, err := csv.NewReader(bytes.NewReader(body)).Read()
	if err != nil {
		return fmt.Errorf("parse equity curve header: %w", err)
	}
	for _, want := range equityColumns {
		if !slices.ContainsFunc(header, func(col string) bool {
			return strings.TrimSpace(col) == want
		}) {
			return fmt.Errorf("equity curve header missing %q column", want)
		}
	}
	return nil
}

// parseEquityValue rejects empty cells and non-finite numbers.
func parseEquityValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing equity value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid equity value %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite equity value %q", s)
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Summarize derives the initial value, current value and total return
// percentage from the first and last points.
func Summarize(points []models.EquityPoint) (models.EquitySummary, error) {
	if len(points) == 0 {
		return models.EquitySummary{}, errors.New("equity curve is empty")
	}

	for i, p := range points {
		if math.IsNaN(p.Equity) || math.IsInf(p.Equity, 0) {
			return models.EquitySummary{}, fmt.Errorf("equity curve point %d is not finite", i+1)
		}
	}

	first := decimal.NewFromFloat(points[0].Equity)
	last := decimal.NewFromFloat(points[len(points)-1].Equity)
	if first.IsZero() {
		return models.EquitySummary{}, errors.New("equity curve starts at zero")
	}

	pct, _ := last.Sub(first).Div(first).Mul(hundred).Float64()
	return models.EquitySummary{
		Initial:        points[0].Equity,
		Current:        points[len(points)-1].Equity,
		TotalReturnPct: pct,
	}, nil
}
