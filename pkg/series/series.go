// Package series holds time-indexed multi-series records and their loaders.
//
// A [Dataset] is an ordered list of [Record] values plus the series names
// found in the source, in column order. Records can be read from CSV
// ([ReadCSV]) or from the first sheet of an Excel workbook ([ReadXLSX]);
// [Load] picks the reader by file extension.
//
// Both formats share one layout: a header row whose first column is the
// date and whose remaining columns are series names, followed by one row
// per timestamp. Blank cells count as zero. Every other cell must be a
// finite, non-negative number.
package series

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/wordstream/pkg/errors"
)

// Default series and colors of the reference chart.
var (
	DefaultSeries = []string{"GPT-4", "Gemini", "PaLM-2", "Claude", "LLaMA-3.1"}

	DefaultColors = map[string]string{
		"GPT-4":     "#e41a1c",
		"Gemini":    "#377eb8",
		"PaLM-2":    "#4daf4a",
		"Claude":    "#984ea3",
		"LLaMA-3.1": "#ff7f00",
	}
)

// Record is one sample: a timestamp and a non-negative value per series.
type Record struct {
	Time   time.Time          `json:"time"`
	Values map[string]float64 `json:"values"`
}

// Value returns the value of name, or 0 when the record has none.
func (r Record) Value(name string) float64 { return r.Values[name] }

// Total returns the sum of the named series.
func (r Record) Total(names []string) float64 {
	var sum float64
	for _, n := range names {
		sum += r.Values[n]
	}
	return sum
}

// Dataset is an ordered list of records.
type Dataset struct {
	Series  []string `json:"series"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }

// Column returns the values of name across all records.
func (d Dataset) Column(name string) []float64 {
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Values[name]
	}
	return out
}

// SortByTime orders records by timestamp, keeping the order of equal ones.
func (d *Dataset) SortByTime() {
	slices.SortStableFunc(d.Records, func(a, b Record) int { return a.Time.Compare(b.Time) })
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate accepts ISO dates, year-month, US-style dates and RFC 3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidFormat, "unrecognized date %q", s)
}

// fromRows builds a dataset from a header row and data rows.
func fromRows(rows [][]string) (Dataset, error) {
	if len(rows) == 0 {
		return Dataset{}, errors.New(errors.ErrCodeInvalidFormat, "missing header row")
	}
	header := rows[0]
	if len(header) < 2 {
		return Dataset{}, errors.New(errors.ErrCodeInvalidFormat, "header needs a date column and at least one series")
	}

	names := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		names = append(names, strings.TrimSpace(h))
	}
	if err := errors.ValidateSeriesNames(names); err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Series: names, Records: make([]Record, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2
		ts, err := ParseDate(row[0])
		if err != nil {
			return Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d", line)
		}
		rec := Record{Time: ts, Values: make(map[string]float64, len(names))}
		for j, name := range names {
			var cell string
			if j+1 < len(row) {
				cell = strings.TrimSpace(row[j+1])
			}
			if cell == "" {
				rec.Values[name] = 0
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d, %s", line, name)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Dataset{}, errors.New(errors.ErrCodeInvalidInput, "row %d, %s: non-finite value %q", line, name, cell)
			}
			if v < 0 {
				return Dataset{}, errors.New(errors.ErrCodeInvalidInput, "row %d, %s: negative value %v", line, name, v)
			}
			rec.Values[name] = v
		}
		ds.Records = append(ds.Records, rec)
	}
	ds.SortByTime()
	return ds, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
