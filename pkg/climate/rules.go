package climate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadFromFile reads threshold overrides from a CSV or XLSX sheet.
// Columns: Metric, CriticalLow, WarningLow, WarningHigh, CriticalHigh.
// A blank cell keeps the default edge; "-" or "none" removes it.
func LoadFromFile(path string) (*Evaluator, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("thresholds: unsupported file type %q", path)
	}
	if err != nil {
		return nil, err
	}
	overrides, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("thresholds %s: %w", filepath.Base(path), err)
	}
	return WithBands(overrides)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return x.GetRows(sheets[0])
}

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	for _, r := range []string{" ", "-", "_"} {
		s = strings.ReplaceAll(s, r, "")
	}
	return s
}

func parseRows(rows [][]string) (map[Metric]Band, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty sheet")
	}
	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[normHeader(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[normHeader(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cMetric := findAny("Metric", "sensor", "parameter")
	cols := [4]int{
		findAny("CriticalLow", "crit_low", "min_critical"),
		findAny("WarningLow", "warn_low", "min_warning"),
		findAny("WarningHigh", "warn_high", "max_warning"),
		findAny("CriticalHigh", "crit_high", "max_critical"),
	}
	if cMetric == -1 {
		return nil, fmt.Errorf("missing Metric column, found headers: %v", rows[0])
	}

	defaults := DefaultBands()
	out := map[Metric]Band{}
	for n, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		if get(cMetric) == "" {
			continue
		}
		m, err := ParseMetric(get(cMetric))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		b := defaults[m]
		edges := [4]*float64{&b.CriticalLow, &b.WarningLow, &b.WarningHigh, &b.CriticalHigh}
		for i, col := range cols {
			v, ok, err := parseEdge(get(col), i < 2)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
			if ok {
				*edges[i] = v
			}
		}
		if !b.Valid() {
			return nil, fmt.Errorf("row %d: %w", n+2, ErrBandOrder)
		}
		out[m] = b
	}
	return out, nil
}

func parseEdge(s string, low bool) (float64, bool, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, false, nil
	case "-", "none":
		if low {
			return negInf, true, nil
		}
		return posInf, true, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad number %q", s)
	}
	return v, true, nil
}
