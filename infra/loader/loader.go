// Package loader reads per-rate discharge curves from CSV files. It is the
// file-I/O collaborator of the dataset layer: it only collects labeled raw
// points, all normalization happens in core/dataset.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emarine/cellfit/core/dataset"
)

// ReadDir loads every discharge curve in dir. Curve files are named after
// their discharge rate, e.g. "0.5C.csv" or "1C.csv"; the rate label is the
// file stem with the trailing "C" removed. Each file holds two columns, the
// progress variable and the terminal voltage, with an optional header row.
func ReadDir(dir string) (map[string][]dataset.Point, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read curve directory: %w", err)
	}
	curves := make(map[string][]dataset.Point)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		label := strings.TrimSuffix(stem, "C")
		points, err := ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		curves[label] = points
	}
	if len(curves) == 0 {
		return nil, fmt.Errorf("no curve files (*.csv) found in %s", dir)
	}
	return curves, nil
}

// ReadFile parses one two-column curve file into raw points.
func ReadFile(path string) ([]dataset.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open curve file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var points []dataset.Point
	for i, rec := range records {
		x, errX := strconv.ParseFloat(rec[0], 64)
		v, errV := strconv.ParseFloat(rec[1], 64)
		if errX != nil || errV != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("%s row %d: non-numeric values %q,%q", path, i+1, rec[0], rec[1])
		}
		points = append(points, dataset.Point{X: x, Voltage: v})
	}
	return points, nil
}
