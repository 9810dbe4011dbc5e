package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/emarine/cellfit/core/ecm"
)

// WriteJSON writes the parameter table to w in JSON format.
func WriteJSON(w io.Writer, rows []ecm.ParamRow) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rows)
}

// WriteCSV writes the parameter table to w in CSV format with the
// soc,OCV,Rs header, one row per grid point.
func WriteCSV(w io.Writer, rows []ecm.ParamRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"soc", "OCV", "Rs"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatFloat(r.SoC, 'f', -1, 64),
			strconv.FormatFloat(r.OCV, 'f', -1, 64),
			strconv.FormatFloat(r.Rs, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
