package fuelcross

import (
	"encoding/csv"
	"io"
	"strconv"
)

// utf8BOM keeps Excel from guessing a legacy code page when the report
// is opened directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVHeader is the column order of the downloadable report.
var CSVHeader = []string{"PRECIO", "CANTIDAD", "IMPORTE", "Fecha y Hora Formateada", "Descripcion", "UNIDAD"}

// WriteCSV writes the attributed purchases as UTF-8 CSV with a byte
// order marker. Missing numeric values are written as empty cells.
func WriteCSV(w io.Writer, rows []AttributedPurchase) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			formatMeasure(r.Price),
			formatMeasure(r.Quantity),
			formatMeasure(r.Amount),
			r.Stamp,
			r.Description,
			r.VehicleID,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMeasure(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
