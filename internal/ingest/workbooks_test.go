package ingest

import (
	"errors"
	"strings"
	"testing"
)

func telemetryWorkbook() *Workbook {
	return &Workbook{sheets: []*Sheet{
		{
			Name:   "Viajes",
			Header: []string{"№", "Agrupación", "Comienzo", "Kilometraje", "Kilometraje urbano", "Kilometraje suburbano"},
			Rows: [][]string{
				{"1", "Grupo Norte", "", "", "", ""},
				{"1.1", "V1", "15.03.2024 08:00:00", "100", "40", "60"},
				{"1.2", "V1", "16.03.2024 08:00:00", "50", "10", "40"},
				{"2", "Grupo Sur", "", "", "", ""},
				{"2.1", "V2", "15.03.2024 09:00:00", "80", "not-a-number", "80"},
				{"2.2", "", "15.03.2024", "10", "0", "10"},
			},
		},
		{
			Name:   "Llenados de combustible ...",
			Header: []string{"№", "Agrupación", "Tiempo", "Llenado registrado"},
			Rows: [][]string{
				{"1.1", "V1", "15.03.2024 12:00:00", "35,5"},
				{"1", "Subtotal", "", "120"},
			},
		},
		{
			Name:   "Coste de utilización",
			Header: []string{"№", "Agrupación", "Hora de registro", "Coste"},
			Rows: [][]string{
				{"1.1", "V1", "15.03.2024 12:05:00", "$ 850.00"},
			},
		},
	}}
}

func TestParseTelemetry(t *testing.T) {
	data, err := ParseTelemetry(telemetryWorkbook())
	if err != nil {
		t.Fatalf("ParseTelemetry: %v", err)
	}

	// Subtotal rows (integer counter) and rows without a vehicle are
	// dropped; the bad-number row is kept with a missing marker.
	if len(data.Trips) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(data.Trips))
	}
	if data.Trips[0].VehicleID != "V1" || *data.Trips[0].DistanceKm != 100 {
		t.Fatalf("unexpected first trip: %+v", data.Trips[0])
	}
	if data.Trips[2].UrbanKm != nil {
		t.Fatalf("unparsable urban km should be nil, got %f", *data.Trips[2].UrbanKm)
	}
	if data.Coercions != 1 {
		t.Fatalf("expected 1 coercion failure, got %d", data.Coercions)
	}

	if len(data.Fillups) != 1 || *data.Fillups[0].Liters != 35.5 {
		t.Fatalf("unexpected fillups: %+v", data.Fillups)
	}
	if len(data.Costs) != 1 || *data.Costs[0].Amount != 850 {
		t.Fatalf("unexpected costs: %+v", data.Costs)
	}
}

func TestParseTelemetryTruncatedSheetName(t *testing.T) {
	// The fillups sheet arrives with a truncated name; lookup by the
	// canonical name must still resolve it.
	wb := telemetryWorkbook()
	if _, err := wb.Sheet(SheetFillups); err != nil {
		t.Fatalf("truncated sheet name not resolved: %v", err)
	}
}

func TestParseTelemetryMissingColumn(t *testing.T) {
	wb := telemetryWorkbook()
	wb.sheets[0].Header = []string{"№", "Agrupación", "Comienzo", "Kilometraje", "Kilometraje urbano"}

	_, err := ParseTelemetry(wb)
	if err == nil {
		t.Fatalf("expected structural error for missing column")
	}
	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnError, got %T: %v", err, err)
	}
	if mce.Sheet != "Viajes" || mce.Column != "Kilometraje suburbano" {
		t.Fatalf("error should name sheet and column: %+v", mce)
	}
	if !strings.Contains(err.Error(), "Viajes") {
		t.Fatalf("error text should mention the sheet: %v", err)
	}
}

func TestParseTelemetryMissingSheet(t *testing.T) {
	wb := telemetryWorkbook()
	wb.sheets = wb.sheets[:2]

	_, err := ParseTelemetry(wb)
	var mse *MissingSheetError
	if !errors.As(err, &mse) {
		t.Fatalf("expected MissingSheetError, got %T: %v", err, err)
	}
	if mse.Sheet != SheetCosts {
		t.Fatalf("error should name the costs sheet, got %q", mse.Sheet)
	}
}

func TestParseRoster(t *testing.T) {
	wb := &Workbook{sheets: []*Sheet{
		{
			Name:   "Campos personalizados",
			Header: []string{"Conductor", "Nombre", "Valor"},
			Rows: [][]string{
				{"Juan PÃ©rez", "TAG", "'001234"},
				{"", "TAG", "orphan"},
				{"Ana LÃ³pez", "DEPARTAMENTO", "LogÃ­stica"},
			},
		},
		{
			Name:   "Asignaciones",
			Header: []string{"Unidad", "Conductor", "Comienzo"},
			Rows: [][]string{
				{"V1", "Juan PÃ©rez", "01.02.2024"},
				{"V1", "Ana LÃ³pez", "15.02.2024"},
				{"", "Nadie", "01.01.2024"},
			},
		},
	}}

	data, err := ParseRoster(wb)
	if err != nil {
		t.Fatalf("ParseRoster: %v", err)
	}
	if len(data.Fields) != 2 {
		t.Fatalf("driverless field rows must be dropped, got %d", len(data.Fields))
	}
	if data.Fields[0].DriverID != "Juan Pérez" {
		t.Fatalf("mojibake driver not repaired: %q", data.Fields[0].DriverID)
	}
	if data.Fields[1].Value != "Logística" {
		t.Fatalf("mojibake value not repaired: %q", data.Fields[1].Value)
	}
	if len(data.Assignments) != 2 {
		t.Fatalf("vehicle-less assignment must be dropped, got %d", len(data.Assignments))
	}
	if data.Assignments[1].DriverID != "Ana López" || data.Assignments[1].StartAt == nil {
		t.Fatalf("unexpected assignment: %+v", data.Assignments[1])
	}
}

func TestParsePurchases(t *testing.T) {
	wb := &Workbook{sheets: []*Sheet{
		{
			Name:   "Hoja1",
			Header: []string{"FECHA", "TAG", "PRODUCTO", "MODELO", "PRECIO", "CANTIDAD", "IMPORTE"},
			Rows: [][]string{
				{"12.04.2024 08:30:15", "'001234", "Diesel", "T680", "23.50", "40", "940.00"},
				{"", "", "", "", "", "", ""},
			},
		},
	}}

	data, err := ParsePurchases(wb)
	if err != nil {
		t.Fatalf("ParsePurchases: %v", err)
	}
	if len(data.Purchases) != 1 {
		t.Fatalf("blank trailer row must be skipped, got %d rows", len(data.Purchases))
	}
	p := data.Purchases[0]
	if p.Tag != "'001234" {
		t.Fatalf("tag should keep its source spelling, got %q", p.Tag)
	}
	if *p.Amount != 940 || p.PurchasedAt == nil || p.Product != "Diesel" {
		t.Fatalf("unexpected purchase: %+v", p)
	}
}

func TestParsePurchasesMissingTagColumn(t *testing.T) {
	wb := &Workbook{sheets: []*Sheet{
		{Name: "Hoja1", Header: []string{"FECHA", "PRECIO", "CANTIDAD", "IMPORTE"}},
	}}
	_, err := ParsePurchases(wb)
	var mce *MissingColumnError
	if !errors.As(err, &mce) || mce.Column != "TAG" {
		t.Fatalf("expected missing TAG column error, got %v", err)
	}
}
