package ingest

import (
	"time"

	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
	"github.com/Oscargtgzz/Rendimientos/internal/textfix"
)

// Sheet names of the Wialon telemetry and roster workbooks.
const (
	SheetTrips       = "Viajes"
	SheetFillups     = "Llenados de combustible"
	SheetCosts       = "Coste de utilización"
	SheetCustomField = "Campos personalizados"
	SheetAssignments = "Asignaciones"
)

// TelemetryData is the normalized content of one telemetry workbook.
type TelemetryData struct {
	Trips   []dbpkg.Trip
	Fillups []dbpkg.Fillup
	Costs   []dbpkg.Cost

	SheetRows map[string]int

	// Coercions counts per-value failures recovered as missing markers.
	Coercions int
}

// RosterData is the normalized content of one roster workbook.
type RosterData struct {
	Fields      []dbpkg.DriverField
	Assignments []dbpkg.Assignment

	SheetRows map[string]int
	Coercions int
}

// PurchaseData is the normalized content of one fuel-purchase export.
type PurchaseData struct {
	Purchases []dbpkg.FuelPurchase

	SheetRows map[string]int
	Coercions int
}

// ParseTelemetry normalizes the three telemetry sheets. An absent
// sheet or date-bearing column is a structural error that fails the
// whole workbook; unparsable cells inside valid sheets degrade to
// missing markers and the row is kept.
func ParseTelemetry(wb *Workbook) (*TelemetryData, error) {
	data := &TelemetryData{SheetRows: make(map[string]int)}

	trips, err := wb.Sheet(SheetTrips)
	if err != nil {
		return nil, err
	}
	rowCol, err := trips.RequireColumn(aliasRowNumber...)
	if err != nil {
		return nil, err
	}
	vehCol, err := trips.RequireColumn(aliasVehicle...)
	if err != nil {
		return nil, err
	}
	startCol, err := trips.RequireColumn(aliasTripStart...)
	if err != nil {
		return nil, err
	}
	kmCol, err := trips.RequireColumn("Kilometraje")
	if err != nil {
		return nil, err
	}
	urbanCol, err := trips.RequireColumn("Kilometraje urbano")
	if err != nil {
		return nil, err
	}
	suburbanCol, err := trips.RequireColumn("Kilometraje suburbano")
	if err != nil {
		return nil, err
	}
	for _, row := range trips.Rows {
		if !IsDataRow(trips.Cell(row, rowCol)) {
			continue
		}
		t := dbpkg.Trip{
			VehicleID:  trips.Cell(row, vehCol),
			StartAt:    data.date(trips.Cell(row, startCol)),
			DistanceKm: data.number(trips.Cell(row, kmCol)),
			UrbanKm:    data.number(trips.Cell(row, urbanCol)),
			SuburbanKm: data.number(trips.Cell(row, suburbanCol)),
		}
		if t.VehicleID == "" {
			continue
		}
		data.Trips = append(data.Trips, t)
	}
	data.SheetRows[trips.Name] = len(data.Trips)

	fillups, err := wb.Sheet(SheetFillups)
	if err != nil {
		return nil, err
	}
	rowCol, err = fillups.RequireColumn(aliasRowNumber...)
	if err != nil {
		return nil, err
	}
	vehCol, err = fillups.RequireColumn(aliasVehicle...)
	if err != nil {
		return nil, err
	}
	timeCol, err := fillups.RequireColumn(aliasFillTime...)
	if err != nil {
		return nil, err
	}
	litersCol, err := fillups.RequireColumn("Llenado registrado")
	if err != nil {
		return nil, err
	}
	for _, row := range fillups.Rows {
		if !IsDataRow(fillups.Cell(row, rowCol)) {
			continue
		}
		f := dbpkg.Fillup{
			VehicleID:  fillups.Cell(row, vehCol),
			RecordedAt: data.date(fillups.Cell(row, timeCol)),
			Liters:     data.number(fillups.Cell(row, litersCol)),
		}
		if f.VehicleID == "" {
			continue
		}
		data.Fillups = append(data.Fillups, f)
	}
	data.SheetRows[fillups.Name] = len(data.Fillups)

	costs, err := wb.Sheet(SheetCosts)
	if err != nil {
		return nil, err
	}
	rowCol, err = costs.RequireColumn(aliasRowNumber...)
	if err != nil {
		return nil, err
	}
	vehCol, err = costs.RequireColumn(aliasVehicle...)
	if err != nil {
		return nil, err
	}
	timeCol, err = costs.RequireColumn(aliasCostTime...)
	if err != nil {
		return nil, err
	}
	amountCol, err := costs.RequireColumn("Coste")
	if err != nil {
		return nil, err
	}
	for _, row := range costs.Rows {
		if !IsDataRow(costs.Cell(row, rowCol)) {
			continue
		}
		c := dbpkg.Cost{
			VehicleID:  costs.Cell(row, vehCol),
			RecordedAt: data.date(costs.Cell(row, timeCol)),
			Amount:     data.number(costs.Cell(row, amountCol)),
		}
		if c.VehicleID == "" {
			continue
		}
		data.Costs = append(data.Costs, c)
	}
	data.SheetRows[costs.Name] = len(data.Costs)

	return data, nil
}

// ParseRoster normalizes the custom-fields and assignment sheets.
func ParseRoster(wb *Workbook) (*RosterData, error) {
	data := &RosterData{SheetRows: make(map[string]int)}

	fields, err := wb.Sheet(SheetCustomField)
	if err != nil {
		return nil, err
	}
	driverCol, err := fields.RequireColumn("Conductor")
	if err != nil {
		return nil, err
	}
	nameCol, err := fields.RequireColumn("Nombre")
	if err != nil {
		return nil, err
	}
	valueCol, err := fields.RequireColumn("Valor")
	if err != nil {
		return nil, err
	}
	for _, row := range fields.Rows {
		driver := fields.Cell(row, driverCol)
		if driver == "" {
			// No driver to pivot on; the row carries no information.
			continue
		}
		data.Fields = append(data.Fields, dbpkg.DriverField{
			DriverID: textfix.Repair(driver),
			Name:     fields.Cell(row, nameCol),
			Value:    textfix.Repair(fields.Cell(row, valueCol)),
		})
	}
	data.SheetRows[fields.Name] = len(data.Fields)

	assignments, err := wb.Sheet(SheetAssignments)
	if err != nil {
		return nil, err
	}
	vehCol, err := assignments.RequireColumn("Unidad")
	if err != nil {
		return nil, err
	}
	driverCol, err = assignments.RequireColumn("Conductor")
	if err != nil {
		return nil, err
	}
	startCol, err := assignments.RequireColumn("Comienzo")
	if err != nil {
		return nil, err
	}
	for _, row := range assignments.Rows {
		a := dbpkg.Assignment{
			VehicleID: assignments.Cell(row, vehCol),
			DriverID:  textfix.Repair(assignments.Cell(row, driverCol)),
		}
		if a.VehicleID == "" {
			continue
		}
		start := assignments.Cell(row, startCol)
		a.StartAt = ParseDayFirstDate(start)
		if a.StartAt == nil && start != "" {
			data.Coercions++
		}
		data.Assignments = append(data.Assignments, a)
	}
	data.SheetRows[assignments.Name] = len(data.Assignments)

	return data, nil
}

// ParsePurchases normalizes the free-form point-of-sale export. The
// data sits on the first sheet under whatever name the POS gave it.
func ParsePurchases(wb *Workbook) (*PurchaseData, error) {
	data := &PurchaseData{SheetRows: make(map[string]int)}

	sheet, err := wb.First()
	if err != nil {
		return nil, err
	}
	tagCol, err := sheet.RequireColumn("TAG")
	if err != nil {
		return nil, err
	}
	priceCol, err := sheet.RequireColumn("PRECIO")
	if err != nil {
		return nil, err
	}
	qtyCol, err := sheet.RequireColumn("CANTIDAD")
	if err != nil {
		return nil, err
	}
	amountCol, err := sheet.RequireColumn("IMPORTE")
	if err != nil {
		return nil, err
	}
	dateCol, err := sheet.RequireColumn("FECHA")
	if err != nil {
		return nil, err
	}
	productCol, _ := sheet.Column("PRODUCTO")
	modelCol, _ := sheet.Column("MODELO")

	for _, row := range sheet.Rows {
		// The tag keeps its source spelling (leading apostrophe and
		// all); the attribution join normalizes both sides itself.
		p := dbpkg.FuelPurchase{
			Tag:         sheet.Cell(row, tagCol),
			Price:       data.number(sheet.Cell(row, priceCol)),
			Quantity:    data.number(sheet.Cell(row, qtyCol)),
			Amount:      data.number(sheet.Cell(row, amountCol)),
			PurchasedAt: data.date(sheet.Cell(row, dateCol)),
			Product:     textfix.Repair(sheet.Cell(row, productCol)),
			Model:       textfix.Repair(sheet.Cell(row, modelCol)),
		}
		if p.Tag == "" && p.Amount == nil && p.Quantity == nil {
			// Trailer/blank row in the free-form export.
			continue
		}
		data.Purchases = append(data.Purchases, p)
	}
	data.SheetRows[sheet.Name] = len(data.Purchases)

	return data, nil
}

func (d *TelemetryData) date(s string) *time.Time { return coerceDate(s, &d.Coercions) }
func (d *TelemetryData) number(s string) *float64 { return coerceNumber(s, &d.Coercions) }
func (d *PurchaseData) date(s string) *time.Time { return coerceDate(s, &d.Coercions) }
func (d *PurchaseData) number(s string) *float64 { return coerceNumber(s, &d.Coercions) }

func coerceDate(s string, failures *int) *time.Time {
	t := ParseDayFirstDate(s)
	if t == nil && s != "" {
		*failures++
	}
	return t
}

func coerceNumber(s string, failures *int) *float64 {
	v := ParseNumber(s)
	if v == nil && s != "" {
		*failures++
	}
	return v
}
