// Package fuelcross joins point-of-sale fuel purchases to fleet
// vehicles through the driver fuel-tag mapping maintained in the
// roster. It is an independent flow from the KPI pipeline and shares
// only the roster resolver with it.
package fuelcross

import (
	"strings"
	"time"

	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
	"github.com/Oscargtgzz/Rendimientos/internal/roster"
)

// StampLayout is the fixed output format for purchase timestamps.
const StampLayout = "02.01.2006 15:04:05"

// AttributedPurchase is one purchase line enriched with its resolved
// vehicle. The purchase itself is authoritative; attribution is
// best-effort enrichment, so unresolved rows keep empty fields instead
// of being dropped.
type AttributedPurchase struct {
	Price       *float64 `json:"price"`
	Quantity    *float64 `json:"quantity"`
	Amount      *float64 `json:"amount"`
	Stamp       string   `json:"stamp"`
	Description string   `json:"description"`
	VehicleID   string   `json:"vehicle_id"`
}

// NormalizeTag strips the whitespace and the leading apostrophe that
// spreadsheets prepend to force text formatting on numeric-looking
// tags, so both sides of the join compare equal.
func NormalizeTag(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "'")
	return s
}

// Attribute joins each purchase to a driver by normalized tag and to
// that driver's most recently assigned vehicle.
func Attribute(purchases []dbpkg.FuelPurchase, fields []dbpkg.DriverField, history []dbpkg.Assignment) []AttributedPurchase {
	driverByTag := make(map[string]string)
	deptByDriver := make(map[string]string)
	for driver, attrs := range roster.PivotDriverFields(fields) {
		if tag, ok := attrs[roster.FieldTag]; ok {
			if norm := NormalizeTag(tag); norm != "" {
				driverByTag[norm] = driver
			}
		}
		if dept, ok := attrs[roster.FieldDepartment]; ok {
			deptByDriver[driver] = dept
		}
	}
	vehicleByDriver := roster.CurrentVehicleByDriver(history)

	out := make([]AttributedPurchase, 0, len(purchases))
	for _, p := range purchases {
		var vehicle, dept string
		if driver, ok := driverByTag[NormalizeTag(p.Tag)]; ok {
			dept = deptByDriver[driver]
			vehicle = vehicleByDriver[driver]
		}

		out = append(out, AttributedPurchase{
			Price:       p.Price,
			Quantity:    p.Quantity,
			Amount:      p.Amount,
			Stamp:       formatStamp(p.PurchasedAt),
			Description: buildDescription(p.Tag, vehicle, dept, p.Model, p.Product),
			VehicleID:   vehicle,
		})
	}
	return out
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(StampLayout)
}

// buildDescription joins the component fields with a literal " - ".
// Missing fields contribute an empty segment, never a dropped one, so
// the separator count (and therefore each field's position) is stable.
func buildDescription(parts ...string) string {
	return strings.Join(parts, " - ")
}
