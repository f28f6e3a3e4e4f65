// Package roster resolves the uploaded roster workbook (custom driver
// fields plus vehicle-driver assignment history) into one current
// mapping per vehicle: who drives it, which fuel tag they hold, and
// which department it belongs to.
package roster

import (
	"sort"

	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
)

// Custom-field names carried by the roster export.
const (
	FieldTag        = "TAG"
	FieldDepartment = "DEPARTAMENTO"
)

// Unknown is the display marker for driver attributes the roster could
// not supply. Downstream formatting always receives a value, never a
// dropped row.
const Unknown = "N/A"

// VehicleInfo is the resolved current assignment for one vehicle.
type VehicleInfo struct {
	VehicleID  string `json:"vehicle_id"`
	Driver     string `json:"driver"`
	FuelTag    string `json:"fuel_tag"`
	Department string `json:"department"`
}

// PivotDriverFields flattens the long-format custom-fields table into
// one attribute map per driver. Rows with a missing driver are dropped;
// a field seen twice for the same driver keeps the last value.
func PivotDriverFields(fields []dbpkg.DriverField) map[string]map[string]string {
	pivot := make(map[string]map[string]string)
	for _, f := range fields {
		if f.DriverID == "" {
			continue
		}
		attrs, ok := pivot[f.DriverID]
		if !ok {
			attrs = make(map[string]string)
			pivot[f.DriverID] = attrs
		}
		attrs[f.Name] = f.Value
	}
	return pivot
}

// currentAssignments sorts the history newest-first and keeps the first
// row per key. The sort is stable, so two assignments sharing a
// timestamp resolve to whichever came first in the original ordering.
// Rows without a parsable start date sort as oldest and can only win
// when the key has no dated row at all.
func currentAssignments(history []dbpkg.Assignment, key func(dbpkg.Assignment) string) map[string]dbpkg.Assignment {
	sorted := make([]dbpkg.Assignment, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].StartAt, sorted[j].StartAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	current := make(map[string]dbpkg.Assignment)
	for _, row := range sorted {
		k := key(row)
		if k == "" {
			continue
		}
		if _, seen := current[k]; !seen {
			current[k] = row
		}
	}
	return current
}

// ResolveVehicles produces one VehicleInfo per vehicle that appears in
// the assignment history, left-joining the pivoted driver attributes.
// A failed driver lookup yields Unknown markers, never a dropped row.
func ResolveVehicles(fields []dbpkg.DriverField, history []dbpkg.Assignment) map[string]VehicleInfo {
	pivot := PivotDriverFields(fields)
	current := currentAssignments(history, func(a dbpkg.Assignment) string { return a.VehicleID })

	info := make(map[string]VehicleInfo, len(current))
	for vehicle, a := range current {
		v := VehicleInfo{
			VehicleID:  vehicle,
			Driver:     a.DriverID,
			FuelTag:    Unknown,
			Department: Unknown,
		}
		if v.Driver == "" {
			v.Driver = Unknown
		}
		if attrs, ok := pivot[a.DriverID]; ok {
			if tag, ok := attrs[FieldTag]; ok && tag != "" {
				v.FuelTag = tag
			}
			if dept, ok := attrs[FieldDepartment]; ok && dept != "" {
				v.Department = dept
			}
		}
		info[vehicle] = v
	}
	return info
}

// CurrentVehicleByDriver resolves, per driver, the most recently
// assigned vehicle. Same last-assignment-wins rule as ResolveVehicles
// but keyed by driver: a driver who has held several vehicles is
// attributed the latest one.
func CurrentVehicleByDriver(history []dbpkg.Assignment) map[string]string {
	current := currentAssignments(history, func(a dbpkg.Assignment) string { return a.DriverID })
	out := make(map[string]string, len(current))
	for driver, a := range current {
		out[driver] = a.VehicleID
	}
	return out
}
