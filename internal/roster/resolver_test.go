package roster

import (
	"testing"
	"time"

	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
)

func at(day int) *time.Time {
	t := time.Date(2024, time.February, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func assign(vehicle, driver string, start *time.Time) dbpkg.Assignment {
	return dbpkg.Assignment{VehicleID: vehicle, DriverID: driver, StartAt: start}
}

func field(driver, name, value string) dbpkg.DriverField {
	return dbpkg.DriverField{DriverID: driver, Name: name, Value: value}
}

func TestResolveVehiclesLatestAssignmentWins(t *testing.T) {
	history := []dbpkg.Assignment{
		assign("V1", "D1", at(1)),
		assign("V1", "D2", at(15)),
	}
	info := ResolveVehicles(nil, history)
	v, ok := info["V1"]
	if !ok {
		t.Fatalf("V1 missing from resolution")
	}
	if v.Driver != "D2" {
		t.Fatalf("expected latest driver D2, got %s", v.Driver)
	}
}

func TestResolveVehiclesStableTieBreak(t *testing.T) {
	// Two assignments with the same timestamp keep input order: the one
	// listed first wins.
	history := []dbpkg.Assignment{
		assign("V1", "D1", at(10)),
		assign("V1", "D2", at(10)),
	}
	info := ResolveVehicles(nil, history)
	if info["V1"].Driver != "D1" {
		t.Fatalf("expected first-listed D1 on tie, got %s", info["V1"].Driver)
	}
}

func TestResolveVehiclesUndatedSortsOldest(t *testing.T) {
	history := []dbpkg.Assignment{
		assign("V1", "D1", nil),
		assign("V1", "D2", at(3)),
	}
	info := ResolveVehicles(nil, history)
	if info["V1"].Driver != "D2" {
		t.Fatalf("dated assignment should beat undated, got %s", info["V1"].Driver)
	}

	// With no dated row at all, the undated one still resolves.
	info = ResolveVehicles(nil, []dbpkg.Assignment{assign("V2", "D9", nil)})
	if info["V2"].Driver != "D9" {
		t.Fatalf("undated-only history should resolve, got %+v", info["V2"])
	}
}

func TestResolveVehiclesJoinsDriverFields(t *testing.T) {
	fields := []dbpkg.DriverField{
		field("D1", FieldTag, "TAG-001"),
		field("D1", FieldDepartment, "Logística"),
	}
	history := []dbpkg.Assignment{assign("V1", "D1", at(1))}

	v := ResolveVehicles(fields, history)["V1"]
	if v.FuelTag != "TAG-001" || v.Department != "Logística" {
		t.Fatalf("unexpected join result: %+v", v)
	}
}

func TestResolveVehiclesUnknownMarkers(t *testing.T) {
	// Driver exists in history but has no custom fields: the row stays,
	// with markers instead of blanks.
	history := []dbpkg.Assignment{
		assign("V1", "D1", at(1)),
		assign("V2", "", at(1)),
	}
	info := ResolveVehicles(nil, history)

	if v := info["V1"]; v.FuelTag != Unknown || v.Department != Unknown {
		t.Fatalf("expected markers for unmatched driver, got %+v", v)
	}
	if v := info["V2"]; v.Driver != Unknown {
		t.Fatalf("expected driver marker for empty driver, got %+v", v)
	}
}

func TestPivotDriverFields(t *testing.T) {
	fields := []dbpkg.DriverField{
		field("D1", FieldTag, "TAG-001"),
		field("", FieldTag, "TAG-IGNORED"),
		field("D1", FieldTag, "TAG-002"),
	}
	pivot := PivotDriverFields(fields)
	if len(pivot) != 1 {
		t.Fatalf("rows without a driver must be dropped, got %d drivers", len(pivot))
	}
	if pivot["D1"][FieldTag] != "TAG-002" {
		t.Fatalf("last value should win, got %s", pivot["D1"][FieldTag])
	}
}

func TestCurrentVehicleByDriver(t *testing.T) {
	history := []dbpkg.Assignment{
		assign("V1", "D1", at(1)),
		assign("V2", "D1", at(20)),
		assign("V3", "D2", at(5)),
	}
	byDriver := CurrentVehicleByDriver(history)
	if byDriver["D1"] != "V2" {
		t.Fatalf("D1 should map to latest vehicle V2, got %s", byDriver["D1"])
	}
	if byDriver["D2"] != "V3" {
		t.Fatalf("D2 should map to V3, got %s", byDriver["D2"])
	}
}
