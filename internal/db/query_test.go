package db

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&Trip{}, &Fillup{}, &Cost{},
		&Assignment{}, &DriverField{},
		&FuelPurchase{}, &WorkbookImport{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func fp(v float64) *float64 { return &v }

func tp(day int) *time.Time {
	t := time.Date(2024, time.March, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func marchRange() Filter {
	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	return Filter{From: &from, To: &to}
}

func TestTripsInRangeExcludesUndated(t *testing.T) {
	db := openTestDB(t)
	if err := db.Create([]Trip{
		{VehicleID: "V1", StartAt: tp(15), DistanceKm: fp(100)},
		{VehicleID: "V1", StartAt: nil, DistanceKm: fp(40)},
	}).Error; err != nil {
		t.Fatalf("seed trips: %v", err)
	}

	// A row without a date never matches a bounded range.
	rows, err := TripsInRange(db, marchRange())
	if err != nil {
		t.Fatalf("TripsInRange: %v", err)
	}
	if len(rows) != 1 || rows[0].StartAt == nil {
		t.Fatalf("bounded range should return only the dated trip, got %+v", rows)
	}

	// With no bounds the undated row is retained.
	rows, err = TripsInRange(db, Filter{})
	if err != nil {
		t.Fatalf("TripsInRange unbounded: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unbounded filter should return both trips, got %d", len(rows))
	}
}

func TestFillupsAndCostsInRangeExcludeUndated(t *testing.T) {
	db := openTestDB(t)
	if err := db.Create([]Fillup{
		{VehicleID: "V1", RecordedAt: tp(10), Liters: fp(30)},
		{VehicleID: "V1", RecordedAt: nil, Liters: fp(15)},
	}).Error; err != nil {
		t.Fatalf("seed fillups: %v", err)
	}
	if err := db.Create([]Cost{
		{VehicleID: "V1", RecordedAt: tp(10), Amount: fp(500)},
		{VehicleID: "V1", RecordedAt: nil, Amount: fp(200)},
	}).Error; err != nil {
		t.Fatalf("seed costs: %v", err)
	}

	fills, err := FillupsInRange(db, marchRange())
	if err != nil {
		t.Fatalf("FillupsInRange: %v", err)
	}
	if len(fills) != 1 || fills[0].RecordedAt == nil {
		t.Fatalf("bounded range should drop the undated fillup, got %+v", fills)
	}
	costs, err := CostsInRange(db, marchRange())
	if err != nil {
		t.Fatalf("CostsInRange: %v", err)
	}
	if len(costs) != 1 || costs[0].RecordedAt == nil {
		t.Fatalf("bounded range should drop the undated cost, got %+v", costs)
	}
}

func TestFilterBounds(t *testing.T) {
	db := openTestDB(t)
	from := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	if err := db.Create([]Trip{
		{VehicleID: "at-from", StartAt: &from},
		{VehicleID: "at-to", StartAt: &to},
		{VehicleID: "inside", StartAt: tp(15)},
	}).Error; err != nil {
		t.Fatalf("seed trips: %v", err)
	}

	rows, err := TripsInRange(db, Filter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("TripsInRange: %v", err)
	}
	got := make(map[string]bool)
	for _, r := range rows {
		got[r.VehicleID] = true
	}
	// From is inclusive, To is exclusive.
	if !got["at-from"] || !got["inside"] || got["at-to"] {
		t.Fatalf("unexpected bound handling: %v", got)
	}
}

func TestFilterVehicleSubset(t *testing.T) {
	db := openTestDB(t)
	if err := db.Create([]Trip{
		{VehicleID: "V1", StartAt: tp(5)},
		{VehicleID: "V2", StartAt: tp(5)},
		{VehicleID: "V3", StartAt: tp(5)},
	}).Error; err != nil {
		t.Fatalf("seed trips: %v", err)
	}

	rows, err := TripsInRange(db, Filter{Vehicles: []string{"V1", "V3"}})
	if err != nil {
		t.Fatalf("TripsInRange: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 trips for the subset, got %d", len(rows))
	}
	for _, r := range rows {
		if r.VehicleID == "V2" {
			t.Fatalf("V2 should be filtered out")
		}
	}
}

func TestReplaceImportSwapsRows(t *testing.T) {
	db := openTestDB(t)

	first := &WorkbookImport{Kind: KindTelemetry, ContentSHA256: "aaa", Rows: 1}
	err := ReplaceImport(db, first, func(tx *gorm.DB) error {
		return tx.Create(&Trip{VehicleID: "OLD", StartAt: tp(1)}).Error
	})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}

	second := &WorkbookImport{Kind: KindTelemetry, ContentSHA256: "bbb", Rows: 1}
	err = ReplaceImport(db, second, func(tx *gorm.DB) error {
		return tx.Create(&Trip{VehicleID: "NEW", StartAt: tp(2)}).Error
	})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	rows, err := TripsInRange(db, Filter{})
	if err != nil {
		t.Fatalf("TripsInRange: %v", err)
	}
	if len(rows) != 1 || rows[0].VehicleID != "NEW" {
		t.Fatalf("re-import should replace the previous rows, got %+v", rows)
	}

	imp, err := FindImport(db, KindTelemetry)
	if err != nil || imp == nil {
		t.Fatalf("FindImport: %v, %+v", err, imp)
	}
	if imp.ContentSHA256 != "bbb" {
		t.Fatalf("import record should be replaced, got hash %s", imp.ContentSHA256)
	}
}
