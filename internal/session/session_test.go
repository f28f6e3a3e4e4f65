package session

import (
	"testing"

	"github.com/Oscargtgzz/Rendimientos/internal/kpi"
	"github.com/Oscargtgzz/Rendimientos/internal/roster"
)

func TestStateHoldsResult(t *testing.T) {
	s := New()
	if _, _, ok := s.Current(); ok {
		t.Fatalf("fresh state should hold nothing")
	}

	rows := []kpi.VehicleKPI{{VehicleID: "V1", FuelEconomy: 10}}
	info := map[string]roster.VehicleInfo{"V1": {VehicleID: "V1", Driver: "D1"}}
	s.SetResult(rows, info)

	gotRows, gotInfo, ok := s.Current()
	if !ok {
		t.Fatalf("state should hold the stored result")
	}
	if len(gotRows) != 1 || gotRows[0].VehicleID != "V1" {
		t.Fatalf("unexpected rows: %+v", gotRows)
	}
	if gotInfo["V1"].Driver != "D1" {
		t.Fatalf("unexpected info: %+v", gotInfo)
	}
}

func TestStateEmptyResultInvalidates(t *testing.T) {
	s := New()
	s.SetResult([]kpi.VehicleKPI{{VehicleID: "V1"}}, nil)

	// An empty recompute must not leave the previous table visible.
	s.SetResult(nil, nil)
	if _, _, ok := s.Current(); ok {
		t.Fatalf("empty result should invalidate the held table")
	}
}

func TestStateInvalidate(t *testing.T) {
	s := New()
	s.SetResult([]kpi.VehicleKPI{{VehicleID: "V1"}}, nil)
	s.Invalidate()
	if _, _, ok := s.Current(); ok {
		t.Fatalf("Invalidate should drop the held table")
	}
}
