package handlers

import (
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
	"github.com/Oscargtgzz/Rendimientos/internal/kpi"
	"github.com/Oscargtgzz/Rendimientos/internal/roster"
	"github.com/Oscargtgzz/Rendimientos/internal/session"
)

// kpiRow is one presentation row: derived KPIs enriched with the
// resolved roster info.
type kpiRow struct {
	kpi.VehicleKPI
	Driver     string `json:"driver"`
	FuelTag    string `json:"fuel_tag"`
	Department string `json:"department"`
}

// parseFilter reads from/to (YYYY-MM-DD, to is inclusive) and a
// comma-separated vehicle list from the query string.
func parseFilter(ctx *fasthttp.RequestCtx) dbpkg.Filter {
	var f dbpkg.Filter
	if s := string(ctx.QueryArgs().Peek("from")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			f.From = &t
		}
	}
	if s := string(ctx.QueryArgs().Peek("to")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			end := t.Add(24 * time.Hour)
			f.To = &end
		}
	}
	if s := string(ctx.QueryArgs().Peek("vehicles")); s != "" {
		for _, v := range strings.Split(s, ",") {
			if v = strings.TrimSpace(v); v != "" {
				f.Vehicles = append(f.Vehicles, v)
			}
		}
	}
	return f
}

// KPITable recomputes the full pipeline for the requested filter:
// fetch the filtered record sets, aggregate per vehicle, normalize
// into the adjusted efficiency index, enrich with the roster, and
// store the result as the session's current table. An empty result is
// a normal outcome ("no data for selection"), reported as such and
// explicitly invalidating the carried-forward table.
func KPITable(db *gorm.DB, state *session.State) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}
		filter := parseFilter(ctx)

		start := time.Now()
		trips, err := dbpkg.TripsInRange(db, filter)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load trips")
			return
		}
		fillups, err := dbpkg.FillupsInRange(db, filter)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load fillups")
			return
		}
		costs, err := dbpkg.CostsInRange(db, filter)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load costs")
			return
		}

		rows := kpi.Aggregate(trips, fillups, costs)
		kpi.ApplyEfficiencyIndex(rows)
		kpi.SortByIndexDesc(rows)
		pipelineDuration.WithLabelValues("aggregate").Observe(time.Since(start).Seconds())

		if len(rows) == 0 {
			state.Invalidate()
			jsonResponse(ctx, map[string]any{
				"empty":  true,
				"rows":   []kpiRow{},
				"totals": kpi.FleetTotals{},
			})
			return
		}

		fields, history, err := dbpkg.RosterTables(db)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load roster")
			return
		}
		info := roster.ResolveVehicles(fields, history)
		state.SetResult(rows, info)

		enriched := make([]kpiRow, 0, len(rows))
		for _, r := range rows {
			row := kpiRow{
				VehicleKPI: r,
				Driver:     roster.Unknown,
				FuelTag:    roster.Unknown,
				Department: roster.Unknown,
			}
			if v, ok := info[r.VehicleID]; ok {
				row.Driver = v.Driver
				row.FuelTag = v.FuelTag
				row.Department = v.Department
			}
			enriched = append(enriched, row)
		}

		jsonResponse(ctx, map[string]any{
			"empty":  false,
			"rows":   enriched,
			"totals": kpi.Totals(rows),
		})
	}
}
