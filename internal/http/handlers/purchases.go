package handlers

import (
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
	"github.com/Oscargtgzz/Rendimientos/internal/fuelcross"
)

// attributedPurchases runs the cross-reference pipeline from the
// stored tables. It shares only the roster with the KPI flow.
func attributedPurchases(db *gorm.DB) ([]fuelcross.AttributedPurchase, error) {
	purchases, err := dbpkg.Purchases(db)
	if err != nil {
		return nil, err
	}
	fields, history, err := dbpkg.RosterTables(db)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows := fuelcross.Attribute(purchases, fields, history)
	pipelineDuration.WithLabelValues("attribute").Observe(time.Since(start).Seconds())
	return rows, nil
}

// PurchasesReport returns the attributed purchase rows as JSON for the
// purchases page table.
func PurchasesReport(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}
		rows, err := attributedPurchases(db)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to build purchase report")
			return
		}
		jsonResponse(ctx, map[string]any{
			"rows":  rows,
			"empty": len(rows) == 0,
		})
	}
}

// PurchasesReportCSV streams the report as a UTF-8 CSV with byte order
// marker, for spreadsheet compatibility.
func PurchasesReportCSV(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}
		rows, err := attributedPurchases(db)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to build purchase report")
			return
		}

		ctx.SetContentType("text/csv; charset=utf-8")
		ctx.Response.Header.Set("Content-Disposition",
			`attachment; filename="reporte_combustible_procesado.csv"`)
		if err := fuelcross.WriteCSV(ctx.Response.BodyWriter(), rows); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to write CSV")
			return
		}
	}
}
