package handlers

import (
	"bytes"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/Oscargtgzz/Rendimientos/internal/config"
	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
	httpctx "github.com/Oscargtgzz/Rendimientos/internal/http/ctx"
	ui "github.com/Oscargtgzz/Rendimientos/web"
)

type LayoutData struct {
	Title        string
	ActivePage   string
	PageTemplate string
	IsAdmin      bool
	Username     string

	// Imports summarizes what has been uploaded this session, so the
	// pages can show which workbooks are still missing.
	Imports map[string]*dbpkg.WorkbookImport

	CommentaryEnabled bool
}

func getLayoutData(ctx *fasthttp.RequestCtx, cfg *config.Config, activePage, title, pageTemplate string) LayoutData {
	isAdmin := false
	username := ""
	if u, ok := httpctx.UserFromCtx(ctx); ok {
		if user, ok := u.(*dbpkg.User); ok && user != nil {
			username = user.Username
			isAdmin = user.IsAdmin || username == cfg.AdminUser
		}
	}

	return LayoutData{
		Title:             title,
		ActivePage:        activePage,
		PageTemplate:      pageTemplate,
		IsAdmin:           isAdmin,
		Username:          username,
		CommentaryEnabled: cfg.GeminiAPIKey != "",
	}
}

func populateImports(data *LayoutData, db *gorm.DB) {
	data.Imports = make(map[string]*dbpkg.WorkbookImport)
	for _, kind := range []string{dbpkg.KindTelemetry, dbpkg.KindRoster, dbpkg.KindPurchases} {
		if imp, err := dbpkg.FindImport(db, kind); err == nil && imp != nil {
			data.Imports[kind] = imp
		}
	}
}

func renderLayout(ctx *fasthttp.RequestCtx, data LayoutData) {
	var buf bytes.Buffer
	if err := ui.Templates().ExecuteTemplate(&buf, "layout", data); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString("render error")
		return
	}
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(buf.Bytes())
}

// Dashboard renders the KPI table page.
func Dashboard(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		data := getLayoutData(ctx, cfg, "dashboard", "Dashboard de Flota", "dashboard")
		populateImports(&data, db)
		renderLayout(ctx, data)
	}
}

// PurchasesPage renders the fuel-purchase cross-reference page.
func PurchasesPage(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		data := getLayoutData(ctx, cfg, "purchases", "Cruce de Combustible", "purchases")
		populateImports(&data, db)
		renderLayout(ctx, data)
	}
}
