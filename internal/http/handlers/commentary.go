package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/Oscargtgzz/Rendimientos/internal/advisor"
	"github.com/Oscargtgzz/Rendimientos/internal/session"
)

// Commentary submits the session's current KPI table to the
// text-generation collaborator and returns its narrative. Any failure
// is reported as a message; it never disturbs the KPI result or the
// rest of the session.
func Commentary(client *advisor.Client, state *session.State) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}

		rows, info, ok := state.Current()
		if !ok {
			commentaryTotal.WithLabelValues("no_data").Inc()
			errResponse(ctx, fasthttp.StatusConflict,
				"no KPI table has been computed for the current selection")
			return
		}

		prompt := advisor.BuildPrompt(rows, info)

		callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()

		text, err := client.Commentary(callCtx, prompt)
		if err != nil {
			log.Printf("commentary request failed: %v", err)
			commentaryTotal.WithLabelValues("failed").Inc()
			status := fasthttp.StatusBadGateway
			if errors.Is(err, advisor.ErrNotConfigured) {
				status = fasthttp.StatusServiceUnavailable
			}
			errResponse(ctx, status, err.Error())
			return
		}

		html, err := advisor.RenderHTML(text)
		if err != nil {
			// Keep the raw markdown; rendering is a convenience.
			html = ""
		}

		commentaryTotal.WithLabelValues("ok").Inc()
		jsonResponse(ctx, map[string]any{
			"markdown": text,
			"html":     html,
		})
	}
}
