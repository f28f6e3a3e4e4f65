// Package advisor turns the current KPI table into a natural-language
// fleet analysis via the Gemini API. The service is an opaque
// collaborator: a prompt goes in, text or an error comes out, and a
// failure never disturbs the rest of the session.
package advisor

import (
	"fmt"
	"strings"

	"github.com/Oscargtgzz/Rendimientos/internal/kpi"
	"github.com/Oscargtgzz/Rendimientos/internal/roster"
)

// BuildPrompt renders every visible KPI row into a markdown table and
// asks for per-vehicle commentary plus a fleet-level synthesis. The
// enumeration is the contract: the model must see exactly what the
// operator sees.
func BuildPrompt(rows []kpi.VehicleKPI, info map[string]roster.VehicleInfo) string {
	var b strings.Builder

	b.WriteString("Eres un analista de flotas vehiculares. A continuación tienes la tabla de ")
	b.WriteString("indicadores por unidad del periodo seleccionado.\n\n")
	b.WriteString("| Unidad | Conductor | Departamento | Km totales | Combustible (L) | Rendimiento (km/L) | Costo por km | Perfil urbano (%) | Índice de eficiencia ajustado |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, r := range rows {
		driver, dept := roster.Unknown, roster.Unknown
		if v, ok := info[r.VehicleID]; ok {
			driver, dept = v.Driver, v.Department
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %.1f | %.1f | %.2f | %.2f | %.1f | %+.1f |\n",
			r.VehicleID, driver, dept,
			r.DistanceKm, r.FuelLiters, r.FuelEconomy, r.CostPerKm,
			r.UrbanSharePct, r.EfficiencyIndex)
	}

	b.WriteString("\nEl índice de eficiencia ajustado compara el rendimiento de cada unidad con el ")
	b.WriteString("promedio de la flota, corregido por su porcentaje de conducción urbana: un valor ")
	b.WriteString("positivo indica mejor desempeño del esperado para su tipo de ruta.\n\n")
	b.WriteString("Escribe en español:\n")
	b.WriteString("1. Un comentario breve por cada unidad de la tabla (todas, sin omitir ninguna).\n")
	b.WriteString("2. Una síntesis a nivel flota con los hallazgos principales y recomendaciones.\n")
	b.WriteString("Responde en Markdown, sin bloques de código.\n")

	return b.String()
}
