package dashboard

import (
	"bytes"
	"html/template"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

// TableTarget receives the complete body markup of the flights table.
// Each call replaces the previous body wholesale.
type TableTarget interface {
	SetTableBody(body template.HTML)
}

// Badge classes per known status. Statuses not listed here get neutralBadge.
var badgeClasses = map[string]string{
	domain.StatusScheduled: "bg-green-100 text-green-800",
	domain.StatusDelayed:   "bg-yellow-100 text-yellow-800",
	domain.StatusCancelled: "bg-red-100 text-red-800",
}

const neutralBadge = "bg-slate-100 text-slate-800"

// tableTmpl renders either the placeholder row or one row per flight.
// Field values are inserted through html/template's contextual escaping
// and nothing else.
var tableTmpl = template.Must(template.New("table").Funcs(template.FuncMap{
	"badgeClass": badgeClass,
	"badgeText":  badgeText,
}).Parse(`{{define "empty"}}
            <tr>
                <td colspan="5" class="px-6 py-8 text-center text-slate-500">
                    <div class="flex flex-col items-center">
                        <svg class="w-12 h-12 text-slate-300 mb-2" fill="none" stroke="currentColor" viewBox="0 0 24 24">
                            <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M9 5H7a2 2 0 00-2 2v10a2 2 0 002 2h8a2 2 0 002-2V7a2 2 0 00-2-2h-2M9 5a2 2 0 002 2h2a2 2 0 002-2M9 5a2 2 0 012-2h2a2 2 0 012 2"></path>
                        </svg>
                        <span class="text-lg font-medium">No data available</span>
                        <span class="text-sm">Try adjusting your search criteria</span>
                    </div>
                </td>
            </tr>
{{end}}{{define "rows"}}{{range .}}
        <tr class="hover:bg-slate-50 transition-colors duration-200">
            <td class="px-6 py-4 text-sm font-medium text-slate-900">{{.Route}}</td>
            <td class="px-6 py-4 text-sm text-slate-600">{{.DateTime}}</td>
            <td class="px-6 py-4 text-sm text-slate-600">{{.Airline}}</td>
            <td class="px-6 py-4 text-sm text-slate-600">{{.FlightNumber}}</td>
            <td class="px-6 py-4">
                <span class="inline-flex px-2 py-1 text-xs font-medium rounded-full {{badgeClass .Status}}">
                    {{badgeText .Status}}
                </span>
            </td>
        </tr>
{{end}}{{end}}`))

// RenderTable replaces the table body with one row per flight, in input
// order. An empty list renders a single placeholder row spanning all five
// columns.
func RenderTable(t TableTarget, rows []domain.Flight) {
	t.SetTableBody(TableBody(rows))
}

// TableBody returns the markup RenderTable would install.
func TableBody(rows []domain.Flight) template.HTML {
	name := "rows"
	if len(rows) == 0 {
		name = "empty"
	}

	var buf bytes.Buffer
	// Writes to a bytes.Buffer never fail and the template funcs cannot error.
	_ = tableTmpl.ExecuteTemplate(&buf, name, rows)
	return template.HTML(buf.String())
}

func badgeClass(status string) string {
	if c, ok := badgeClasses[status]; ok {
		return c
	}
	return neutralBadge
}

func badgeText(status string) string {
	if _, ok := badgeClasses[status]; ok {
		return status
	}
	return "Unknown"
}
