package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates
var templatesFS embed.FS

// Render parses the layout plus the named page template and writes it with
// the given status. Any pending flash message is popped into the data map.
func Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	if f := PopFlash(w, r); f != nil {
		data["Flash"] = f
	}

	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	layout, _ := templatesFS.ReadFile("templates/layout.html")

	t := template.Must(template.New("").Parse(string(layout)))
	t = template.Must(t.New(name).Parse(string(content)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("template execute", "template", name, "error", err)
	}
}

// RenderError renders the generic error page with the status code's title,
// e.g. "404 Not Found". Used for missing resources and as the router's
// NotFound/MethodNotAllowed handler.
func RenderError(w http.ResponseWriter, r *http.Request, status int) {
	Render(w, r, status, "error.html", map[string]interface{}{
		"Status": status,
		"Title":  http.StatusText(status),
	})
}
