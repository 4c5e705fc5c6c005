package server

import (
	"embed"
	"html/template"

	"github.com/five82/explorer/internal/present"
)

//go:embed templates/index.html
var templates embed.FS

var pageTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{
			"hazard": present.Hazard,
			"isLoading": func(s present.Section) bool {
				return s.State == present.StateLoading
			},
			"isError": func(s present.Section) bool {
				return s.State == present.StateError
			},
			"isData": func(s present.Section) bool {
				return s.State == present.StateData
			},
			"errorHint": func() string { return present.ErrorHint },
		}).
		ParseFS(templates, "templates/index.html"),
)
