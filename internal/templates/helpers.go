package templates

import (
	"context"
	"encoding/json"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

// CSRFHeader is the request header htmx sends the CSRF token in.
const CSRFHeader = "X-CSRF-Token"

var tmpl = template.Must(template.New("fpr").Parse(pageTmpl + formTmpl + fieldsTmpl))

// component exposes a named template as a templ.Component so handlers render
// every fragment the same way.
func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, name, data)
	})
}

// richText is applied to configuration-supplied HTML (terms text, tooltip bodies).
var richText = bluemonday.UGCPolicy()

// sanitize returns configuration HTML that is safe to write unescaped.
func sanitize(html string) template.HTML {
	return template.HTML(richText.Sanitize(html))
}

// hxVals encodes extra request parameters for the hx-vals attribute.
func hxVals(kv map[string]string) string {
	b, err := json.Marshal(kv)
	if err != nil {
		return "{}"
	}
	return string(b)
}
