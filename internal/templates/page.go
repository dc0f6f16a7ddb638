package templates

import (
	"github.com/a-h/templ"
	"github.com/csg33k/fpr-form/internal/domain"
)

const pageTmpl = `
{{- define "head"}}<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"><title>{{.Title}}</title><script src="https://unpkg.com/htmx.org@1.9.12"></script><link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Sans:wght@400;500;600&display=swap" rel="stylesheet">
<style>
  :root {
    --ink: #0d1117;
    --paper: #f7f7f9;
    --accent: #c0392b;
    --accent2: #2c6e49;
    --muted: #6b5e4e;
    --rule: #d0d3da;
    --prefill: #eef4ff;
  }
  * { box-sizing: border-box; }
  body { background: var(--paper); color: var(--ink); font-family: 'IBM Plex Sans', sans-serif; margin: 0; }
  .fpr-form { max-width: 560px; margin: 32px auto; padding: 24px; background: white; border: 1px solid var(--rule); gap: 16px; position: relative; }
  .flex { display: flex; } .flex-column { flex-direction: column; } .flex-align-center, .flex-row-align-center { display: flex; align-items: center; }
  .flex-jc-space-btw { justify-content: space-between; } .flex-column-center { display: flex; flex-direction: column; align-items: center; gap: 8px; }
  .fw-500 { font-weight: 500; } .fs-12 { font-size: 0.75rem; } .fs-14 { font-size: 0.875rem; } .fs-18 { font-size: 1.125rem; }
  .mb-12 { margin-bottom: 12px; } .hidden { display: none; }
  .form-input-group { position: relative; }
  .form-input { width: 100%; padding: 10px 12px; border: 1px solid var(--rule); font-size: 0.95rem; outline: none; }
  .form-input.padding { padding-left: 28px; }
  .form-input.uppercase { text-transform: uppercase; }
  .field-state.is-prefilled + .form-input { background: var(--prefill); }
  .field-state.is-error + .form-input { border-color: var(--accent); }
  .error-text { color: var(--accent); gap: 4px; margin: 4px 0 0; }
  .nudge { color: var(--muted); font-size: 0.7rem; margin: 4px 0 0; }
  .rupeesSymbol { position: absolute; left: 10px; bottom: 10px; margin: 0; }
  .input-close, .popup-icon { position: absolute; right: 8px; top: 38px; background: none; border: none; cursor: pointer; }
  .calculator-button { padding: 6px 14px; border: 1px solid var(--rule); background: white; cursor: pointer; }
  .calculator-button.active { border-color: var(--ink); background: var(--ink); color: white; }
  .fpr-form__cta-section__dropdown-subtitle { width: 100%; padding: 10px 12px; border: 1px solid var(--rule); background: white; cursor: pointer; }
  .list-popup, .fd-sdp-cal__popup { border: 1px solid var(--rule); padding: 8px; display: flex; flex-direction: column; gap: 4px; }
  .list-popup__option, .fd-sdp-cal__popup__option { background: none; border: none; text-align: left; gap: 8px; cursor: pointer; padding: 6px; }
  .tooltip { margin-left: 6px; } .tooltip summary { cursor: pointer; list-style: none; }
  .btn { font-weight: 600; padding: 10px 28px; border: 2px solid var(--ink); cursor: pointer; }
  .btn--primary { background: var(--ink); color: white; }
  .btn--primary:disabled { opacity: 0.5; cursor: wait; }
  .fpr-form__loader { position: absolute; inset: 0; background: rgba(255,255,255,0.6); display: none; align-items: center; justify-content: center; }
  .fpr-form__loader.is-loading, .htmx-request .fpr-form__loader, .fpr-form__loader.htmx-request { display: flex; }
  .label--mobile { display: none; }
  @media (max-width: 640px) { .label--desktop { display: none; } .label--mobile { display: inline; } }
  .outcome { max-width: 560px; margin: 32px auto; padding: 24px; background: white; border: 1px solid var(--rule); }
  .outcome--ok { border-left: 4px solid var(--accent2); } .outcome--failed { border-left: 4px solid var(--accent); }
</style>
</head><body{{with .Headers}} hx-headers="{{.}}"{{end}}>{{end}}

{{- define "page"}}{{template "head" .Head}}{{template "form" .Form}}</body></html>{{end}}

{{- define "outcome"}}{{template "head" .Head}}<div class="outcome{{if .Submitted}}{{if .Success}} outcome--ok{{else}} outcome--failed{{end}}{{end}}">
{{- if not .Submitted}}<p>No details have been submitted yet.</p><a href="/">Back to the form</a>
{{- else if .Success}}<h3 class="fs-18">Details verified</h3>{{with .Reference}}<p>Reference <strong>{{.}}</strong></p>{{end}}<a class="btn btn--primary" href="/form/summary.pdf">Download summary</a>
{{- else}}<h3 class="fs-18">We could not verify your details</h3><p class="fs-14">{{.ErrorType}} &middot; status {{.StatusCode}}</p><a href="/">Review your details</a>
{{- end -}}
</div></body></html>{{end}}
`

type headView struct {
	Title   string
	Headers string
}

func newHead(title, csrfToken string) headView {
	h := headView{Title: title}
	if csrfToken != "" {
		h.Headers = hxVals(map[string]string{CSRFHeader: csrfToken})
	}
	return h
}

type pageView struct {
	Head headView
	Form formView
}

type outcomeView struct {
	Head       headView
	Submitted  bool
	Success    bool
	Reference  string
	ErrorType  string
	StatusCode int
}

// OutcomePage shows the result of the last verification of the session.
func OutcomePage(cfg *domain.FormConfig, out *domain.VerificationOutcome) templ.Component {
	v := outcomeView{Head: newHead(cfg.Title, "")}
	if out != nil {
		v.Submitted = true
		v.Success = out.Success
		v.ErrorType = out.ErrorType
		v.StatusCode = out.StatusCode
		if out.Response != nil {
			v.Reference = out.Response.Data.ReferenceID
		}
	}
	return component("outcome", v)
}
