// Package pages renders the server-side HTML pages.
package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/cristianadrielbraun/qrstudio/web/components"
)

const head = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR Studio</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="min-h-screen bg-slate-50 text-slate-900">
<main class="mx-auto max-w-3xl p-6 space-y-8">
<h1 class="text-2xl font-bold">QR Studio</h1>
`

// HomePage renders the single-code generator and the batch upload form.
func HomePage(d components.HomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(head)

		b.WriteString(`<form id="qr-form" class="space-y-4" hx-get="/api/qr" hx-trigger="change delay:300ms" hx-swap="none">`)
		b.WriteString(`<label class="block">Type <select name="type" class="border rounded p-1">`)
		for _, f := range d.Forms {
			fmt.Fprintf(&b, `<option value="%s">%s</option>`, f.Type.Slug(), f.Type)
		}
		b.WriteString(`</select></label>`)
		for _, f := range d.Forms {
			fmt.Fprintf(&b, `<fieldset data-type="%s" class="space-y-2"><legend class="font-semibold">%s</legend>`, f.Type.Slug(), f.Type)
			for _, in := range f.Fields {
				req := ""
				if in.Required {
					req = " required"
				}
				name := templ.EscapeString(in.Name)
				fmt.Fprintf(&b, `<label class="block">%s <input name="%s" class="border rounded p-1 w-full"%s></label>`, name, name, req)
			}
			b.WriteString(`</fieldset>`)
		}

		b.WriteString(`<label class="block">Shape <select name="qrShape" class="border rounded p-1">`)
		for _, s := range d.Shapes {
			fmt.Fprintf(&b, `<option>%s</option>`, s)
		}
		b.WriteString(`</select></label>`)
		b.WriteString(`<label class="block">Error correction <select name="ec" class="border rounded p-1">`)
		for _, l := range d.Levels {
			fmt.Fprintf(&b, `<option>%s</option>`, l)
		}
		b.WriteString(`</select></label>`)
		b.WriteString(`<label class="block">Format <select name="format" class="border rounded p-1">`)
		for _, f := range d.Formats {
			fmt.Fprintf(&b, `<option>%s</option>`, f)
		}
		b.WriteString(`</select></label>`)
		b.WriteString(`<label class="block">Caption <input name="caption" class="border rounded p-1 w-full"></label>`)
		b.WriteString(`<img id="qr-preview" alt="QR code preview" class="w-64 h-64 border">`)
		b.WriteString(`</form>`)

		b.WriteString(`<form class="space-y-2" hx-post="/api/batch" hx-encoding="multipart/form-data" hx-target="#batch-result">`)
		b.WriteString(`<h2 class="text-xl font-semibold">Batch</h2>`)
		b.WriteString(`<input type="file" name="file" accept=".csv" required>`)
		b.WriteString(`<select name="format" class="border rounded p-1">`)
		for _, f := range d.Formats {
			fmt.Fprintf(&b, `<option>%s</option>`, f)
		}
		b.WriteString(`</select> <button class="rounded bg-slate-900 px-3 py-1 text-white">Run</button>`)
		b.WriteString(`<pre id="batch-result" class="text-xs"></pre></form>`)

		fmt.Fprintf(&b, `<footer class="text-xs text-slate-500">qrstudio %s</footer>`, templ.EscapeString(d.Version))
		b.WriteString(`</main><div id="toasts"></div></body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
