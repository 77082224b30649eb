// Package toast renders dismissible notifications for HTMX swaps.
package toast

import (
	"context"
	"fmt"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Position string

const (
	PositionTopRight    Position = "top-right"
	PositionTopLeft     Position = "top-left"
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
)

type Props struct {
	ID          string
	Class       string
	Title       string
	Description string
	Variant     Variant
	Position    Position
	// Duration in milliseconds before the toast closes itself; 0 keeps it open.
	Duration      int
	Dismissible   bool
	ShowIndicator bool
	Icon          bool
}

var variantClasses = map[Variant]string{
	VariantDefault: "border-border bg-background text-foreground",
	VariantSuccess: "border-green-500 bg-green-50 text-green-900",
	VariantError:   "border-red-500 bg-red-50 text-red-900",
	VariantWarning: "border-yellow-500 bg-yellow-50 text-yellow-900",
	VariantInfo:    "border-blue-500 bg-blue-50 text-blue-900",
}

var positionClasses = map[Position]string{
	PositionTopRight:    "top-4 right-4",
	PositionTopLeft:     "top-4 left-4",
	PositionBottomRight: "bottom-4 right-4",
	PositionBottomLeft:  "bottom-4 left-4",
}

var icons = map[Variant]string{
	VariantSuccess: "✓",
	VariantError:   "✕",
	VariantWarning: "!",
	VariantInfo:    "i",
}

// Classes returns the merged class list for p. Caller classes win over the
// variant defaults.
func (p Props) Classes() string {
	v := p.Variant
	if _, ok := variantClasses[v]; !ok {
		v = VariantDefault
	}
	pos, ok := positionClasses[p.Position]
	if !ok {
		pos = positionClasses[PositionBottomRight]
	}
	return twmerge.Merge(
		"fixed z-50 flex w-80 items-start gap-3 rounded-md border p-4 shadow-lg",
		pos,
		variantClasses[v],
		p.Class,
	)
}

// Toast renders a toast component.
func Toast(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := p.ID
		if id == "" {
			id = "toast"
		}
		var b strings.Builder
		fmt.Fprintf(&b, `<div id="%s" role="status" class="%s" data-duration="%d">`,
			templ.EscapeString(id), templ.EscapeString(p.Classes()), p.Duration)
		if icon, ok := icons[p.Variant]; ok && p.Icon {
			fmt.Fprintf(&b, `<span class="font-bold" aria-hidden="true">%s</span>`, icon)
		}
		b.WriteString(`<div class="flex-1">`)
		if p.Title != "" {
			fmt.Fprintf(&b, `<p class="font-semibold">%s</p>`, templ.EscapeString(p.Title))
		}
		if p.Description != "" {
			fmt.Fprintf(&b, `<p class="text-sm opacity-90">%s</p>`, templ.EscapeString(p.Description))
		}
		b.WriteString(`</div>`)
		if p.Dismissible {
			b.WriteString(`<button type="button" aria-label="Close" onclick="this.parentElement.remove()">&times;</button>`)
		}
		if p.ShowIndicator && p.Duration > 0 {
			fmt.Fprintf(&b, `<div class="absolute bottom-0 left-0 h-1 bg-current opacity-30" style="animation: toast-progress %dms linear forwards"></div>`, p.Duration)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
