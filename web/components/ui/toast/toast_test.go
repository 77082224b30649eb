package toast

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestToastRender(t *testing.T) {
	var buf bytes.Buffer
	err := Toast(Props{
		Title:       "Saved <b>",
		Description: "3 codes written",
		Variant:     VariantSuccess,
		Duration:    2000,
		Dismissible: true,
		Icon:        true,
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Saved &lt;b&gt;", "3 codes written", `aria-label="Close"`, `data-duration="2000"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	classes := classTokens(t, out)
	for _, want := range []string{"fixed", "bg-green-50", "bottom-4", "right-4"} {
		if !classes[want] {
			t.Errorf("class list missing %q: %v", want, classes)
		}
	}
}

// classTokens returns the classes of the first class attribute in html.
// Merging does not preserve order, so tokens are compared as a set.
func classTokens(t *testing.T, html string) map[string]bool {
	t.Helper()
	_, rest, ok := strings.Cut(html, `class="`)
	if !ok {
		t.Fatalf("no class attribute in %q", html)
	}
	attr, _, _ := strings.Cut(rest, `"`)
	set := map[string]bool{}
	for _, c := range strings.Fields(attr) {
		set[c] = true
	}
	return set
}

func TestClassesOverride(t *testing.T) {
	got := strings.Fields(Props{Variant: VariantError, Class: "p-2"}.Classes())
	if slices.Contains(got, "p-4") || !slices.Contains(got, "p-2") {
		t.Errorf("Classes() = %q", got)
	}
	if !strings.Contains(Props{Variant: "bogus"}.Classes(), "bg-background") {
		t.Error("unknown variant did not fall back to default")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestToastWriteError(t *testing.T) {
	if err := Toast(Props{Title: "x"}).Render(context.Background(), failWriter{}); err == nil {
		t.Error("write error swallowed")
	}
}
