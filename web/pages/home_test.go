package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cristianadrielbraun/qrstudio/web/components"
)

func TestHomePage(t *testing.T) {
	var buf bytes.Buffer
	if err := HomePage(components.NewHomeData("v1.2.3")).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`<option value="wifi">WiFi</option>`,
		`name="ssid" class="border rounded p-1 w-full" required`,
		`hx-post="/api/batch"`,
		`<option>pdf</option>`,
		"qrstudio v1.2.3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
