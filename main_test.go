package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func setupWorkdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("QRSTUDIO_HISTORY_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("QRSTUDIO_LOG_FORMAT", "json")
	return dir
}

func TestGenerateAndDecode(t *testing.T) {
	dir := setupWorkdir(t)
	png := filepath.Join(dir, "out", "wifi.png")
	_, err := execute(t, "generate", "wifi",
		"--data", "ssid=Cafe%3BNet&security=WPA2",
		"--field", "password=p@ss",
		"--shape", "rounded", "-o", png)
	if err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "decode", png)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Type:    WiFi", `SSID:    Cafe;Net`, "Password: p@ss"} {
		if !strings.Contains(out, want) {
			t.Errorf("decode output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "decode", "--raw", png)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != `WIFI:T:WPA;S:Cafe\;Net;P:p@ss;;` {
		t.Errorf("raw payload = %q", got)
	}
}

func TestGenerateFormats(t *testing.T) {
	dir := setupWorkdir(t)
	for _, name := range []string{"a.svg", "a.pdf", "a.jpg"} {
		path := filepath.Join(dir, name)
		if _, err := execute(t, "generate", "url", "-f", "url=https://example.com", "-o", path, "--caption", "Example"); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestGenerateTerminal(t *testing.T) {
	setupWorkdir(t)
	out, err := execute(t, "generate", "text", "--field", "text=hello")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "█") && !strings.Contains(out, "▀") && !strings.Contains(out, "▄") {
		t.Errorf("no block characters in terminal output:\n%s", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	setupWorkdir(t)
	tests := [][]string{
		{"generate", "fax", "--field", "x=1"},
		{"generate", "wifi", "--field", "ssid=Home"},
		{"generate", "text", "--field", "novalue"},
		{"generate", "text", "--field", "text=a", "-o", "a.gif"},
		{"generate", "text", "--field", "text=a", "--shape", "star", "-o", "a.png"},
		{"generate", "text", "--field", "text=" + strings.Repeat("x", 3000), "-o", "a.png"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestBatchAndHistory(t *testing.T) {
	dir := setupWorkdir(t)
	csv := filepath.Join(dir, "codes.csv")
	content := "type,data,pdf_title\nURL,https://github.com,GitHub\nPhone,,Contact\nSMS,number=555&message=hi,\n"
	if err := os.WriteFile(csv, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "batch", csv, "-o", filepath.Join(dir, "pdfs"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Succeeded:  2") || !strings.Contains(out, "Failed:     1") {
		t.Errorf("report:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "pdfs", "001_url_github.pdf")); err != nil {
		t.Error(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "pdfs", "003_sms.pdf")); err != nil {
		t.Error(err)
	}

	out, err = execute(t, "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "codes.csv") {
		t.Errorf("history:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "qrstudio "+version {
		t.Errorf("version = %q", out)
	}
}
