package payload

import (
	"errors"
	"testing"
)

func TestWiFiRoundTrip(t *testing.T) {
	cases := []WiFiNetwork{
		{SSID: "Home;Net", Password: "p@ss", Security: "WPA"},
		{SSID: `back\slash`, Password: `a:b,c;d\e`, Security: "WEP"},
		{SSID: "::;;,,", Password: `\\`, Security: "WPA", Hidden: true},
		{SSID: "café ☕", Password: "", Security: "nopass"},
	}
	for _, want := range cases {
		fs := FieldSet{"ssid": want.SSID, "password": want.Password, "security": want.Security}
		if want.Hidden {
			fs["hidden"] = "yes"
		}
		p, err := Format(WiFi, fs)
		if err != nil {
			t.Fatalf("Format(%+v) error = %v", want, err)
		}
		got, err := ParseWiFi(string(p))
		if err != nil {
			t.Fatalf("ParseWiFi(%q) error = %v", p, err)
		}
		if got != want {
			t.Errorf("round trip of %q = %+v, want %+v", p, got, want)
		}
	}
}

func TestParseWiFiErrors(t *testing.T) {
	if _, err := ParseWiFi("tel:123"); !errors.Is(err, ErrNotWiFi) {
		t.Errorf("ParseWiFi(tel) error = %v, want ErrNotWiFi", err)
	}
	if _, err := ParseWiFi(`WIFI:S:abc\`); err == nil {
		t.Error("dangling escape accepted")
	}
	if _, err := ParseWiFi("WIFI:garbage;;"); err == nil {
		t.Error("element without key accepted")
	}
}

func TestParseWiFiFieldOrder(t *testing.T) {
	got, err := ParseWiFi(`WIFI:S:net\;1;T:WEP;P:secret;H:false;;`)
	if err != nil {
		t.Fatal(err)
	}
	want := WiFiNetwork{SSID: "net;1", Password: "secret", Security: "WEP"}
	if got != want {
		t.Errorf("ParseWiFi() = %+v, want %+v", got, want)
	}
}
