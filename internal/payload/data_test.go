package payload

import "testing"

func TestParseData(t *testing.T) {
	tests := []struct {
		name string
		typ  ContentType
		data string
		want FieldSet
	}{
		{"single field", URL, "https://github.com", FieldSet{"url": "https://github.com"}},
		{"single field keeps separators", Text, "a=b&c", FieldSet{"text": "a=b&c"}},
		{"json", WiFi, `{"ssid":"Home;Net","password":"p@ss","security":"WPA","hidden":true}`,
			FieldSet{"ssid": "Home;Net", "password": "p@ss", "security": "WPA", "hidden": "true"}},
		{"query", WiFi, "ssid=Home%3BNet&password=p%40ss&security=WPA",
			FieldSet{"ssid": "Home;Net", "password": "p@ss", "security": "WPA"}},
		{"empty multi", Email, "  ", FieldSet{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseData(tt.typ, tt.data)
			if err != nil {
				t.Fatalf("ParseData() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseData() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("field %s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestParseDataErrors(t *testing.T) {
	if _, err := ParseData(VCard, `{"name":`); err == nil {
		t.Error("truncated JSON accepted")
	}
	if _, err := ParseData(VCard, `{"name":["a"]}`); err == nil {
		t.Error("array value accepted")
	}
	if _, err := ParseData(SMS, "number=%zz"); err == nil {
		t.Error("bad query escape accepted")
	}
}

func TestDetect(t *testing.T) {
	for in, want := range map[string]ContentType{
		"WIFI:T:WPA;S:x;P:y;;": WiFi,
		"BEGIN:VCARD\r\nEND":   VCard,
		"mailto:a@b?subject=":  Email,
		"tel:+1":               Phone,
		"sms:+1:hi":            SMS,
		"https://github.com":   URL,
		"just some words":      Text,
	} {
		if got := Detect(in); got != want {
			t.Errorf("Detect(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCheckURL(t *testing.T) {
	if err := CheckURL("https://github.com"); err != nil {
		t.Errorf("CheckURL(valid) = %v", err)
	}
	if err := CheckURL("github.com"); err == nil {
		t.Error("CheckURL without scheme returned nil")
	}
	if err := CheckURL("https://"); err == nil {
		t.Error("CheckURL without host returned nil")
	}
}
