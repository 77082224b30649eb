package payload

import (
	"errors"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		typ    ContentType
		fields FieldSet
		want   string
	}{
		{"text", Text, FieldSet{"text": "hello world"}, "hello world"},
		{"text keeps whitespace", Text, FieldSet{"text": "  padded  "}, "  padded  "},
		{"url unmodified", URL, FieldSet{"url": "github.com/foo"}, "github.com/foo"},
		{"phone", Phone, FieldSet{"number": "+1234567890"}, "tel:+1234567890"},
		{"phone alias", Phone, FieldSet{"phone": "555"}, "tel:555"},
		{"email full", Email, FieldSet{"email": "a@b.co", "subject": "Hi", "body": "Yo"}, "mailto:a@b.co?subject=Hi&body=Yo"},
		{"email blank optional", Email, FieldSet{"email": "a@b.co"}, "mailto:a@b.co?subject=&body="},
		{"email escapes query", Email, FieldSet{"email": "a@b.co", "subject": "a b&c"}, "mailto:a@b.co?subject=a%20b%26c&body="},
		{"sms", SMS, FieldSet{"number": "+1", "message": "Hello"}, "sms:+1:Hello"},
		{"sms no message", SMS, FieldSet{"phone": "+1"}, "sms:+1"},
		{"wifi escape", WiFi, FieldSet{"ssid": "Home;Net", "password": "p@ss", "security": "WPA"}, `WIFI:T:WPA;S:Home\;Net;P:p@ss;;`},
		{"wifi all specials", WiFi, FieldSet{"ssid": `a,b:c\d`, "password": "x;y", "security": "wep"}, `WIFI:T:WEP;S:a\,b\:c\\d;P:x\;y;;`},
		{"wifi wpa2 folds", WiFi, FieldSet{"ssid": "n", "password": "p", "security": "WPA2"}, "WIFI:T:WPA;S:n;P:p;;"},
		{"wifi nopass", WiFi, FieldSet{"ssid": "open", "security": "nopass"}, "WIFI:T:nopass;S:open;P:;;"},
		{"wifi hidden", WiFi, FieldSet{"ssid": "n", "password": "p", "security": "WPA", "hidden": "true"}, "WIFI:T:WPA;S:n;P:p;H:true;;"},
		{
			"vcard", VCard,
			FieldSet{"name": "John Doe", "phone": "+1", "email": "j@d.io", "organization": "Acme, Inc."},
			"BEGIN:VCARD\r\nVERSION:3.0\r\nN:Doe;John;;;\r\nFN:John Doe\r\nORG:Acme\\, Inc.\r\nTEL:+1\r\nEMAIL:j@d.io\r\nEND:VCARD\r\n",
		},
		{
			"vcard single name with url", VCard,
			FieldSet{"name": "Cher", "phone": "1", "email": "c@x.y", "org": "X", "url": "https://x.y"},
			"BEGIN:VCARD\r\nVERSION:3.0\r\nN:Cher;;;;\r\nFN:Cher\r\nORG:X\r\nTEL:1\r\nEMAIL:c@x.y\r\nURL:https://x.y\r\nEND:VCARD\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.typ, tt.fields)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatMissingRequired(t *testing.T) {
	full := map[ContentType]FieldSet{
		Text:  {"text": "x"},
		URL:   {"url": "https://x"},
		Phone: {"number": "1"},
		Email: {"email": "a@b"},
		SMS:   {"number": "1"},
		WiFi:  {"ssid": "s", "password": "p", "security": "WPA"},
		VCard: {"name": "n", "phone": "1", "email": "e", "org": "o"},
	}
	for _, typ := range ContentTypes {
		required, _ := typ.Fields()
		for _, field := range required {
			for _, blank := range []bool{false, true} {
				fs := FieldSet{}
				for k, v := range full[typ] {
					fs[k] = v
				}
				if blank {
					fs[field] = "   "
				} else {
					delete(fs, field)
				}
				p, err := Format(typ, fs)
				var ife *InvalidFieldError
				if !errors.As(err, &ife) {
					t.Fatalf("%s without %s: err = %v, want InvalidFieldError", typ, field, err)
				}
				if ife.Field != field || ife.Type != typ {
					t.Errorf("%s without %s: got error for %s/%s", typ, field, ife.Type, ife.Field)
				}
				if p != "" {
					t.Errorf("%s without %s: payload %q produced", typ, field, p)
				}
			}
		}
	}
}

func TestFormatRejectsBadValues(t *testing.T) {
	cases := []struct {
		typ    ContentType
		fields FieldSet
		field  string
	}{
		{WiFi, FieldSet{"ssid": "s", "password": "p", "security": "WPA9"}, "security"},
		{Text, FieldSet{"text": "a\x00b"}, "text"},
		{URL, FieldSet{"url": "\xff\xfe"}, "url"},
	}
	for _, c := range cases {
		_, err := Format(c.typ, c.fields)
		var ife *InvalidFieldError
		if !errors.As(err, &ife) || ife.Field != c.field {
			t.Errorf("Format(%s, %v) error = %v, want InvalidFieldError on %s", c.typ, c.fields, err, c.field)
		}
	}
}

func TestFormatNonEmpty(t *testing.T) {
	p, err := Format(Text, FieldSet{"text": "x"})
	if err != nil || p == "" {
		t.Fatalf("Format() = %q, %v", p, err)
	}
}

func TestParseContentType(t *testing.T) {
	for in, want := range map[string]ContentType{
		"text": Text, "URL": URL, "email": Email, "PHONE": Phone,
		"wifi": WiFi, "WiFi": WiFi, "sms": SMS, "vCard": VCard, " vcard ": VCard,
	} {
		got, err := ParseContentType(in)
		if err != nil || got != want {
			t.Errorf("ParseContentType(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseContentType("fax"); err == nil {
		t.Error("ParseContentType(fax) succeeded")
	}
}

func TestVCardLineEndings(t *testing.T) {
	p, err := Format(VCard, FieldSet{"name": "A B", "phone": "1", "email": "e", "org": "multi\nline"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(p)
	if strings.Count(s, "\r\n") != strings.Count(s, "\n") {
		t.Errorf("bare LF in vCard payload %q", s)
	}
	if !strings.Contains(s, `ORG:multi\nline`) {
		t.Errorf("newline in value not escaped: %q", s)
	}
}
