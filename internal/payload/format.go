// Package payload builds the text encoded into a QR code from a content type
// and its fields, following the conventions common QR readers understand
// (tel:, mailto:, WIFI:, vCard 3.0).
package payload

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Format builds the payload for t from fields. It fails with
// *InvalidFieldError when a required field is missing or blank, or when a
// value cannot be encoded.
func Format(t ContentType, fields FieldSet) (Payload, error) {
	spec, ok := fieldSpecs[t]
	if !ok {
		return "", invalid(t, "type", "is not a known content type")
	}
	fs := t.normalize(fields)

	for _, name := range spec.required {
		if name == FieldPassword && t == WiFi && isNoPass(fs[FieldSecurity]) {
			continue
		}
		if strings.TrimSpace(fs[name]) == "" {
			return "", missing(t, name)
		}
	}
	for name, v := range fs {
		if err := checkValue(t, name, v); err != nil {
			return "", err
		}
	}

	var (
		p   string
		err error
	)
	switch t {
	case Text:
		p = fs[FieldText]
	case URL:
		p = fs[FieldURL]
	case Phone:
		p = "tel:" + fs[FieldNumber]
	case Email:
		p = formatEmail(fs)
	case SMS:
		p = formatSMS(fs)
	case WiFi:
		p, err = formatWiFi(fs)
	case VCard:
		p = formatVCard(fs)
	}
	if err != nil {
		return "", err
	}
	return Payload(p), nil
}

// checkValue rejects text the encoder cannot carry faithfully.
func checkValue(t ContentType, name, v string) error {
	if !utf8.ValidString(v) {
		return invalid(t, name, "is not valid UTF-8")
	}
	for _, r := range v {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return invalid(t, name, "contains control characters")
		}
	}
	return nil
}

func formatEmail(fs FieldSet) string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(strings.TrimSpace(fs[FieldEmail]))
	b.WriteString("?subject=")
	b.WriteString(queryEscape(fs[FieldSubject]))
	b.WriteString("&body=")
	b.WriteString(queryEscape(fs[FieldBody]))
	return b.String()
}

// queryEscape percent-encodes s for a mailto query; spaces become %20 since
// mail clients do not decode '+'.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatSMS(fs FieldSet) string {
	p := "sms:" + strings.TrimSpace(fs[FieldNumber])
	if msg := fs[FieldMessage]; msg != "" {
		p += ":" + msg
	}
	return p
}

// CheckURL reports why raw may not open in a browser. The payload itself is
// never rewritten; callers use the result as a warning.
func CheckURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if u.Scheme == "" {
		return errNoScheme
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return errNoHost
	}
	return nil
}

type urlWarning string

func (w urlWarning) Error() string { return string(w) }

const (
	errNoScheme = urlWarning("URL has no scheme (add http:// or https://)")
	errNoHost   = urlWarning("URL has no host")
)
