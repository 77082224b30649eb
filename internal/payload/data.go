package payload

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// IsMultiField reports whether t needs more than one field, in which case a
// batch data cell carries a structured sub-format.
func (t ContentType) IsMultiField() bool {
	spec := fieldSpecs[t]
	return len(spec.required)+len(spec.optional) > 1
}

// ParseData turns a batch data cell into a FieldSet. Single-field types use
// the whole cell. Multi-field types accept a JSON object of strings or a URL
// query string such as "ssid=Home%3BNet&password=p%40ss&security=WPA".
func ParseData(t ContentType, data string) (FieldSet, error) {
	if !t.IsMultiField() {
		spec := fieldSpecs[t]
		return FieldSet{spec.required[0]: data}, nil
	}

	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return FieldSet{}, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var raw map[string]any
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return nil, fmt.Errorf("parse %s data as JSON: %w", t, err)
		}
		fs := make(FieldSet, len(raw))
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				fs[k] = val
			case bool, float64:
				fs[k] = fmt.Sprint(val)
			case nil:
			default:
				return nil, fmt.Errorf("parse %s data: field %q must be a string", t, k)
			}
		}
		return fs, nil
	}

	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse %s data as query string: %w", t, err)
	}
	fs := make(FieldSet, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fs[k] = v[0]
		}
	}
	return fs, nil
}

// Detect guesses the content type of a decoded payload.
func Detect(p string) ContentType {
	upper := strings.ToUpper(p)
	switch {
	case strings.HasPrefix(upper, "WIFI:"):
		return WiFi
	case strings.HasPrefix(upper, "BEGIN:VCARD"):
		return VCard
	case strings.HasPrefix(upper, "MAILTO:"):
		return Email
	case strings.HasPrefix(upper, "TEL:"):
		return Phone
	case strings.HasPrefix(upper, "SMS:"), strings.HasPrefix(upper, "SMSTO:"):
		return SMS
	case strings.HasPrefix(upper, "HTTP://"), strings.HasPrefix(upper, "HTTPS://"):
		return URL
	}
	return Text
}
