package payload

import (
	"fmt"
	"strings"
)

// ContentType selects the template used to build a payload.
type ContentType int

const (
	Text ContentType = iota
	URL
	Email
	Phone
	WiFi
	SMS
	VCard
)

// ContentTypes lists every content type in display order.
var ContentTypes = []ContentType{Text, URL, Email, Phone, WiFi, SMS, VCard}

func (t ContentType) String() string {
	switch t {
	case Text:
		return "Text"
	case URL:
		return "URL"
	case Email:
		return "Email"
	case Phone:
		return "Phone"
	case WiFi:
		return "WiFi"
	case SMS:
		return "SMS"
	case VCard:
		return "VCard"
	}
	return fmt.Sprintf("ContentType(%d)", int(t))
}

// Slug is the lower-case name used in file names and URLs.
func (t ContentType) Slug() string {
	return strings.ToLower(t.String())
}

// ParseContentType parses a content type name case-insensitively.
func ParseContentType(s string) (ContentType, error) {
	name := strings.TrimSpace(s)
	for _, t := range ContentTypes {
		if strings.EqualFold(name, t.String()) {
			return t, nil
		}
	}
	switch strings.ToLower(name) {
	case "wi-fi", "wlan":
		return WiFi, nil
	case "tel", "telephone":
		return Phone, nil
	case "mail", "e-mail", "mailto":
		return Email, nil
	case "contact", "vcf":
		return VCard, nil
	}
	return 0, fmt.Errorf("unknown content type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ContentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ContentType) UnmarshalText(b []byte) error {
	v, err := ParseContentType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// FieldSet maps field names to their raw values.
type FieldSet map[string]string

// Payload is the formatted text handed to the QR encoder.
type Payload string

func (p Payload) String() string { return string(p) }

// Field names.
const (
	FieldText     = "text"
	FieldURL      = "url"
	FieldNumber   = "number"
	FieldEmail    = "email"
	FieldSubject  = "subject"
	FieldBody     = "body"
	FieldMessage  = "message"
	FieldSSID     = "ssid"
	FieldPassword = "password"
	FieldSecurity = "security"
	FieldHidden   = "hidden"
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldOrg      = "org"
)

type fieldSpec struct {
	required []string
	optional []string
	aliases  map[string]string
}

var fieldSpecs = map[ContentType]fieldSpec{
	Text:  {required: []string{FieldText}},
	URL:   {required: []string{FieldURL}},
	Phone: {required: []string{FieldNumber}, aliases: map[string]string{"phone": FieldNumber}},
	Email: {
		required: []string{FieldEmail},
		optional: []string{FieldSubject, FieldBody},
		aliases:  map[string]string{"address": FieldEmail, "message": FieldBody},
	},
	SMS: {
		required: []string{FieldNumber},
		optional: []string{FieldMessage},
		aliases:  map[string]string{"phone": FieldNumber, "body": FieldMessage},
	},
	WiFi: {
		required: []string{FieldSSID, FieldSecurity, FieldPassword},
		optional: []string{FieldHidden},
		aliases:  map[string]string{"encryption": FieldSecurity, "type": FieldSecurity, "pass": FieldPassword},
	},
	VCard: {
		required: []string{FieldName, FieldPhone, FieldEmail, FieldOrg},
		optional: []string{FieldURL},
		aliases:  map[string]string{"organization": FieldOrg, "tel": FieldPhone},
	},
}

// Fields returns the required and optional field names of t.
func (t ContentType) Fields() (required, optional []string) {
	spec := fieldSpecs[t]
	return spec.required, spec.optional
}

// normalize returns a copy of fs with lower-cased keys and aliases resolved.
// A canonical key wins over its alias when both are present.
func (t ContentType) normalize(fs FieldSet) FieldSet {
	spec := fieldSpecs[t]
	out := make(FieldSet, len(fs))
	for k, v := range fs {
		key := strings.ToLower(strings.TrimSpace(k))
		if canon, ok := spec.aliases[key]; ok {
			if _, taken := out[canon]; !taken {
				out[canon] = v
			}
			continue
		}
		out[key] = v
	}
	return out
}
