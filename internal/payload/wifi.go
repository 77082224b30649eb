package payload

import (
	"errors"
	"strings"
)

// Security modes accepted in WIFI: payloads.
const (
	SecurityWPA    = "WPA"
	SecurityWEP    = "WEP"
	SecurityNoPass = "nopass"
)

// wifiSpecial are the characters that delimit WIFI: payload elements.
const wifiSpecial = `\;,:`

func normalizeSecurity(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WPA", "WPA2", "WPA3", "WPA/WPA2", "WPA2/WPA3", "SAE":
		return SecurityWPA, true
	case "WEP":
		return SecurityWEP, true
	case "NOPASS", "NONE", "OPEN":
		return SecurityNoPass, true
	}
	return "", false
}

func isNoPass(s string) bool {
	v, ok := normalizeSecurity(s)
	return ok && v == SecurityNoPass
}

func formatWiFi(fs FieldSet) (string, error) {
	sec, ok := normalizeSecurity(fs[FieldSecurity])
	if !ok {
		return "", invalid(WiFi, FieldSecurity, "must be one of WPA, WEP, nopass")
	}
	password := fs[FieldPassword]
	if sec == SecurityNoPass {
		password = ""
	}

	var b strings.Builder
	b.WriteString("WIFI:T:")
	b.WriteString(sec)
	b.WriteString(";S:")
	b.WriteString(escapeWiFi(fs[FieldSSID]))
	b.WriteString(";P:")
	b.WriteString(escapeWiFi(password))
	b.WriteString(";")
	if truthy(fs[FieldHidden]) {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String(), nil
}

func escapeWiFi(s string) string {
	if !strings.ContainsAny(s, wifiSpecial) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if strings.ContainsRune(wifiSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// WiFiNetwork is the decoded content of a WIFI: payload.
type WiFiNetwork struct {
	SSID     string
	Password string
	Security string
	Hidden   bool
}

// ErrNotWiFi is returned by ParseWiFi for payloads without the WIFI: prefix.
var ErrNotWiFi = errors.New("payload is not a WIFI: payload")

// ParseWiFi decodes a WIFI: payload, undoing backslash escapes.
func ParseWiFi(p string) (WiFiNetwork, error) {
	rest, ok := strings.CutPrefix(p, "WIFI:")
	if !ok {
		return WiFiNetwork{}, ErrNotWiFi
	}

	var (
		n   WiFiNetwork
		cur strings.Builder
	)
	flush := func() error {
		elem := cur.String()
		cur.Reset()
		if elem == "" {
			return nil
		}
		key, val, found := splitElement(elem)
		if !found {
			return errors.New("malformed WIFI element " + elem)
		}
		switch key {
		case "S":
			n.SSID = val
		case "P":
			n.Password = val
		case "T":
			n.Security = val
		case "H":
			n.Hidden = truthy(val)
		}
		return nil
	}

	escaped := false
	for _, r := range rest {
		switch {
		case escaped:
			cur.WriteByte('\\')
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ';':
			if err := flush(); err != nil {
				return WiFiNetwork{}, err
			}
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		return WiFiNetwork{}, errors.New("WIFI payload ends with a dangling escape")
	}
	if err := flush(); err != nil {
		return WiFiNetwork{}, err
	}
	if n.Security == "" {
		n.Security = SecurityNoPass
	}
	return n, nil
}

// splitElement splits "K:value" on the first unescaped colon and unescapes
// the value. Escapes are still present in elem as backslash pairs.
func splitElement(elem string) (string, string, bool) {
	key, raw, ok := strings.Cut(elem, ":")
	if !ok || strings.HasPrefix(key, "\\") {
		return "", "", false
	}
	var b strings.Builder
	esc := false
	for _, r := range raw {
		if !esc && r == '\\' {
			esc = true
			continue
		}
		esc = false
		b.WriteRune(r)
	}
	return key, b.String(), true
}
