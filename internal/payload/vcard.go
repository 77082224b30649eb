package payload

import "strings"

// vCard 3.0 (RFC 2426) requires CRLF line terminators.
const crlf = "\r\n"

var vcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`;`, `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

func vcardText(s string) string {
	return vcardEscaper.Replace(strings.TrimSpace(s))
}

func formatVCard(fs FieldSet) string {
	name := strings.TrimSpace(fs[FieldName])

	var b strings.Builder
	line := func(prop, value string) {
		b.WriteString(prop)
		b.WriteByte(':')
		b.WriteString(value)
		b.WriteString(crlf)
	}

	line("BEGIN", "VCARD")
	line("VERSION", "3.0")
	line("N", structuredName(name))
	line("FN", vcardText(name))
	line("ORG", vcardText(fs[FieldOrg]))
	line("TEL", vcardText(fs[FieldPhone]))
	line("EMAIL", vcardText(fs[FieldEmail]))
	if u := strings.TrimSpace(fs[FieldURL]); u != "" {
		line("URL", u)
	}
	line("END", "VCARD")
	return b.String()
}

// structuredName maps a display name onto the N property
// (family;given;additional;prefix;suffix). The last word is taken as the
// family name.
func structuredName(name string) string {
	words := strings.Fields(name)
	var family, given string
	var additional []string
	switch len(words) {
	case 0:
	case 1:
		family = words[0]
	default:
		given = words[0]
		family = words[len(words)-1]
		additional = words[1 : len(words)-1]
	}
	for i, w := range additional {
		additional[i] = vcardText(w)
	}
	return vcardText(family) + ";" + vcardText(given) + ";" + strings.Join(additional, ",") + ";;"
}
