package soapcalls

import "strings"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape encodes the five XML special characters for embedding text in an
// envelope or DIDL document.
func Escape(s string) string { return xmlEscaper.Replace(s) }

// ExtractTag pulls the text between <tag ...> and </tag> out of a SOAP
// response without caring about namespace prefixes. Renderer replies vary
// between <CurrentVolume>, <u:CurrentVolume> and friends, so matching is
// done on the local tag name. Returns "" when the tag is absent.
func ExtractTag(body, tag string) string {
	rest := body
	for {
		open := strings.Index(rest, "<")
		if open < 0 {
			return ""
		}
		rest = rest[open+1:]

		end := strings.IndexAny(rest, "> \t\r\n/")
		if end < 0 {
			return ""
		}
		name := rest[:end]
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[i+1:]
		}
		if name != tag {
			continue
		}

		gt := strings.IndexByte(rest, '>')
		if gt < 0 {
			return ""
		}
		if strings.HasSuffix(strings.TrimSpace(rest[:gt]), "/") {
			// self-closing tag carries no text
			return ""
		}
		content := rest[gt+1:]
		closing := strings.Index(content, "</")
		if closing < 0 {
			return ""
		}
		return content[:closing]
	}
}
