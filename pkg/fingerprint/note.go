package fingerprint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sdejongh/dupenorris/pkg/models"
)

// Note computes the signature of a parsed note in normalized form, so
// semantically identical notes whose frontmatter keys are reordered or
// whose bodies differ only in whitespace still match.
func (f *Fingerprinter) Note(note *models.Note) string {
	var b strings.Builder
	writeCanonicalMap(&b, note.Frontmatter)
	b.WriteString("\n---\n")
	b.WriteString(NormalizeBody(note.Body))
	return Bytes([]byte(b.String()))
}

// NormalizeBody canonicalizes note body text: CRLF to LF, trailing
// whitespace stripped per line, leading and trailing blank lines
// removed.
func NormalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// writeCanonicalMap renders a frontmatter map with sorted keys and a
// stable value encoding, recursively.
func writeCanonicalMap(b *strings.Builder, m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		writeCanonicalValue(b, m[k])
		b.WriteByte('\n')
	}
}

func writeCanonicalValue(b *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		b.WriteByte('{')
		writeCanonicalMap(b, val)
		b.WriteByte('}')
	case []interface{}:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonicalValue(b, elem)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%v", val)
	}
}
