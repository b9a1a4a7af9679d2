// Package notes parses markdown documents with YAML frontmatter and
// resolves merges between duplicate notes.
package notes

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sdejongh/dupenorris/pkg/models"
)

const frontmatterDelimiter = "---"

var inlineTagRe = regexp.MustCompile(`#([a-zA-Z0-9_-]+)`)

// Parse parses note content into frontmatter, tags and body. Content
// without a frontmatter block yields an empty frontmatter map and the
// full text as body. Tags come from the frontmatter "tags"/"tag" keys
// plus inline #tags in the body, deduplicated and sorted.
func Parse(data []byte) (*models.Note, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	note := &models.Note{
		Frontmatter: map[string]interface{}{},
		Body:        text,
	}

	if rest, ok := strings.CutPrefix(text, frontmatterDelimiter+"\n"); ok {
		if end := strings.Index(rest, "\n"+frontmatterDelimiter); end >= 0 {
			block := rest[:end]
			body := rest[end+len(frontmatterDelimiter)+1:]
			body = strings.TrimLeft(body, "\n")

			fm := map[string]interface{}{}
			if err := yaml.Unmarshal([]byte(block), &fm); err == nil {
				note.Frontmatter = fm
				note.Body = body
			}
			// Malformed frontmatter is treated as body text rather
			// than failing the whole note.
		}
	}

	note.Tags = collectTags(note.Frontmatter, note.Body)
	return note, nil
}

// Load reads and parses a note file. Unreadable paths fail with
// models.UnreadableItemError so scans can record and skip them.
func Load(path string) (*models.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.UnreadableItemError{Path: path, Err: err}
	}
	return Parse(data)
}

// collectTags merges frontmatter tags with inline #tags from the body.
func collectTags(fm map[string]interface{}, body string) []string {
	seen := map[string]bool{}

	for _, key := range []string{"tags", "tag"} {
		switch v := fm[key].(type) {
		case string:
			for _, t := range strings.Fields(v) {
				seen[strings.Trim(t, `"'`)] = true
			}
		case []interface{}:
			for _, elem := range v {
				if s, ok := elem.(string); ok && s != "" {
					seen[s] = true
				}
			}
		}
	}

	for _, m := range inlineTagRe.FindAllStringSubmatch(body, -1) {
		seen[m[1]] = true
	}

	delete(seen, "")
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Render serializes a frontmatter map and body back into note text.
// Used by callers writing a merged document; the engine itself never
// writes files.
func Render(frontmatter map[string]interface{}, tags []string, body string) ([]byte, error) {
	fm := make(map[string]interface{}, len(frontmatter)+1)
	for k, v := range frontmatter {
		fm[k] = v
	}
	if len(tags) > 0 {
		fm["tags"] = tags
	}

	var b strings.Builder
	if len(fm) > 0 {
		data, err := yaml.Marshal(fm)
		if err != nil {
			return nil, err
		}
		b.WriteString(frontmatterDelimiter + "\n")
		b.Write(data)
		b.WriteString(frontmatterDelimiter + "\n\n")
	}
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
