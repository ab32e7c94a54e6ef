// Package rulesdoc manages the shared global rules markdown document. Rules
// live in uniquely delimited blocks keyed by skill name:
//
//	<!-- ANTHROPIC_SKILL_START: name -->
//	...content...
//	<!-- ANTHROPIC_SKILL_END: name -->
//
// Document is an immutable value; Upsert and Remove return a new Document
// and all file I/O happens through Load and Save at the boundary. Blocks are
// located by exact match on marker lines rather than pattern matching, so
// names are treated as opaque identifiers and names containing marker
// syntax are rejected up front.
package rulesdoc

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	startPrefix  = "<!-- ANTHROPIC_SKILL_START: "
	endPrefix    = "<!-- ANTHROPIC_SKILL_END: "
	markerSuffix = " -->"
)

// ErrNotFound reports that no block exists for the requested name.
var ErrNotFound = errors.New("global rule not found")

// StartMarker returns the opening marker line for a skill name.
func StartMarker(name string) string {
	return startPrefix + name + markerSuffix
}

// EndMarker returns the closing marker line for a skill name.
func EndMarker(name string) string {
	return endPrefix + name + markerSuffix
}

// ValidateName rejects names that would corrupt the marker syntax. Markers
// embed the name verbatim with no escaping.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("skill name must not be empty")
	case strings.ContainsAny(name, "\r\n"):
		return errors.Errorf("skill name %q must not contain newlines", name)
	case strings.Contains(name, "<!--") || strings.Contains(name, "-->"):
		return errors.Errorf("skill name %q must not contain comment marker syntax", name)
	}
	return nil
}

// Document is the full content of the global rules file.
type Document struct {
	content string
}

// New wraps existing document content.
func New(content string) Document {
	return Document{content: content}
}

// Load reads the document from path. An absent file loads as an empty
// document.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, nil
		}
		return Document{}, errors.Wrap(err, "failed to read global rules file")
	}
	return Document{content: string(data)}, nil
}

// Save writes the full document to path, creating parent directories as
// needed.
func (d Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create global rules directory")
	}
	if err := os.WriteFile(path, []byte(d.content), 0o644); err != nil {
		return errors.Wrap(err, "failed to write global rules file")
	}
	return nil
}

// Content returns the raw document content.
func (d Document) Content() string {
	return d.content
}

type span struct {
	start, end int
}

// findBlock locates the span from the first start-marker line for name
// through the first subsequent end-marker line, inclusive. The end offset
// excludes the trailing newline of the end-marker line.
func (d Document) findBlock(name string) (span, bool) {
	startMarker := StartMarker(name)
	endMarker := EndMarker(name)

	blockStart := -1
	pos := 0
	for pos <= len(d.content) {
		var line string
		var next int
		if i := strings.IndexByte(d.content[pos:], '\n'); i >= 0 {
			line = d.content[pos : pos+i]
			next = pos + i + 1
		} else {
			line = d.content[pos:]
			next = len(d.content) + 1
		}

		switch strings.TrimRight(line, "\r") {
		case startMarker:
			if blockStart < 0 {
				blockStart = pos
			}
		case endMarker:
			if blockStart >= 0 {
				return span{start: blockStart, end: pos + len(line)}, true
			}
		}

		pos = next
	}

	return span{}, false
}

// Upsert replaces the block for name with content, or appends a new block
// when none exists. The returned bool reports whether an existing block was
// replaced. After Upsert the document holds exactly one block for name; all
// other content is untouched.
func (d Document) Upsert(name, content string) (Document, bool, error) {
	if err := ValidateName(name); err != nil {
		return d, false, err
	}

	block := StartMarker(name) + "\n" + content + "\n" + EndMarker(name)

	if sp, ok := d.findBlock(name); ok {
		return Document{content: d.content[:sp.start] + block + d.content[sp.end:]}, true, nil
	}

	if strings.TrimSpace(d.content) == "" {
		return Document{content: block}, false, nil
	}

	return Document{content: strings.TrimRight(d.content, " \t\r\n") + "\n\n" + block}, false, nil
}

// Remove deletes the block for name, including any whitespace immediately
// following it, then normalizes the document: runs of three or more
// newlines collapse to a single blank line, and the document ends with
// exactly one trailing newline. Other blocks keep their content; only the
// whitespace between them may change.
func (d Document) Remove(name string) (Document, error) {
	sp, ok := d.findBlock(name)
	if !ok {
		return d, errors.Wrapf(ErrNotFound, "global rule '%s'", name)
	}

	remaining := d.content[:sp.start] + strings.TrimLeft(d.content[sp.end:], " \t\r\n")
	remaining = collapseNewlines(strings.TrimSpace(remaining)) + "\n"

	return Document{content: remaining}, nil
}

// Names returns the skill names embedded in start markers, in document
// order.
func (d Document) Names() []string {
	var names []string
	for _, line := range strings.Split(d.content, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) > len(startPrefix)+len(markerSuffix) &&
			strings.HasPrefix(line, startPrefix) && strings.HasSuffix(line, markerSuffix) {
			names = append(names, line[len(startPrefix):len(line)-len(markerSuffix)])
		}
	}
	return names
}

func collapseNewlines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
