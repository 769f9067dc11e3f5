// Package inifile parses the INI-style config files used by the migration
// framework (sections of key = value pairs, ; or # comments). Only the
// subset gatekeeper needs is supported: there is no value interpolation and
// keys outside a section are a parse error.
package inifile

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	// iniLexer tokenizes INI input. Values swallow everything from the '='
	// to end of line, so free text (paths, DSNs, format strings) survives.
	iniLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `[;#][^\r\n]*`},
		{Name: "Section", Pattern: `\[[^\]\r\n]+\]`},
		{Name: "Value", Pattern: `=[^\r\n]*`},
		{Name: "Key", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	// parser is the participle parser instance for INI files
	parser = participle.MustBuild[File](
		participle.Lexer(iniLexer),
		participle.Elide("Comment", "Whitespace"),
	)
)

type (
	// File is a parsed INI file: an ordered list of sections.
	File struct {
		Sections []*Section `parser:"@@*"`
	}

	// Section is a named group of key/value entries.
	Section struct {
		Name    SectionName `parser:"@Section"`
		Entries []*Entry    `parser:"@@*"`
	}

	// Entry is a single key = value line.
	Entry struct {
		Key   string     `parser:"@Key"`
		Value EntryValue `parser:"@Value"`
	}

	// SectionName captures a section header with the brackets stripped.
	SectionName string

	// EntryValue captures a value with the leading '=' and padding stripped.
	EntryValue string
)

func (s *SectionName) Capture(values []string) error {
	*s = SectionName(strings.TrimSpace(strings.Trim(values[0], "[]")))
	return nil
}

func (v *EntryValue) Capture(values []string) error {
	*v = EntryValue(strings.TrimSpace(strings.TrimPrefix(values[0], "=")))
	return nil
}

// Parse parses INI content from the provided io.Reader.
func Parse(r io.Reader) (*File, error) {
	file, err := parser.Parse("", r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ini")
	}
	return file, nil
}

// ParseString parses INI content from a string.
func ParseString(s string) (*File, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses the INI file at the given path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Lookup returns the value for key within the named section. When a key
// appears more than once in a section, the last occurrence wins.
func (f *File) Lookup(section, key string) (string, bool) {
	var (
		value string
		found bool
	)

	for _, s := range f.Sections {
		if string(s.Name) != section {
			continue
		}

		for _, e := range s.Entries {
			if e.Key == key {
				value, found = string(e.Value), true
			}
		}
	}

	return value, found
}

// String renders the file in normalized form: one section per block,
// `key = value` entries, comments dropped.
func (f *File) String() string {
	var b strings.Builder

	for i, s := range f.Sections {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("[" + string(s.Name) + "]\n")
		for _, e := range s.Entries {
			b.WriteString(e.Key + " = " + string(e.Value) + "\n")
		}
	}

	return b.String()
}
