// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes parsed entries as a date-keyed document that
// keeps the order in which the pages were parsed.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/stoic-log/pkg/types"
)

// indent matches the layout reviewers are used to in the result file.
const indent = "    "

// entryFields is the value stored under each date key.
type entryFields struct {
	Title       string `json:"title" yaml:"title"`
	Quote       string `json:"quote" yaml:"quote"`
	QuoteSource string `json:"quote_source" yaml:"quote_source"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

func fieldsOf(e types.Entry) entryFields {
	return entryFields{
		Title:       e.Title,
		Quote:       e.Quote,
		QuoteSource: e.QuoteSource,
		Explanation: e.Explanation,
	}
}

func (f entryFields) entry(date string) types.Entry {
	return types.Entry{
		Date:        date,
		Title:       f.Title,
		Quote:       f.Quote,
		QuoteSource: f.QuoteSource,
		Explanation: f.Explanation,
	}
}

// WriteJSON writes entries as one JSON object keyed by date, in insertion
// order, indented with four spaces. Non-ASCII glyphs and HTML characters are
// written as-is.
func WriteJSON(w io.Writer, entries *types.Entries) error {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, e := range entries.List() {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := marshalJSON(e.Date)
		if err != nil {
			return err
		}
		value, err := marshalJSON(fieldsOf(e))
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", e.Date, err)
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return fmt.Errorf("indenting JSON: %w", err)
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

func marshalJSON(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

// ReadJSON decodes a document written by WriteJSON, keeping key order.
func ReadJSON(r io.Reader) (*types.Entries, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	entries := types.NewEntries()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading date key: %w", err)
		}
		date, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected date key, got %v", tok)
		}
		var f entryFields
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decoding entry %s: %w", date, err)
		}
		entries.Add(f.entry(date))
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return entries, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// WriteYAML writes entries as a YAML mapping keyed by date, in insertion
// order.
func WriteYAML(w io.Writer, entries *types.Entries) error {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range entries.List() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Date}
		value := &yaml.Node{}
		if err := value.Encode(fieldsOf(e)); err != nil {
			return fmt.Errorf("marshaling %s: %w", e.Date, err)
		}
		root.Content = append(root.Content, key, value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(len(indent))
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a document written by WriteYAML, keeping key order.
func ReadYAML(r io.Reader) (*types.Entries, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return types.NewEntries(), nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of dates, got YAML kind %d", root.Kind)
	}

	entries := types.NewEntries()
	for i := 0; i+1 < len(root.Content); i += 2 {
		date := root.Content[i].Value
		var f entryFields
		if err := root.Content[i+1].Decode(&f); err != nil {
			return nil, fmt.Errorf("decoding entry %s: %w", date, err)
		}
		entries.Add(f.entry(date))
	}
	return entries, nil
}

// FormatFromPath guesses the format from a file extension. Anything that is
// not .yaml or .yml is JSON.
func FormatFromPath(path string) types.OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML
	default:
		return types.FormatJSON
	}
}

// WriteFile writes entries to path in format, creating parent directories.
func WriteFile(path string, format types.OutputFormat, entries *types.Entries) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var buf bytes.Buffer
	switch format {
	case types.FormatJSON, "":
		if err := WriteJSON(&buf, entries); err != nil {
			return err
		}
	case types.FormatYAML:
		if err := WriteYAML(&buf, entries); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadFile reads a result file, choosing the decoder from its extension.
func ReadFile(path string) (*types.Entries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if FormatFromPath(path) == types.FormatYAML {
		return ReadYAML(f)
	}
	return ReadJSON(f)
}
