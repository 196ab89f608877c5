// Package schema parses the text schema-file format from spec.md §6: one
// record per schema, a name plus an ordered field list, whitespace-
// forgiving and tolerant of '#' comments.
package schema

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ecsforge/internal/core/variant"
)

var tagNames = map[string]variant.Tag{
	"int":    variant.Int,
	"uint":   variant.Uint,
	"double": variant.Double,
	"bool":   variant.Bool,
	"string": variant.String,
	"bytes":  variant.Bytes,
	"ptr":    variant.Ptr,
	"array":  variant.Array,
	"map":    variant.Map,
}

// Record is one parsed schema-file entry, ready for variant.NewSchema.
type Record struct {
	Name   string
	Fields []variant.FieldSpec
}

// Parse reads every schema record from r. Each non-blank, non-comment
// line is: `name key:tag[:size] key:tag[:size] ...`. An unknown tag fails
// the load with a descriptive error, per spec.md §6.
func Parse(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		fields := strings.Fields(line)
		if len(fields) < 1 {
			continue
		}
		rec := Record{Name: fields[0]}
		for _, tok := range fields[1:] {
			spec, err := parseFieldToken(tok)
			if err != nil {
				return nil, fmt.Errorf("schema: line %d: %w", lineNo, err)
			}
			rec.Fields = append(rec.Fields, spec)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("schema: scan: %w", err)
	}
	return records, nil
}

func parseFieldToken(tok string) (variant.FieldSpec, error) {
	parts := strings.Split(tok, ":")
	if len(parts) < 2 {
		return variant.FieldSpec{}, fmt.Errorf("malformed field %q, want key:tag[:size]", tok)
	}
	key, tagName := parts[0], parts[1]
	tag, ok := tagNames[tagName]
	if !ok {
		return variant.FieldSpec{}, fmt.Errorf("unknown type tag %q in field %q", tagName, tok)
	}
	spec := variant.FieldSpec{Key: key, Tag: tag}
	switch tag {
	case variant.Array:
		spec.Kind = variant.FieldArray
	case variant.Map:
		spec.Kind = variant.FieldMap
	case variant.Bytes:
		spec.Kind = variant.FieldBytes
		if len(parts) < 3 {
			return variant.FieldSpec{}, fmt.Errorf("bytes field %q requires an explicit size", tok)
		}
		size, err := strconv.Atoi(parts[2])
		if err != nil {
			return variant.FieldSpec{}, fmt.Errorf("bad size in field %q: %w", tok, err)
		}
		spec.Size = size
	default:
		spec.Kind = variant.FieldScalar
	}
	return spec, nil
}

// BuildSchemas parses and constructs every schema in one pass.
func BuildSchemas(r io.Reader) (map[string]*variant.Schema, error) {
	records, err := Parse(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*variant.Schema, len(records))
	for _, rec := range records {
		s, err := variant.NewSchema(rec.Name, rec.Fields)
		if err != nil {
			return nil, err
		}
		out[rec.Name] = s
	}
	return out, nil
}
