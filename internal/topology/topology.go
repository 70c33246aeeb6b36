// Package topology decodes the topojson subset needed to extract interior points.
package topology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/woozymasta/topoloc/internal/geo"
)

// ParseMode selects how the input bytes are split into JSON documents.
type ParseMode string

const (
	// ModeAuto uses a single document when the whole input is valid JSON,
	// otherwise falls back to line-delimited parsing.
	ModeAuto ParseMode = "auto"
	// ModeSingleDocument parses the whole input as one JSON document.
	ModeSingleDocument ParseMode = "single-document"
	// ModeLineDelimited parses every non-blank line as an independent document.
	ModeLineDelimited ParseMode = "line-delimited"
)

// Valid reports whether m is a known parse mode.
func (m ParseMode) Valid() bool {
	switch m {
	case ModeAuto, ModeSingleDocument, ModeLineDelimited:
		return true
	default:
		return false
	}
}

// Property keys read from each geometry.
const (
	PropertyID        = "geo_id"
	PropertyLatitude  = "INTPTLAT"
	PropertyLongitude = "INTPTLON"
)

// Geometry is one element of a layer's geometries list.
// Only properties are decoded; arcs and type are ignored.
type Geometry struct {
	Properties map[string]json.RawMessage `json:"properties"`
}

// rawDocument keeps layers undecoded until one is requested.
type rawDocument struct {
	Objects map[string]json.RawMessage `json:"objects"`
}

type rawLayer struct {
	Geometries *[]json.RawMessage `json:"geometries"`
}

// Document is a parsed topojson input, possibly made of several line documents.
type Document struct {
	Path  string
	Mode  ParseMode
	parts []rawDocument
}

// Parts returns the number of JSON documents parsed from the input.
func (d *Document) Parts() int {
	return len(d.parts)
}

// Parse decodes data according to mode. The returned document records the mode
// that was actually used, which differs from mode only for ModeAuto.
func Parse(path string, data []byte, mode ParseMode) (*Document, error) {
	switch mode {
	case ModeSingleDocument:
		return parseSingle(path, data)
	case ModeLineDelimited:
		return parseLines(path, data)
	case ModeAuto:
		if json.Valid(data) {
			return parseSingle(path, data)
		}
		if linesValid(data) {
			return parseLines(path, data)
		}
		return parseSingle(path, data)
	default:
		return nil, fmt.Errorf("unknown parse mode %q", mode)
	}
}

func parseSingle(path string, data []byte) (*Document, error) {
	part, err := decodePart(path, data, 0)
	if err != nil {
		return nil, err
	}

	return &Document{Path: path, Mode: ModeSingleDocument, parts: []rawDocument{part}}, nil
}

func parseLines(path string, data []byte) (*Document, error) {
	doc := &Document{Path: path, Mode: ModeLineDelimited}

	for i, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		part, err := decodePart(path, line, i+1)
		if err != nil {
			return nil, err
		}
		doc.parts = append(doc.parts, part)
	}

	return doc, nil
}

// linesValid reports whether every non-blank line is a JSON document and at least one exists.
func linesValid(data []byte) bool {
	found := false
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if !json.Valid(line) {
			return false
		}
		found = true
	}

	return found
}

func decodePart(path string, data []byte, line int) (rawDocument, error) {
	var part rawDocument
	if err := json.Unmarshal(data, &part); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "document"
			}
			return part, &SchemaError{Path: path, Field: field, Reason: "has wrong type " + typeErr.Value, Index: -1}
		}
		return part, &ParseError{Path: path, Line: line, Err: err}
	}

	return part, nil
}

// Layer is the ordered geometries list of one object key, concatenated across
// all documents of the input.
type Layer struct {
	Path       string
	Key        string
	Geometries []json.RawMessage
}

// Layer looks up objects[key].geometries in every document of the input.
func (d *Document) Layer(key string) (*Layer, error) {
	layer := &Layer{Path: d.Path, Key: key}

	for _, part := range d.parts {
		if part.Objects == nil {
			return nil, &SchemaError{Path: d.Path, Field: "objects", Reason: "is missing", Index: -1}
		}

		raw, ok := part.Objects[key]
		if !ok {
			return nil, &SchemaError{Path: d.Path, Field: "objects." + key, Reason: "is missing", Index: -1}
		}

		var rl rawLayer
		if err := json.Unmarshal(raw, &rl); err != nil {
			return nil, &SchemaError{Path: d.Path, Field: "objects." + key, Reason: "is malformed: " + err.Error(), Index: -1}
		}
		if rl.Geometries == nil {
			return nil, &SchemaError{Path: d.Path, Field: "objects." + key + ".geometries", Reason: "is missing", Index: -1}
		}

		layer.Geometries = append(layer.Geometries, *rl.Geometries...)
	}

	return layer, nil
}

// Len returns the number of geometries in the layer.
func (l *Layer) Len() int {
	return len(l.Geometries)
}

// Locations lazily projects every geometry into a location row, in input order.
// The sequence yields a SchemaError and stops at the first malformed record.
func (l *Layer) Locations() iter.Seq2[geo.Location, error] {
	return func(yield func(geo.Location, error) bool) {
		for i, raw := range l.Geometries {
			loc, err := decodeLocation(l.Path, i, raw)
			if err != nil {
				yield(geo.Location{}, err)
				return
			}
			if !yield(loc, nil) {
				return
			}
		}
	}
}

// decodeLocation decodes one geometry record, reporting type mismatches against its index.
func decodeLocation(path string, index int, raw json.RawMessage) (geo.Location, error) {
	var g Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		field := "geometry"
		reason := "is malformed"
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if typeErr.Field != "" {
				field = typeErr.Field
			}
			reason = "has wrong type " + typeErr.Value
		}
		return geo.Location{}, &SchemaError{Path: path, Field: field, Reason: reason, Index: index}
	}

	return g.Location(path, index)
}

// Location extracts the identifier and interior point of the geometry at index.
func (g Geometry) Location(path string, index int) (geo.Location, error) {
	if g.Properties == nil {
		return geo.Location{}, &SchemaError{Path: path, Field: "properties", Reason: "is missing", Index: index}
	}

	var (
		loc    geo.Location
		fields = []struct {
			key string
			dst *string
		}{
			{PropertyID, &loc.ID},
			{PropertyLatitude, &loc.Latitude},
			{PropertyLongitude, &loc.Longitude},
		}
	)

	for _, f := range fields {
		raw, ok := g.Properties[f.key]
		if !ok {
			return geo.Location{}, &SchemaError{Path: path, Field: "properties." + f.key, Reason: "is missing", Index: index}
		}

		v, reason := scalar(raw)
		if reason != "" {
			return geo.Location{}, &SchemaError{Path: path, Field: "properties." + f.key, Reason: reason, Index: index}
		}
		*f.dst = v
	}

	if loc.ID == "" {
		return geo.Location{}, &SchemaError{Path: path, Field: "properties." + PropertyID, Reason: "is empty", Index: index}
	}

	return loc, nil
}

// scalar returns a string value unquoted and a number as its literal text.
// A non-empty reason is returned for any other JSON type.
func scalar(raw json.RawMessage) (string, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", "is empty"
	}

	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", "is malformed: " + err.Error()
		}
		if strings.ContainsAny(s, "\r\n") {
			return "", "contains a line break"
		}
		return s, ""
	case c == '-' || (c >= '0' && c <= '9'):
		return string(raw), ""
	case c == 'n':
		return "", "is null"
	default:
		return "", "must be a string or number"
	}
}
