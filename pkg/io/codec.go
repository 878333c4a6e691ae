package io

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/observability"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML}

var extFormats = map[string]Format{
	".graf": FormatJSON,
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

// ParseFormat returns the format named s. Matching is case-insensitive and
// accepts "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "graf":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want json or yaml)", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s from extension %q", path, ext)
}

// ContentType returns the media type of f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode serializes d.
func Encode(d document.Document, f Format) ([]byte, error) {
	start := time.Now()
	data, err := encode(d, f)
	observability.Codec().OnEncode(string(f), len(data), time.Since(start), err)
	return data, err
}

func encode(d document.Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "encode json")
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "encode yaml")
		}
		return buf.Bytes(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}

// Decode parses data into a document. The top level must be a mapping.
func Decode(data []byte, f Format) (document.Document, error) {
	start := time.Now()
	d, err := decode(data, f)
	observability.Codec().OnDecode(string(f), len(data), time.Since(start), err)
	return d, err
}

func decode(data []byte, f Format) (document.Document, error) {
	var m map[string]any
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "empty document")
	}
	return document.Document(m), nil
}

// Write encodes d to w.
func Write(w io.Writer, d document.Document, f Format) error {
	data, err := Encode(d, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read decodes one document from r. Read does not close r.
func Read(r io.Reader, f Format) (document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
	}
	return Decode(data, f)
}
