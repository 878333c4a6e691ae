package graf

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/Grant-Giesbrecht/graf/pkg/buildinfo"
	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// FormatVersion is the document format version written to info.version.
const FormatVersion = "0.0.0"

// MetaInfo describes where a document came from.
type MetaInfo struct {
	Version        string
	SourceLanguage string
	SourceLibrary  string
	SourceVersion  string
	Description    string
	Conditions     map[string]string
}

// NewMetaInfo returns provenance for a document produced by this library.
func NewMetaInfo(description string, conditions map[string]string) *MetaInfo {
	c := make(map[string]string, len(conditions))
	for k, v := range conditions {
		c[k] = v
	}
	return &MetaInfo{
		Version:        FormatVersion,
		SourceLanguage: "Go",
		SourceLibrary:  "GrAF",
		SourceVersion:  buildinfo.Version,
		Description:    description,
		Conditions:     c,
	}
}

func newMetaInfo() *MetaInfo { return NewMetaInfo("", nil) }

var metaSchema = pack.NewSchema("MetaInfo",
	pack.String("version", func(m *MetaInfo) *string { return &m.Version }),
	pack.String("source_language", func(m *MetaInfo) *string { return &m.SourceLanguage }),
	pack.String("source_library", func(m *MetaInfo) *string { return &m.SourceLibrary }),
	pack.String("source_version", func(m *MetaInfo) *string { return &m.SourceVersion }),
	pack.String("description", func(m *MetaInfo) *string { return &m.Description }),
	pack.StringMap("conditions", func(m *MetaInfo) *map[string]string { return &m.Conditions }),
)

func (m *MetaInfo) Pack() document.Document          { return metaSchema.Pack(m) }
func (m *MetaInfo) Unpack(d document.Document) error { return metaSchema.Unpack(m, d) }

// CheckVersion reports whether a packed root document can be read by this
// library: its info.version must share the major version of FormatVersion.
func CheckVersion(d document.Document) error {
	info, err := document.AsDocument(d["info"])
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "info")
	}
	raw, err := info.Lookup("version")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "info")
	}
	v, err := document.AsString(raw)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "info.version")
	}
	return compatible(v)
}

func compatible(v string) error {
	sv := v
	if !strings.HasPrefix(sv, "v") {
		sv = "v" + sv
	}
	if !semver.IsValid(sv) {
		return errors.New(errors.ErrCodeUnsupportedVersion, "malformed format version %q", v)
	}
	if semver.Major(sv) != semver.Major("v"+FormatVersion) {
		return errors.New(errors.ErrCodeUnsupportedVersion, "format version %s is not compatible with %s", v, FormatVersion)
	}
	return nil
}
