package io

import (
	"os"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/graf"
)

// ImportFile reads the document at path, choosing the format from its
// extension.
func ImportFile(path string) (document.Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	d, err := Decode(data, f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return d, nil
}

// ExportFile writes d to path, choosing the format from its extension.
func ExportFile(path string, d document.Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(d, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	return nil
}

// SaveGraf packs g and writes it to path.
func SaveGraf(path string, g *graf.Graf) error {
	return ExportFile(path, g.Pack())
}

// LoadGraf reads a figure from path. A document from an incompatible format
// version is rejected before unpacking. If only some fields fail to unpack,
// the partially populated figure is returned together with the error.
func LoadGraf(path string) (*graf.Graf, error) {
	d, err := ImportFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeGraf(d)
}

// DecodeGraf checks the format version of d and unpacks it into a new Graf.
func DecodeGraf(d document.Document) (*graf.Graf, error) {
	if err := graf.CheckVersion(d); err != nil {
		return nil, err
	}
	return graf.Decode(d)
}
