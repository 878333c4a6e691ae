// Package io reads and writes GrAF documents.
//
// # Formats
//
// Two encodings are supported:
//
//   - JSON ([FormatJSON]): the default, used for ".graf" and ".json" files
//   - YAML ([FormatYAML]): used for ".yaml" and ".yml" files
//
// Both encode every finite float64 exactly, so a document written and read
// back unpacks to bit-identical series. JSON cannot represent NaN or
// infinities; encoding such a document fails with INVALID_DOCUMENT. YAML
// keeps them.
//
// Decoded documents hold generic values (map[string]any, []any, float64 or
// int); the accessors in [document] accept both those and the typed values
// produced by Pack.
//
// # Files
//
// [ImportFile] and [ExportFile] move raw documents; [LoadGraf] and
// [SaveGraf] move whole figures:
//
//	if err := io.SaveGraf("sweep.graf", g); err != nil {
//	    log.Fatal(err)
//	}
//	g, err := io.LoadGraf("sweep.graf")
//
// LoadGraf refuses documents whose format version has a different major
// version. Field-level unpack failures are returned alongside the partially
// populated figure.
//
// Every encode and decode is reported to [observability.Codec].
package io
