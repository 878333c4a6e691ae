// Package document defines the primitive value model of a packed GrAF tree.
//
// A [Document] is a nested mapping whose leaves are only:
//
//   - float64 numbers
//   - bools
//   - UTF-8 strings
//   - fixed-length numeric tuples (colors, RGBA samples), stored as []float64
//   - ordered lists of numbers ([]float64) or strings ([]string)
//   - 2-D numeric grids and tuple lists ([][]float64)
//   - nested Documents, and ordered lists of Documents
//
// Packing always produces these typed leaves. Documents that come back from
// a decoder (JSON, YAML, BSON) use the generic forms instead: map[string]any,
// []any, and sometimes int or int64 for whole numbers. The As* accessors accept
// both forms, so a decoded document can be unpacked without a normalization
// pass. Any other shape is reported as a WRONG_SHAPE error.
//
// # Key Order
//
// Map fields are keyed by generated names such as "Tr0", "Tr1", ..., "Tr10".
// Decoders do not preserve key order, so [SortedKeys] orders keys naturally:
// runs of digits compare by value, giving Tr2 before Tr10.
//
// # Generic View
//
// [Document.Generic] converts a document to the map[string]any / []any tree
// produced by encoding/json. Path-query libraries and deep comparisons against
// decoded data work on this view.
package document
