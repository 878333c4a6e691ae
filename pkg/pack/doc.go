// Package pack implements the generic pack/unpack contract for GrAF entities.
//
// Every entity type declares its manifest once, as a [Schema] built from field
// descriptors:
//
//   - scalar fields ([Float], [Int], [Bool], [String], [Enum], [Floats],
//     [Strings], [Grid], [Vec3], [Pair], [Tuples], [StringMap]) are copied by
//     value in both directions
//   - [Entity] fields hold one owned child, packed by delegation
//   - [List] fields hold an ordered list of children of one declared type
//   - [Map] fields hold children keyed by name in insertion order ([Keyed])
//
// Each descriptor carries an accessor returning a pointer to the live struct
// field, so packing and unpacking need no reflection:
//
//	var scaleSchema = pack.NewSchema("Scale",
//	    pack.Bool("is_valid", func(s *Scale) *bool { return &s.Valid }),
//	    pack.Float("val_min", func(s *Scale) *float64 { return &s.Min }),
//	)
//
// # Unpack Semantics
//
// [Schema.Unpack] visits every field in manifest order. A missing key, a value
// of the wrong shape, or a failing child yields a [FieldError] naming the
// owning entity and field; the live field keeps its prior value and the
// remaining fields are still processed. Unpack returns all field errors joined,
// and a non-nil error means the entity is only partially populated.
//
// List and map fields build every element from the descriptor's factory into a
// temporary collection and assign it only when every element unpacked. Fresh
// factory-made children are never shared between elements.
//
// Field failures are logged through the package logger ([SetLogger]) with the
// entity and field names.
package pack
