// Package pkg provides the libraries behind GrAF, a portable figure format.
//
// # Overview
//
// A GrAF document is a nested tree of strings, numbers, booleans, lists and
// mappings that fully describes a figure: its axes grid, scales, line traces,
// image and mesh surfaces, fonts and provenance. Documents are written as
// JSON (.graf, .json) or YAML (.yaml, .yml) and can be read back into an
// equivalent figure without the plotting toolkit that produced them.
//
// # Architecture
//
// The typical data flow:
//
//	plotting toolkit (FigureSource)
//	         ↓
//	    [graf] package (Build, entity tree)
//	         ↓
//	    [pack] package (manifest-driven Pack / Unpack)
//	         ↓
//	    [document] package (primitive tree)
//	         ↓
//	    [io] package (JSON / YAML files)  or  [store] package (backends)
//
// # Quick Start
//
//	g := graf.New()
//	ax := graf.NewAxis()
//	tr := graf.NewTrace()
//	tr.X, tr.Y = []float64{0, 1, 2}, []float64{1, 4, 9}
//	ax.AddTrace(tr)
//	g.AddAxis(ax)
//
//	if err := io.SaveGraf("sweep.graf", g); err != nil {
//	    return err
//	}
//	back, err := io.LoadGraf("sweep.graf")
//
// # Main Packages
//
// [graf] - The figure entities (Graf, Axis, Scale, Trace, Surface, Font,
// GraphStyle, MetaInfo), layout reconstruction, twin-axis pairing and enum
// normalization.
//
// [pack] - The manifest engine. Each entity type declares its fields once and
// the engine derives packing, unpacking and schema description from that.
//
// [document] - The primitive tree type and its typed accessors.
//
// [io] - Format detection and JSON/YAML encoding, plus file helpers with
// version checking.
//
// [store] - Named document storage with memory and file backends, and
// SQLite, Redis and MongoDB backends in subpackages.
//
// [inspect] - Path summaries, JSONPath queries and Graphviz diagrams of
// documents and the entity manifest.
//
// [fonts] - The portable font table mapping family names to font files.
//
// ## Infrastructure
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hook registry for codec, store and HTTP events.
//
// [buildinfo] - Version information injected at build time.
package pkg
