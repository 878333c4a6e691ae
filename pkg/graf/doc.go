// Package graf models a portable figure: a [Graf] root holding a
// [GraphStyle], a [MetaInfo] and a keyed map of [Axis] regions, each of
// which owns its [Scale], [Trace] and [Surface] entities.
//
// Every entity implements [Packable]. Pack produces a [document.Document]
// made only of primitives; Unpack reads one back, leaving any field that
// fails at its prior value and reporting it as a [pack.FieldError].
//
// # Building and Applying
//
// A live plotting toolkit sits behind two small boundaries. [Build] reads a
// [FigureSource], pairs twinned axes with [PairAxes] and produces a Graf.
// [Apply] walks [Graf.Layout] and hands each axis to a [Renderer].
//
// # Keys
//
// Axes, traces and surfaces are keyed "Ax<N>", "Tr<N>" and "Sf<N>" in
// insertion order. Lookups by index such as [Graf.GetTrace] use these keys.
package graf
