// Package jsonpath compiles and evaluates path expressions over value.Value
// documents.
//
// A path is an optional mode followed by the root marker and a list of steps:
//
//	[strict | lax | lax recursive] $ step*
//
//	step  →  .name  |  ."quoted name"  |  .*
//	      →  ["quoted name"]  |  ['quoted name']  |  [index]  |  [*]
//
// The mode decides how a name step treats arrays it meets:
//   - strict: a name step only applies to objects; arrays never match.
//   - lax: an array is unwrapped one level and the step applies to each element.
//   - lax recursive: nested arrays are flattened at any depth before the step.
//
// Index steps always address arrays directly. Wildcards expand every member of
// an object or every element of an array in all modes.
package jsonpath
