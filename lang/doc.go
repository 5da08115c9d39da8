// Package lang implements a steppable interpreter for a small, dynamically
// typed scripting language in the C family.
//
// # Pipeline
//
// Source text flows through four stages:
//
//	source → Tokenize → []Token → Parse → *Program → Interpreter.Run
//
// [Tokenize] is total and lossless: concatenating the text of every token
// reproduces the input, and characters it cannot classify become
// [KindUnknown] tokens. [Parse] skips whitespace and comments and builds the
// syntax tree by recursive descent, stopping at the first [*ParseError].
//
// # Language
//
// Programs may declare var, let and const bindings, functions, function
// expressions and arrow functions, and use if/else, while, do-while,
// three-clause for, switch, break, continue and return. Values are
// numbers, strings, booleans, null, undefined, arrays, plain objects,
// functions and virtual document nodes. Template literals interpolate
// ${...} segments when evaluated.
//
// Identifiers resolve to a binding, then to a declared function, then to an
// ambient global: document, console.log and friends, and Math.*.
//
// # Scoping
//
// Each block, call and loop iteration gets its own [Env] frame. let and
// const are hoisted uninitialized, so reading them early fails with a
// temporal dead zone error. var is hoisted to the nearest function frame.
// A for loop copies its bindings into a fresh frame for every iteration, so
// closures created in the body capture that iteration's values.
//
// # Instrumentation
//
// An [Interpreter] reports progress to a [Host]. [Host.Checkpoint] is called
// before every statement and blocks evaluation until it returns; returning an
// error, cancelling the context or answering true from
// [Host.CancellationRequested] halts the run with [ErrHalted]. Failures inside
// the program are reported as [*RuntimeError] values carrying the failing
// line and call stack.
package lang
