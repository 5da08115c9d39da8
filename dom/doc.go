// Package dom implements a small virtual document: an element and text tree
// with the subset of the browser API that evaluated programs use, plus a CSS
// selector engine.
//
// The tree is strict. A node has at most one parent, appending a node
// detaches it from its previous parent, and appending an ancestor into its
// own subtree fails with [ErrCycle].
//
// Selectors are tokenized with [github.com/gorilla/css/scanner]. Matching
// tests the rightmost compound selector first and then validates combinators
// leftward, backtracking over ancestors and siblings.
//
// HTML fragments are parsed with [golang.org/x/net/html] and can be cleaned
// with [Sanitize] before they reach the tree.
package dom
