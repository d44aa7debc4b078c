// Package nexus implements the core machinery for reading NEXUS-format
// files: a pull tokenizer with per-call options, a set-definition reader,
// and a Document dispatcher that routes blocks to registered Block
// readers.
//
// The packages taxa, characters and assumptions build on this package to
// read the corresponding NEXUS block types.
package nexus
