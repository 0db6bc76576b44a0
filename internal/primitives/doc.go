// Package primitives provides the configuration data structures shared by the
// markovx computations.
//
// Every config type is a plain struct with json and yaml tags and a Validate
// method. The numeric packages (dice, board, hmm and the root chain package)
// only ever consume validated configs, so validation is the single place where
// malformed input is rejected.
//
// Core invariants:
//   - Transition rows are probability distributions (non-negative, sum to 1)
//   - Board jumps stay on the board and never chain
//   - Confusion groups partition a subset of the alphabet
//
// Embedded defaults hold the standard 100-square chutes and ladders board,
// the two six-state chains a and c with their restart rule, and the OCR
// confusion groups of the lowercase alphabet.
package primitives
