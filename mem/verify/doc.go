// Package verify checks the structural invariants of a word ledger and the
// encodings produced from it.
//
// These helpers are used by tests after every mutation and by the memctl
// "check" output. They operate on snapshots ([]types.Range, []byte) so they
// never depend on ledger internals.
package verify
