// Package types defines the small value types shared by the ledger, the
// placement strategies, and the allocator facade.
//
// All lengths and offsets are in words. Conversion to and from bytes only
// happens at the allocator boundary (see mem/alloc).
//
// This package has no dependencies beyond the standard library.
package types
