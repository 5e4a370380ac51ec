// Package alloc provides a simulated word-addressed memory allocator.
//
// # Overview
//
// A Manager owns one contiguous byte arena split into fixed-size words. A
// ledger (see mem/ledger) records which word ranges are free and which are
// allocated, and a placement strategy (see mem/strategy) decides which free
// range satisfies each request.
//
// # Lifecycle
//
//	uninitialized --Init--> ready --Init--> ready --Shutdown--> uninitialized
//
// Init allocates and zero-fills the arena and installs one free range covering
// it. Calling Init while ready shuts down first. Shutdown is idempotent.
//
// # Usage Example
//
//	m, err := alloc.New(alloc.WithWordSize(4), alloc.WithStrategy(strategy.WorstFit))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	if err := m.Init(16); err != nil { // 64-byte arena
//	    return err
//	}
//
//	addr, buf, err := m.Alloc(10) // rounds up to 3 words
//	switch {
//	case alloc.IsNone(err):
//	    // nothing fits; recoverable
//	case err != nil:
//	    return err // strategy fault
//	}
//	copy(buf, "hello")
//
//	m.Free(addr)
//
// # Outcomes
//
// Alloc reports the expected "no address" outcomes with sentinel errors:
// ErrNotReady, ErrZeroSize and ErrNoFit. IsNone reports whether an error is
// one of them. A strategy that answers with a start word not backed by a free
// range of sufficient size produces a *FaultError matching ErrStrategyFault;
// it is a broken contract, never an ordinary miss.
//
// Free silently ignores addresses outside the arena, addresses that are not
// the exact start of an allocated block, and blocks that are already free.
// It reports whether a block was released.
//
// # Exports
//
//   - FreeList: count plus (start, length) pairs in word units
//   - Bitmap: 2-byte little-endian byte count + one bit per word (1 = allocated)
//   - MapText: free ranges as "[start, length]" joined by " - "
//   - DumpMap: MapText written to a file, atomically
//
// # Thread Safety
//
// Manager instances are not thread-safe. Callers must synchronize access
// externally.
package alloc
