package writer

// MemWriter captures an encoding in memory.
type MemWriter struct {
	Buf   []byte
	Calls int
}

// Put stores a copy of buf, replacing anything captured earlier.
func (w *MemWriter) Put(buf []byte) error {
	w.Buf = append(w.Buf[:0], buf...)
	w.Calls++
	return nil
}
