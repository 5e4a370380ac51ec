package alloc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshuapare/wordalloc/internal/buf"
	"github.com/joshuapare/wordalloc/internal/writer"
	"github.com/joshuapare/wordalloc/pkg/types"
)

// mapSeparator joins ranges in the text map.
const mapSeparator = " - "

// ErrBadFreeList indicates a binary free list that cannot be decoded.
var ErrBadFreeList = errors.New("alloc: malformed free list")

// FreeList is the free-range descriptor list handed to strategies.
type FreeList struct {
	Holes []types.Hole
}

// Count returns the number of holes.
func (fl FreeList) Count() int { return len(fl.Holes) }

// Empty reports whether there are no holes.
func (fl FreeList) Empty() bool { return len(fl.Holes) == 0 }

// MarshalBinary encodes the list as little-endian uint16 values:
// count, then start and length of every hole.
func (fl FreeList) MarshalBinary() ([]byte, error) {
	if len(fl.Holes) > types.MaxWords {
		return nil, fmt.Errorf("%w: %d holes", ErrBadFreeList, len(fl.Holes))
	}
	out := make([]byte, 0, 2+4*len(fl.Holes))
	out = buf.AppendU16LE(out, uint16(len(fl.Holes)))
	for _, h := range fl.Holes {
		if h.Start < 0 || h.Start > types.MaxWords || h.Len < 0 || h.Len > types.MaxWords {
			return nil, fmt.Errorf("%w: hole %v does not fit 16 bits", ErrBadFreeList, h)
		}
		out = buf.AppendU16LE(out, uint16(h.Start), uint16(h.Len))
	}
	return out, nil
}

// UnmarshalBinary decodes the MarshalBinary form.
func (fl *FreeList) UnmarshalBinary(data []byte) error {
	if len(data) < 2 || len(data)%2 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrBadFreeList, len(data))
	}
	vals := buf.U16sLE(data)
	count := int(vals[0])
	if len(vals) != 1+2*count {
		return fmt.Errorf("%w: count %d but %d values", ErrBadFreeList, count, len(vals)-1)
	}
	holes := make([]types.Hole, 0, count)
	for i := range count {
		holes = append(holes, types.Hole{Start: int(vals[1+2*i]), Len: int(vals[2+2*i])})
	}
	fl.Holes = holes
	return nil
}

// FreeList returns the current free ranges in address order.
func (m *Manager) FreeList() FreeList {
	if !m.Ready() {
		return FreeList{}
	}
	return FreeList{Holes: m.ledger.Free()}
}

// Bitmap returns the allocation bitmap: a 2-byte little-endian byte count
// followed by ceil(words/8) bytes, bit w%8 of byte w/8 set iff word w is
// allocated. Padding bits in the last byte are zero.
func (m *Manager) Bitmap() []byte {
	n := buf.CeilDiv(m.words, 8)
	out := make([]byte, types.BitmapHeaderSize+n)
	buf.PutU16LE(out, 0, uint16(n))
	if !m.Ready() {
		return out
	}

	body := out[types.BitmapHeaderSize:]
	for _, r := range m.ledger.Ranges() {
		if r.Free {
			continue
		}
		for w := r.Start; w < r.End(); w++ {
			body[w/8] |= 1 << (w % 8)
		}
	}
	return out
}

// MapText renders the free ranges as "[start, length]" joined by " - ".
// Allocated ranges are omitted.
func (m *Manager) MapText() string {
	if !m.Ready() {
		return ""
	}
	holes := m.ledger.FreeText()
	parts := make([]string, len(holes))
	for i, h := range holes {
		parts[i] = h.String()
	}
	return strings.Join(parts, mapSeparator)
}

// DumpMap writes MapText to path without a trailing newline, creating or
// truncating the file. Either the whole map is written or an error is
// returned and path is left as it was.
//
// The map is written to a temp file and renamed over path, so an existing
// file is replaced rather than truncated: it ends up with mode 0644 and a new
// inode, whatever its previous mode.
func (m *Manager) DumpMap(path string) error {
	return m.ExportMap(&writer.FileWriter{Path: path})
}

// ExportMap hands the rendered text map to sink in a single Put.
func (m *Manager) ExportMap(sink writer.Sink) error {
	if err := sink.Put([]byte(m.MapText())); err != nil {
		return fmt.Errorf("dump map: %w", err)
	}
	return nil
}
