package types

const (
	// MaxWords is the largest arena, in words, that can be managed.
	// The binary free-list encoding stores starts and lengths as uint16,
	// so every word index must fit in 16 bits.
	MaxWords = 1<<16 - 1

	// DefaultWordSize is the word size in bytes used when none is configured.
	DefaultWordSize = 8

	// BitmapHeaderSize is the size of the little-endian byte-count prefix
	// in front of an exported bitmap.
	BitmapHeaderSize = 2
)
