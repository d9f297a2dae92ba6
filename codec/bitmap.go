package codec

import (
	"errors"
	"math/bits"
)

const (
	// BitmapSize is the fixed width of every visibility bitmap, in bytes.
	BitmapSize = 7500

	// wordCount is the number of 16-bit words a dense payload packs the
	// original bitmap into. BitmapSize is even, so this divides exactly.
	wordCount = BitmapSize / 2

	// SparseThreshold is the popcount of the reference-diff at or above
	// which a delta is stored dense instead of sparse. Matches the
	// original controller's integer division (7500/16 truncates to 468,
	// not the rounded 469 sometimes quoted informally).
	SparseThreshold = BitmapSize / 16
)

// ErrPlaceholder is returned by Decode when asked to reconstruct a
// placeholder payload, which has no content yet.
var ErrPlaceholder = errors.New("codec: payload is an unmaterialized placeholder")

// Bitmap is a single fixed-width visibility image.
type Bitmap [BitmapSize]byte

// Encoding tags which of the three payload shapes a Payload holds.
type Encoding uint8

const (
	// Placeholder marks a reserved delta with no content yet.
	Placeholder Encoding = iota
	// Sparse marks an ascending-position-list diff against the reference.
	Sparse
	// Dense marks a full original image packed as 16-bit words.
	Dense
)

func (e Encoding) String() string {
	switch e {
	case Placeholder:
		return "placeholder"
	case Sparse:
		return "sparse"
	case Dense:
		return "dense"
	default:
		return "unknown"
	}
}

// Payload is the immutable content of one delta. Exactly one of positions
// or words is meaningful, selected by encoding; constructing one through
// PlaceholderPayload, SparsePayload or DensePayload keeps that pairing
// consistent so a reader can never observe a tag without its data.
type Payload struct {
	encoding  Encoding
	positions []uint16
	words     []uint16
}

// PlaceholderPayload returns the empty payload for a reserved, not yet
// materialized delta.
func PlaceholderPayload() Payload {
	return Payload{encoding: Placeholder}
}

// SparsePayload wraps an ascending, duplicate-free list of bit positions.
// The caller owns positions up to this call; Payload takes ownership of
// the slice.
func SparsePayload(positions []uint16) Payload {
	return Payload{encoding: Sparse, positions: positions}
}

// DensePayload wraps a full original image already packed into wordCount
// little-endian 16-bit words. It panics if words has the wrong length,
// which would indicate a codec bug rather than bad input data.
func DensePayload(words []uint16) Payload {
	if len(words) != wordCount {
		panic("codec: dense payload must have exactly wordCount words")
	}
	return Payload{encoding: Dense, words: words}
}

// Encoding reports which payload shape this is.
func (p Payload) Encoding() Encoding { return p.encoding }

// Positions returns the sparse position list. It is nil unless Encoding
// is Sparse.
func (p Payload) Positions() []uint16 { return p.positions }

// Words returns the dense word array. It is nil unless Encoding is Dense.
func (p Payload) Words() []uint16 { return p.words }

// XOR returns the byte-wise exclusive-or of a and b.
func XOR(a, b *Bitmap) Bitmap {
	var out Bitmap
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// Encode computes the payload for original relative to reference: sparse
// if the popcount of their XOR is below SparseThreshold, dense otherwise.
func Encode(original, reference *Bitmap) Payload {
	diff := XOR(original, reference)

	total := 0
	for _, b := range diff {
		total += bits.OnesCount8(b)
	}

	if total >= SparseThreshold {
		words := make([]uint16, wordCount)
		for i := 0; i < wordCount; i++ {
			words[i] = uint16(original[2*i]) | uint16(original[2*i+1])<<8
		}
		return DensePayload(words)
	}

	positions := make([]uint16, 0, total)
	for i, b := range diff {
		if b == 0 {
			continue
		}
		for j := 0; j < 8; j++ {
			if b&(1<<(7-uint(j))) != 0 {
				positions = append(positions, uint16(i*8+j))
			}
		}
	}
	return SparsePayload(positions)
}

// Decode reconstructs the original image a payload was encoded from,
// against the given reference. It returns ErrPlaceholder for an
// unmaterialized payload.
func Decode(reference *Bitmap, p Payload) (Bitmap, error) {
	if p.encoding == Placeholder {
		return Bitmap{}, ErrPlaceholder
	}

	result := *reference
	switch p.encoding {
	case Dense:
		// A dense payload packs the complete original image, not a diff:
		// every byte of result is overwritten below, independent of
		// reference.
		for i, w := range p.words {
			result[2*i] = byte(w & 0xFF)
			result[2*i+1] = byte(w >> 8)
		}
	case Sparse:
		for _, pos := range p.positions {
			byteIdx := pos / 8
			bitIdx := pos % 8
			result[byteIdx] ^= 1 << (7 - bitIdx)
		}
	}
	return result, nil
}
