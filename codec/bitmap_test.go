package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBits(b *Bitmap, positions ...int) {
	for _, p := range positions {
		b[p/8] |= 1 << (7 - uint(p%8))
	}
}

func TestXOR(t *testing.T) {
	var a, b Bitmap
	setBits(&a, 10, 20)
	setBits(&b, 20, 30)

	out := XOR(&a, &b)
	var want Bitmap
	setBits(&want, 10, 30)
	assert.Equal(t, want, out)
}

func TestEncodeDecodeSparseRoundTrip(t *testing.T) {
	var reference Bitmap
	var original Bitmap
	setBits(&original, 10, 42, 59999)

	payload := Encode(&original, &reference)
	require.Equal(t, Sparse, payload.Encoding())
	assert.Equal(t, []uint16{10, 42, 59999}, payload.Positions())

	got, err := Decode(&reference, payload)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestEncodeDecodeDenseRoundTrip(t *testing.T) {
	var reference Bitmap
	var original Bitmap
	// Flip enough bits to cross SparseThreshold.
	for i := 0; i < SparseThreshold+10; i++ {
		setBits(&original, i*8)
	}

	payload := Encode(&original, &reference)
	require.Equal(t, Dense, payload.Encoding())
	assert.Len(t, payload.Words(), wordCount)

	got, err := Decode(&reference, payload)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestEncodeDecodeDenseRoundTripAgainstNonZeroReference(t *testing.T) {
	var reference Bitmap
	setBits(&reference, 1, 2, 3)

	var original Bitmap
	for i := 0; i < SparseThreshold+10; i++ {
		setBits(&original, i*8)
	}

	payload := Encode(&original, &reference)
	require.Equal(t, Dense, payload.Encoding())

	got, err := Decode(&reference, payload)
	require.NoError(t, err)
	assert.Equal(t, original, got, "a dense payload must reconstruct original regardless of reference's own bits")
}

func TestEncodeAgainstNonZeroReference(t *testing.T) {
	var reference Bitmap
	setBits(&reference, 1, 2, 3)

	var original Bitmap
	setBits(&original, 1, 2, 4) // shares 1,2 with reference, differs at 3 (removed) and 4 (added)

	payload := Encode(&original, &reference)
	require.Equal(t, Sparse, payload.Encoding())
	assert.Equal(t, []uint16{3, 4}, payload.Positions())

	got, err := Decode(&reference, payload)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestEncodeThresholdBoundary(t *testing.T) {
	var reference Bitmap
	var original Bitmap
	for i := 0; i < SparseThreshold; i++ {
		setBits(&original, i*8)
	}

	payload := Encode(&original, &reference)
	assert.Equal(t, Dense, payload.Encoding(), "exactly SparseThreshold differing bits must encode dense")
}

func TestDecodePlaceholderErrors(t *testing.T) {
	var reference Bitmap
	_, err := Decode(&reference, PlaceholderPayload())
	assert.ErrorIs(t, err, ErrPlaceholder)
}

func TestEncodeEmptyDiffIsZeroCountSparse(t *testing.T) {
	var reference Bitmap
	setBits(&reference, 5, 6, 7)
	original := reference

	payload := Encode(&original, &reference)
	require.Equal(t, Sparse, payload.Encoding())
	assert.Empty(t, payload.Positions())
}
