package bitvis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBits(b *Bitmap, positions ...int) {
	for _, p := range positions {
		b[p/8] |= 1 << (7 - uint(p%8))
	}
}

type staticActiveCSNs struct{ csns []int64 }

func (s staticActiveCSNs) ActiveCSNs() []int64 { return s.csns }

func TestSingleWriterTwoVersionsSparse(t *testing.T) {
	s := New(nil)

	var zero Bitmap
	h0, err := s.InsertPlaceholder(0, &zero)
	require.NoError(t, err)
	assert.True(t, h0.opened)

	var v1 Bitmap
	setBits(&v1, 42)
	h1, err := s.InsertPlaceholder(1, &zero)
	require.NoError(t, err)
	require.NoError(t, s.InsertContent(context.Background(), h1, &v1))

	got0, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, zero, got0)

	got1, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, v1, got1)
}

func TestDenseFallback(t *testing.T) {
	s := New(nil)

	var zero Bitmap
	_, err := s.InsertPlaceholder(0, &zero)
	require.NoError(t, err)

	var dense Bitmap
	for i := 0; i < SparseThreshold+20; i++ {
		setBits(&dense, i*8)
	}
	h, err := s.InsertPlaceholder(1, &zero)
	require.NoError(t, err)
	require.NoError(t, s.InsertContent(context.Background(), h, &dense))

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, dense, got)
}

func TestGroupRolloverAfterTenInserts(t *testing.T) {
	s := New(nil, WithMaxGroupSize(9))

	opens := 0
	for csn := int64(0); csn < 10; csn++ {
		var img Bitmap
		setBits(&img, int(csn))
		h, err := s.InsertPlaceholder(csn, &img)
		require.NoError(t, err)
		if h.opened {
			opens++
			continue
		}
		require.NoError(t, s.InsertContent(context.Background(), h, &img))
	}
	assert.Equal(t, 2, opens, "ten inserts over a 9-wide group must open exactly two groups")

	for csn := int64(0); csn < 10; csn++ {
		got, ok := s.Get(csn)
		require.True(t, ok, "csn %d", csn)
		var want Bitmap
		setBits(&want, int(csn))
		assert.Equal(t, want, got, "csn %d", csn)
	}
}

func TestReadBelowOldestGroupIsNotFound(t *testing.T) {
	s := New(nil, WithMaxGroupSize(2))

	var zero Bitmap
	_, err := s.InsertPlaceholder(50, &zero)
	require.NoError(t, err)

	_, ok := s.Get(0)
	assert.False(t, ok)
}

func TestInsertContentOnOpenerHandleIsRejected(t *testing.T) {
	s := New(nil)

	var zero Bitmap
	h, err := s.InsertPlaceholder(0, &zero)
	require.NoError(t, err)

	err = s.InsertContent(context.Background(), h, &zero)
	assert.ErrorIs(t, err, ErrOpenerHandle)
}

func TestOutOfOrderMaterializationAcrossConcurrentPlaceholders(t *testing.T) {
	s := New(nil, WithMaxGroupSize(9))

	var zero Bitmap
	_, err := s.InsertPlaceholder(0, &zero)
	require.NoError(t, err)

	h2, err := s.InsertPlaceholder(1, &zero)
	require.NoError(t, err)
	h3, err := s.InsertPlaceholder(2, &zero)
	require.NoError(t, err)

	var img2, img3 Bitmap
	setBits(&img2, 10, 20)
	setBits(&img3, 10, 20, 30)

	// csn 2 (h3) materializes before csn 1 (h2).
	require.NoError(t, s.InsertContent(context.Background(), h3, &img3))
	require.NoError(t, s.InsertContent(context.Background(), h2, &img2))

	got2, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, img2, got2)

	got3, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, img3, got3)
}

func TestConcurrentReadsDuringWritesDoNotRace(t *testing.T) {
	s := New(nil, WithMaxGroupSize(9))

	var zero Bitmap
	_, err := s.InsertPlaceholder(0, &zero)
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.Get(0)
			}
		}
	}()

	for csn := int64(1); csn < 100; csn++ {
		var img Bitmap
		setBits(&img, int(csn)%100)
		h, err := s.InsertPlaceholder(csn, &img)
		require.NoError(t, err)
		if h.opened {
			continue
		}
		require.NoError(t, s.InsertContent(context.Background(), h, &img))
	}
	close(stop)
	wg.Wait()
}

func TestSweepReportsReclaimableGroups(t *testing.T) {
	s := New(staticActiveCSNs{csns: []int64{15}}, WithMaxGroupSize(2))

	var zero Bitmap
	for csn := int64(0); csn < 10; csn++ {
		h, err := s.InsertPlaceholder(csn, &zero)
		require.NoError(t, err)
		if h.opened {
			continue
		}
		require.NoError(t, s.InsertContent(context.Background(), h, &zero))
	}

	report, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.True(t, report.HasActiveCSN)
	assert.Equal(t, int64(15), report.OldestActiveCSN)
	assert.Positive(t, report.GroupsReclaimable)
}

func TestSweepWithoutActiveCSNProviderIsDisabled(t *testing.T) {
	s := New(nil)
	_, err := s.Sweep(context.Background())
	assert.ErrorIs(t, err, ErrRetentionDisabled)
}

func TestSweepRespectsSweepRateLimit(t *testing.T) {
	s := New(staticActiveCSNs{csns: []int64{0}}, WithSweepRate(1))

	_, err := s.Sweep(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Sweep(ctx)
	assert.Error(t, err, "second sweep within the same interval must block until the limiter admits it")
}
