package stft

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// OverlapAddRing is a multichannel circular buffer that reconstructs a
// continuous stream from successive, possibly overlapping, synthesized
// frames. Frames are accumulated by exact summation; consumption happens in
// caller-sized blocks that may run ahead of production during warm-up.
//
// Single-writer/single-reader, like [OverlapRing].
type OverlapAddRing struct {
	data     [][]float64
	capacity int
	readPos  int
	filled   int
}

// NewOverlapAddRing returns a zeroed ring holding capacity samples per channel.
func NewOverlapAddRing(channelCount, capacity int) (*OverlapAddRing, error) {
	if channelCount <= 0 {
		return nil, fmt.Errorf("%w: channel count must be > 0: %d", ErrInvalidConfiguration, channelCount)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be > 0: %d", ErrInvalidConfiguration, capacity)
	}

	data := make([][]float64, channelCount)
	for ch := range data {
		data[ch] = make([]float64, capacity)
	}
	return &OverlapAddRing{data: data, capacity: capacity}, nil
}

// ChannelCount returns the number of channels.
func (r *OverlapAddRing) ChannelCount() int { return len(r.data) }

// Capacity returns the per-channel capacity in samples.
func (r *OverlapAddRing) Capacity() int { return r.capacity }

// Filled returns how many samples ahead of the read cursor have been
// produced so far.
func (r *OverlapAddRing) Filled() int { return r.filled }

// Add accumulates the first n samples of each channel of frame into the
// ring, starting offset samples ahead of the read cursor. offset+n must not
// exceed Capacity().
func (r *OverlapAddRing) Add(frame [][]float64, n, offset int) error {
	if len(frame) != len(r.data) {
		return ErrChannelMismatch
	}

	pos := wrap(r.readPos+offset, r.capacity)
	for ch := range r.data {
		addWrapped(r.data[ch], pos, frame[ch][:n])
	}
	if offset+n > r.filled {
		r.filled = offset + n
	}
	return nil
}

// Pop removes the oldest n samples of each channel into dst, zero-filling
// any position beyond the produced frontier. The read cursor always advances
// by n, regardless of how much was real, so timing alignment is preserved.
// Consumed positions are cleared for future accumulation.
func (r *OverlapAddRing) Pop(dst [][]float64, n int) error {
	if len(dst) != len(r.data) {
		return ErrChannelMismatch
	}

	have := n
	if have > r.filled {
		have = r.filled
	}
	for ch := range r.data {
		readWrapped(dst[ch][:have], r.data[ch], r.readPos)
		zeroWrapped(r.data[ch], r.readPos, have)
		for i := have; i < n; i++ {
			dst[ch][i] = 0
		}
	}
	r.readPos = wrap(r.readPos+n, r.capacity)
	r.filled -= have
	return nil
}

// Reset zeroes the ring and rewinds the read cursor.
func (r *OverlapAddRing) Reset() {
	for ch := range r.data {
		for i := range r.data[ch] {
			r.data[ch][i] = 0
		}
	}
	r.readPos = 0
	r.filled = 0
}

// addWrapped accumulates src into dst starting at pos, wrapping at the end.
func addWrapped(dst []float64, pos int, src []float64) {
	head := len(dst) - pos
	if head > len(src) {
		head = len(src)
	}
	vecmath.AddBlockInPlace(dst[pos:pos+head], src[:head])
	if head < len(src) {
		vecmath.AddBlockInPlace(dst[:len(src)-head], src[head:])
	}
}

// zeroWrapped clears n samples of dst starting at pos, wrapping at the end.
func zeroWrapped(dst []float64, pos, n int) {
	for i := 0; i < n; i++ {
		dst[pos] = 0
		pos = wrap(pos+1, len(dst))
	}
}
