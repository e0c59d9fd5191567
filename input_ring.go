package stft

import "fmt"

// OverlapRing is a multichannel circular buffer that turns a stream of
// arbitrarily sized blocks into fixed-size, hop-advancing, overlapping
// windows. It never reallocates after construction.
//
// The ring assumes single-writer/single-reader use; a [Filter] is the sole
// writer and reader of its rings.
type OverlapRing struct {
	data     [][]float64
	capacity int
	writePos int
	readPos  int
	avail    int
}

// NewOverlapRing returns a zeroed ring holding capacity samples per channel.
func NewOverlapRing(channelCount, capacity int) (*OverlapRing, error) {
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
	return &OverlapRing{data: data, capacity: capacity}, nil
}

// ChannelCount returns the number of channels.
func (r *OverlapRing) ChannelCount() int { return len(r.data) }

// Capacity returns the per-channel capacity in samples.
func (r *OverlapRing) Capacity() int { return r.capacity }

// Available returns the number of unconsumed samples since the last window
// extraction point.
func (r *OverlapRing) Available() int { return r.avail }

// Write appends the first n samples of each channel of src. The caller must
// keep Available()+n within Capacity(); the ring does not grow.
func (r *OverlapRing) Write(src [][]float64, n int) error {
	if len(src) != len(r.data) {
		return ErrChannelMismatch
	}

	for ch := range r.data {
		writeWrapped(r.data[ch], r.writePos, src[ch][:n])
	}
	r.writePos = wrap(r.writePos+n, r.capacity)
	r.avail += n
	return nil
}

// ReadWindow copies the next size samples of each channel into dst as a
// contiguous run, then advances the consumption marker by hop so the trailing
// size-hop samples open the next window. Available() must be at least size.
// With hop == size the windows are disjoint and no history is retained.
func (r *OverlapRing) ReadWindow(dst [][]float64, size, hop int) {
	for ch := range r.data {
		readWrapped(dst[ch][:size], r.data[ch], r.readPos)
	}
	r.readPos = wrap(r.readPos+hop, r.capacity)
	r.avail -= hop
}

// Reset zeroes the ring and rewinds both cursors.
func (r *OverlapRing) Reset() {
	for ch := range r.data {
		for i := range r.data[ch] {
			r.data[ch][i] = 0
		}
	}
	r.writePos = 0
	r.readPos = 0
	r.avail = 0
}

func wrap(pos, capacity int) int {
	if pos >= capacity {
		return pos - capacity
	}
	return pos
}

// writeWrapped copies src into dst starting at pos, wrapping at the end.
func writeWrapped(dst []float64, pos int, src []float64) {
	n := copy(dst[pos:], src)
	copy(dst, src[n:])
}

// readWrapped fills dst from src starting at pos, wrapping at the end.
func readWrapped(dst, src []float64, pos int) {
	n := copy(dst, src[pos:])
	copy(dst[n:], src)
}
