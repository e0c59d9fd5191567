// Package audio provides the multichannel sample container passed through
// the stft engine, plus interleaved bridging for hosts whose I/O is
// interleaved (files, sound APIs).
package audio

import "fmt"

// Buffer is a fixed-shape container of channelCount x frameCount samples.
// The shape is set at construction; contents are mutated in place by
// processing code.
type Buffer struct {
	data   [][]float64
	frames int
}

// New returns a zero-filled Buffer with the given shape.
func New(channelCount, frameCount int) (*Buffer, error) {
	if channelCount <= 0 {
		return nil, fmt.Errorf("audio: channel count must be > 0: %d", channelCount)
	}
	if frameCount <= 0 {
		return nil, fmt.Errorf("audio: frame count must be > 0: %d", frameCount)
	}

	data := make([][]float64, channelCount)
	for ch := range data {
		data[ch] = make([]float64, frameCount)
	}
	return &Buffer{data: data, frames: frameCount}, nil
}

// ChannelCount returns the number of channels.
func (b *Buffer) ChannelCount() int { return len(b.data) }

// FrameCount returns the number of samples per channel.
func (b *Buffer) FrameCount() int { return b.frames }

// Channel returns the samples of one channel. Mutations are visible to the
// Buffer.
func (b *Buffer) Channel(ch int) []float64 { return b.data[ch] }

// Data returns the per-channel sample slices without copying.
func (b *Buffer) Data() [][]float64 { return b.data }

// Zero sets every sample to 0.
func (b *Buffer) Zero() {
	for ch := range b.data {
		for i := range b.data[ch] {
			b.data[ch][i] = 0
		}
	}
}

// FromInterleaved deinterleaves src (frame-major: c0f0, c1f0, c0f1, ...)
// into the buffer. len(src) must be ChannelCount*FrameCount.
func (b *Buffer) FromInterleaved(src []float64) error {
	if len(src) != len(b.data)*b.frames {
		return fmt.Errorf("audio: interleaved length must be %d: %d", len(b.data)*b.frames, len(src))
	}

	channels := len(b.data)
	for ch := range b.data {
		dst := b.data[ch]
		for i := range dst {
			dst[i] = src[i*channels+ch]
		}
	}
	return nil
}

// WriteInterleaved interleaves the buffer contents into dst (frame-major).
// len(dst) must be ChannelCount*FrameCount.
func (b *Buffer) WriteInterleaved(dst []float64) error {
	if len(dst) != len(b.data)*b.frames {
		return fmt.Errorf("audio: interleaved length must be %d: %d", len(b.data)*b.frames, len(dst))
	}

	channels := len(b.data)
	for ch := range b.data {
		src := b.data[ch]
		for i := range src {
			dst[i*channels+ch] = src[i]
		}
	}
	return nil
}
