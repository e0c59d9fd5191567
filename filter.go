package stft

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/cwbudde/algo-stft/audio"
)

// Default analysis parameters used by [Filter.InitDefault].
const (
	DefaultFFTSize = 2048
	DefaultOverlap = 1024
)

const defaultBlockSize = 512

// SpectralProcessor is the per-frame spectral hook supplied by a filter
// author. ProcessSpectrum receives one mutable complex spectrum per channel
// and the number of meaningful bins (fftSize/2 + 1); it may modify the
// spectra in place. It is called once per analysis frame, from inside
// [Filter.ProcessBlock], and must follow the same real-time contract:
// no allocation, no locks, no blocking I/O.
type SpectralProcessor interface {
	ProcessSpectrum(spectra [][]complex128, bins int)
}

// Preparer is optionally implemented by a [SpectralProcessor] to receive a
// setup callback after each successful Init, once all parameters and buffers
// are finalized.
type Preparer interface {
	PrepareToPlay()
}

// Filter drives the analysis-resynthesis pipeline for one audio stream:
// input ring -> forward transform -> SpectralProcessor -> inverse transform
// -> overlap-add ring. Each instance owns its buffers exclusively.
//
// A Filter is not safe for concurrent use; ProcessBlock calls must be
// serialized by the caller and must not race with re-initialization.
type Filter struct {
	proc SpectralProcessor

	channelCount int
	fftSize      int
	overlap      int
	hopSize      int
	blockSize    int
	windowType   window.Type

	input  *OverlapRing
	output *OverlapAddRing
	engine *transformEngine

	spectra   [][]complex128
	hookViews [][]complex128
	frame     [][]float64

	// writeOffset is the distance from the output read cursor to the next
	// frame's overlap-add base. It starts at FrameLatency after Init.
	writeOffset int

	initialized bool
}

// New returns an uninitialized Filter around proc. Call Init (or
// InitDefault) before ProcessBlock.
func New(proc SpectralProcessor) *Filter {
	return &Filter{
		proc:       proc,
		blockSize:  defaultBlockSize,
		windowType: window.TypeHann,
	}
}

// Init validates the configuration and (re)allocates all owned buffers and
// transform state. fftSize must be a power of two >= 2 and overlap must be
// in [0, fftSize). On failure the previous state is left untouched; on
// success all buffered history is cleared and the processor's PrepareToPlay
// hook runs if implemented.
func (f *Filter) Init(channelCount, fftSize, overlap int) error {
	if f.proc == nil {
		return fmt.Errorf("%w: spectral processor must not be nil", ErrInvalidConfiguration)
	}
	if err := validateInit(channelCount, fftSize, overlap); err != nil {
		return err
	}
	return f.rebuild(channelCount, fftSize, overlap)
}

// InitDefault initializes the filter with the default fftSize/overlap pair
// (2048 samples, 50% overlap).
func (f *Filter) InitDefault(channelCount int) error {
	return f.Init(channelCount, DefaultFFTSize, DefaultOverlap)
}

// SetBlockSize defines the number of frames of every buffer passed to
// ProcessBlock. It may be called before or after Init; after Init it
// rebuilds the rings, which clears buffered history and changes
// FrameLatency.
func (f *Filter) SetBlockSize(value int) error {
	if err := validateBlockSize(value); err != nil {
		return err
	}
	previous := f.blockSize
	f.blockSize = value
	if !f.initialized {
		return nil
	}
	if err := f.rebuild(f.channelCount, f.fftSize, f.overlap); err != nil {
		f.blockSize = previous
		return err
	}
	return nil
}

// SetWindowType selects the analysis window shape; the synthesis window is
// derived from it so overlap-add reconstructs unity gain. The default is
// the periodic Hann window. With overlap 0 the rectangular window is used
// regardless. After Init this rebuilds the transform state.
func (f *Filter) SetWindowType(t window.Type) error {
	previous := f.windowType
	f.windowType = t
	if !f.initialized {
		return nil
	}
	if err := f.rebuild(f.channelCount, f.fftSize, f.overlap); err != nil {
		f.windowType = previous
		return err
	}
	return nil
}

// ProcessBlock runs the pipeline on one block of audio, overwriting buf in
// place with the filtered, latency-delayed output. buf must match the
// configured channel count and block size; violations are reported with
// bare sentinel errors and leave all state unchanged. The call never
// allocates, locks, or blocks.
func (f *Filter) ProcessBlock(buf *audio.Buffer) error {
	if !f.initialized {
		return ErrNotInitialized
	}
	if buf == nil || buf.ChannelCount() != f.channelCount {
		return ErrChannelMismatch
	}
	if buf.FrameCount() != f.blockSize {
		return ErrFrameSizeMismatch
	}

	if err := f.input.Write(buf.Data(), f.blockSize); err != nil {
		return err
	}

	for f.input.Available() >= f.fftSize {
		f.input.ReadWindow(f.frame, f.fftSize, f.hopSize)

		for ch := range f.spectra {
			if err := f.engine.forward(f.spectra[ch], f.frame[ch]); err != nil {
				return err
			}
		}

		f.proc.ProcessSpectrum(f.hookViews, f.engine.bins)

		for ch := range f.spectra {
			if err := f.engine.inverse(f.frame[ch], f.spectra[ch]); err != nil {
				return err
			}
		}

		if err := f.output.Add(f.frame, f.fftSize, f.writeOffset); err != nil {
			return err
		}
		f.writeOffset += f.hopSize
	}

	if err := f.output.Pop(buf.Data(), f.blockSize); err != nil {
		return err
	}
	f.writeOffset -= f.blockSize
	return nil
}

// FrameLatency returns the pipeline delay in samples: the output sample
// matching a given input sample appears this many samples later. It depends
// only on (fftSize, overlap, blockSize).
//
// A full window must be buffered before the first frame can be analyzed,
// and output is drained in blockSize steps that need not align with the hop
// grid, so the delay is fftSize-1 rounded down to a multiple of
// gcd(blockSize, hopSize).
func (f *Filter) FrameLatency() int {
	if !f.initialized {
		return 0
	}
	g := gcd(f.blockSize, f.hopSize)
	return (f.fftSize - 1) / g * g
}

// FFTSize returns the transform window length in samples.
func (f *Filter) FFTSize() int { return f.fftSize }

// Overlap returns the number of samples retained between windows.
func (f *Filter) Overlap() int { return f.overlap }

// HopSize returns the analysis advance per frame (fftSize - overlap).
func (f *Filter) HopSize() int { return f.hopSize }

// WindowSize returns the analysis window length; it equals FFTSize.
func (f *Filter) WindowSize() int { return f.fftSize }

// BlockSize returns the number of frames expected per ProcessBlock call.
func (f *Filter) BlockSize() int { return f.blockSize }

// ChannelCount returns the configured number of channels.
func (f *Filter) ChannelCount() int { return f.channelCount }

// WindowType returns the configured analysis window shape.
func (f *Filter) WindowType() window.Type { return f.windowType }

// Initialized reports whether a successful Init has run.
func (f *Filter) Initialized() bool { return f.initialized }

// rebuild constructs the engine, rings, and scratch for the given
// configuration and commits them atomically: nothing is assigned until
// every allocation has succeeded.
func (f *Filter) rebuild(channelCount, fftSize, overlap int) error {
	hopSize := fftSize - overlap

	engine, err := newTransformEngine(fftSize, hopSize, f.windowType)
	if err != nil {
		return err
	}

	capacity := fftSize + f.blockSize
	input, err := NewOverlapRing(channelCount, capacity)
	if err != nil {
		return err
	}
	output, err := NewOverlapAddRing(channelCount, capacity)
	if err != nil {
		return err
	}

	spectra := make([][]complex128, channelCount)
	hookViews := make([][]complex128, channelCount)
	frame := make([][]float64, channelCount)
	for ch := range spectra {
		spectra[ch] = make([]complex128, fftSize)
		hookViews[ch] = spectra[ch][:engine.bins]
		frame[ch] = make([]float64, fftSize)
	}

	f.channelCount = channelCount
	f.fftSize = fftSize
	f.overlap = overlap
	f.hopSize = hopSize
	f.input = input
	f.output = output
	f.engine = engine
	f.spectra = spectra
	f.hookViews = hookViews
	f.frame = frame
	f.initialized = true
	f.writeOffset = f.FrameLatency()

	if p, ok := f.proc.(Preparer); ok {
		p.PrepareToPlay()
	}
	return nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
