// Package stft provides a real-time frequency-domain audio filtering engine.
//
// The package owns the short-time Fourier transform plumbing that sits between
// a block-based audio stream and a frequency-domain filter: framing the stream
// into overlapping analysis windows, running the forward and inverse
// transforms, and reconstructing a continuous output stream by overlap-add.
// A filter author only supplies the per-frame spectral processing.
//
// # Usage
//
// Implement [SpectralProcessor] and hand it to a [Filter]:
//
//	type binGain struct{ gain complex128 }
//
//	func (p *binGain) ProcessSpectrum(spectra [][]complex128, bins int) {
//		for _, spec := range spectra {
//			for i := 0; i < bins; i++ {
//				spec[i] *= p.gain
//			}
//		}
//	}
//
//	f := stft.New(&binGain{gain: 0.5})
//	if err := f.SetBlockSize(512); err != nil { ... }
//	if err := f.Init(2, 2048, 1024); err != nil { ... }
//
//	// audio callback, once per block:
//	err := f.ProcessBlock(buf) // buf is mutated in place
//
// The processing path performs no allocation, holds no locks, and does no
// I/O: every buffer, window table, and scratch spectrum is sized during Init.
// Calls to ProcessBlock on one Filter must be serialized by the caller.
//
// With an identity processor the engine reconstructs its input exactly,
// delayed by [Filter.FrameLatency] samples.
package stft
