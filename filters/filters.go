// Package filters provides ready-made spectral processors for the stft
// engine. Every type implements [stft.SpectralProcessor] with an
// allocation-free hook, so they are safe on the real-time path.
package filters

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-dsp/dsp/core"

	"github.com/cwbudde/algo-stft"
)

// Interface conformance.
var (
	_ stft.SpectralProcessor = Passthrough{}
	_ stft.SpectralProcessor = (*Gain)(nil)
	_ stft.SpectralProcessor = (*LowPass)(nil)
	_ stft.SpectralProcessor = (*Gate)(nil)
)

// Passthrough leaves every spectrum untouched. Useful for latency
// measurement and round-trip verification.
type Passthrough struct{}

// ProcessSpectrum does nothing.
func (Passthrough) ProcessSpectrum(_ [][]complex128, _ int) {}

// Gain scales every bin by a constant factor.
type Gain struct {
	gain complex128
}

// NewGain returns a Gain of the given level in dB.
func NewGain(db float64) *Gain {
	g := &Gain{}
	g.SetGainDB(db)
	return g
}

// SetGainDB updates the gain. Not safe to call concurrently with processing.
func (g *Gain) SetGainDB(db float64) {
	g.gain = complex(core.DBToLinear(db), 0)
}

// ProcessSpectrum scales all bins of all channels.
func (g *Gain) ProcessSpectrum(spectra [][]complex128, bins int) {
	for _, spec := range spectra {
		for i := 0; i < bins; i++ {
			spec[i] *= g.gain
		}
	}
}

// LowPass zeroes every bin at or above a cutoff bin, keeping only the low
// end of the spectrum. Bin k corresponds to frequency k*sampleRate/fftSize.
type LowPass struct {
	cutoff int
}

// NewLowPass returns a LowPass keeping bins [0, cutoffBin).
func NewLowPass(cutoffBin int) (*LowPass, error) {
	if cutoffBin <= 0 {
		return nil, fmt.Errorf("filters: cutoff bin must be > 0: %d", cutoffBin)
	}
	return &LowPass{cutoff: cutoffBin}, nil
}

// CutoffBin returns the first zeroed bin.
func (l *LowPass) CutoffBin() int { return l.cutoff }

// ProcessSpectrum zeroes bins at and above the cutoff.
func (l *LowPass) ProcessSpectrum(spectra [][]complex128, bins int) {
	for _, spec := range spectra {
		for i := l.cutoff; i < bins; i++ {
			spec[i] = 0
		}
	}
}

// Gate zeroes every bin whose magnitude falls below a threshold, acting as
// a crude per-bin noise gate.
type Gate struct {
	threshold float64
}

// NewGate returns a Gate with the given threshold in dB relative to unit
// bin magnitude.
func NewGate(thresholdDB float64) *Gate {
	g := &Gate{}
	g.SetThresholdDB(thresholdDB)
	return g
}

// SetThresholdDB updates the threshold. Not safe to call concurrently with
// processing.
func (g *Gate) SetThresholdDB(db float64) {
	g.threshold = core.DBToLinear(db)
}

// ProcessSpectrum zeroes bins below the threshold magnitude.
func (g *Gate) ProcessSpectrum(spectra [][]complex128, bins int) {
	for _, spec := range spectra {
		for i := 0; i < bins; i++ {
			if cmplx.Abs(spec[i]) < g.threshold {
				spec[i] = 0
			}
		}
	}
}
