package stft

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const colaFloor = 1e-12

// transformEngine is the only place real/complex conversion happens. It owns
// the FFT plan, the analysis and synthesis window tables, and the inverse
// scratch. All storage is sized once; forward and inverse never allocate.
//
// The synthesis window is derived from the analysis window so that the
// windowed overlap-add sums to exactly unity gain across the hop stride:
// ws[n] = wa[n] / D[n mod hop] with D[r] = sum of wa[k]^2 over k ≡ r (mod hop).
// At hop == fftSize a tapered window cannot satisfy that (its zero samples
// destroy input), so the rectangular window is substituted.
type transformEngine struct {
	fftSize int
	hopSize int
	bins    int

	plan *algofft.Plan[complex128]

	analysisWin  []float64
	synthesisWin []float64

	time []complex128
}

func newTransformEngine(fftSize, hopSize int, typ window.Type) (*transformEngine, error) {
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	if hopSize >= fftSize {
		typ = window.TypeRectangular
	}
	wa := window.Generate(typ, fftSize, window.WithPeriodic())
	if len(wa) != fftSize {
		return nil, fmt.Errorf("%w: window generation failed for size %d", ErrInvalidConfiguration, fftSize)
	}

	norm := make([]float64, hopSize)
	for i, w := range wa {
		norm[i%hopSize] += w * w
	}
	for r, d := range norm {
		if d <= colaFloor {
			return nil, fmt.Errorf("%w: window has no energy in hop phase %d, overlap-add cannot reach unity gain", ErrInvalidConfiguration, r)
		}
	}

	ws := make([]float64, fftSize)
	for i, w := range wa {
		ws[i] = w / norm[i%hopSize]
	}

	return &transformEngine{
		fftSize:      fftSize,
		hopSize:      hopSize,
		bins:         fftSize/2 + 1,
		plan:         plan,
		analysisWin:  wa,
		synthesisWin: ws,
		time:         make([]complex128, fftSize),
	}, nil
}

// forward applies the analysis window to src in place and fills spec with
// its forward transform. src and spec must both have length fftSize.
func (e *transformEngine) forward(spec []complex128, src []float64) error {
	vecmath.MulBlockInPlace(src, e.analysisWin)
	for i, v := range src {
		spec[i] = complex(v, 0)
	}
	return e.plan.Forward(spec, spec)
}

// inverse restores conjugate symmetry in spec, runs the inverse transform,
// and writes the synthesis-windowed time-domain frame into dst. Symmetry is
// rebuilt from the lower half so a processor only ever touches bins [0, bins).
func (e *transformEngine) inverse(dst []float64, spec []complex128) error {
	half := e.fftSize / 2
	spec[0] = complex(real(spec[0]), 0)
	spec[half] = complex(real(spec[half]), 0)
	for k := 1; k < half; k++ {
		v := spec[k]
		spec[e.fftSize-k] = complex(real(v), -imag(v))
	}

	if err := e.plan.Inverse(e.time, spec); err != nil {
		return err
	}

	for i := range dst[:e.fftSize] {
		dst[i] = real(e.time[i])
	}
	vecmath.MulBlockInPlace(dst[:e.fftSize], e.synthesisWin)
	return nil
}
