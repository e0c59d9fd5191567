// Command stftinfo prints timing and reconstruction properties of an STFT
// filter configuration.
//
// Usage:
//
//	stftinfo [flags]
//
// For the given fft size, overlap, and block size it prints the hop size,
// the frame latency, and the measured round-trip error of an identity
// filter driven with a deterministic test signal.
//
// Examples:
//
//	stftinfo
//	stftinfo -fft 1024 -overlap 768 -block 256
//	stftinfo -fft 2048 -overlap 1024 -block 441
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-stft"
	"github.com/cwbudde/algo-stft/audio"
	"github.com/cwbudde/algo-stft/filters"
	"github.com/cwbudde/algo-stft/internal/testutil"
)

func main() {
	fftSize := flag.Int("fft", stft.DefaultFFTSize, "fft size in samples (power of two)")
	overlap := flag.Int("overlap", stft.DefaultOverlap, "overlap between windows in samples")
	block := flag.Int("block", 512, "block size in samples")
	channels := flag.Int("channels", 1, "channel count")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stftinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints timing and reconstruction properties of an STFT configuration.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	f := stft.New(filters.Passthrough{})
	if err := f.SetBlockSize(*block); err != nil {
		fatal(err)
	}
	if err := f.Init(*channels, *fftSize, *overlap); err != nil {
		fatal(err)
	}

	roundTrip, err := measureRoundTripError(f)
	if err != nil {
		fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "fft size\t%d\n", f.FFTSize())
	fmt.Fprintf(w, "overlap\t%d\n", f.Overlap())
	fmt.Fprintf(w, "hop size\t%d\n", f.HopSize())
	fmt.Fprintf(w, "block size\t%d\n", f.BlockSize())
	fmt.Fprintf(w, "channels\t%d\n", f.ChannelCount())
	fmt.Fprintf(w, "frame latency\t%d samples\n", f.FrameLatency())
	fmt.Fprintf(w, "round-trip error\t%.3e\n", roundTrip)
	w.Flush()
}

// measureRoundTripError streams a sine through an identity filter and
// returns the maximum deviation from the latency-delayed input, measured
// after the leading window transient.
func measureRoundTripError(f *stft.Filter) (float64, error) {
	blockSize := f.BlockSize()
	latency := f.FrameLatency()
	length := (f.FFTSize()*8/blockSize + 4) * blockSize

	input := testutil.DeterministicSine(440, 48000, 0.8, length)
	buf, err := audio.New(f.ChannelCount(), blockSize)
	if err != nil {
		return 0, err
	}

	output := make([]float64, 0, length)
	for pos := 0; pos+blockSize <= length; pos += blockSize {
		for ch := 0; ch < f.ChannelCount(); ch++ {
			copy(buf.Channel(ch), input[pos:pos+blockSize])
		}
		if err := f.ProcessBlock(buf); err != nil {
			return 0, err
		}
		output = append(output, buf.Channel(0)...)
	}

	maxDiff := 0.0
	for j := latency + f.FFTSize(); j < len(output); j++ {
		if d := math.Abs(output[j] - input[j-latency]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "stftinfo:", err)
	os.Exit(1)
}
