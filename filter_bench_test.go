package stft

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-stft/audio"
	"github.com/cwbudde/algo-stft/internal/testutil"
)

// Benchmark the full analysis-resynthesis pipeline with an identity hook.
func BenchmarkProcessBlock(b *testing.B) {
	cases := []struct {
		channels  int
		fftSize   int
		overlap   int
		blockSize int
	}{
		{1, 512, 256, 128},
		{1, 2048, 1024, 512},
		{2, 2048, 1024, 512},
		{2, 4096, 3072, 512},
	}

	for _, tc := range cases {
		name := fmt.Sprintf("ch%d_fft%d_ov%d_blk%d", tc.channels, tc.fftSize, tc.overlap, tc.blockSize)
		b.Run(name, func(b *testing.B) {
			f := New(passthrough{})
			if err := f.SetBlockSize(tc.blockSize); err != nil {
				b.Fatalf("SetBlockSize failed: %v", err)
			}
			if err := f.Init(tc.channels, tc.fftSize, tc.overlap); err != nil {
				b.Fatalf("Init failed: %v", err)
			}

			buf, err := audio.New(tc.channels, tc.blockSize)
			if err != nil {
				b.Fatalf("audio.New failed: %v", err)
			}
			sine := testutil.DeterministicSine(440, 48000, 0.5, tc.blockSize)
			for ch := 0; ch < tc.channels; ch++ {
				copy(buf.Channel(ch), sine)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := f.ProcessBlock(buf); err != nil {
					b.Fatalf("ProcessBlock failed: %v", err)
				}
			}
		})
	}
}
