package stft

import (
	"errors"
	"fmt"
)

// Errors returned by the engine. The ProcessBlock preconditions are reported
// with the bare sentinels so the real-time path never allocates.
var (
	ErrInvalidConfiguration = errors.New("stft: invalid configuration")
	ErrNotInitialized       = errors.New("stft: filter not initialized")
	ErrChannelMismatch      = errors.New("stft: channel count mismatch")
	ErrFrameSizeMismatch    = errors.New("stft: frame count mismatch")
)

func validateInit(channelCount, fftSize, overlap int) error {
	if channelCount <= 0 {
		return fmt.Errorf("%w: channel count must be > 0: %d", ErrInvalidConfiguration, channelCount)
	}
	if fftSize <= 1 || !isPowerOfTwo(fftSize) {
		return fmt.Errorf("%w: fft size must be a power of two >= 2: %d", ErrInvalidConfiguration, fftSize)
	}
	if overlap < 0 || overlap >= fftSize {
		return fmt.Errorf("%w: overlap must be in [0, %d): %d", ErrInvalidConfiguration, fftSize, overlap)
	}
	return nil
}

func validateBlockSize(value int) error {
	if value <= 0 {
		return fmt.Errorf("%w: block size must be > 0: %d", ErrInvalidConfiguration, value)
	}
	return nil
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}
