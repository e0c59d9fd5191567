package audio

import "testing"

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 4); err == nil {
		t.Error("zero channels accepted")
	}
	if _, err := New(2, 0); err == nil {
		t.Error("zero frames accepted")
	}
}

func TestShapeAndChannelAccess(t *testing.T) {
	b, err := New(2, 4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if b.ChannelCount() != 2 {
		t.Errorf("ChannelCount = %d, want 2", b.ChannelCount())
	}
	if b.FrameCount() != 4 {
		t.Errorf("FrameCount = %d, want 4", b.FrameCount())
	}

	// Channel slices alias the buffer contents.
	b.Channel(1)[2] = 7
	if b.Data()[1][2] != 7 {
		t.Error("Channel mutation not visible through Data")
	}

	b.Zero()
	if b.Data()[1][2] != 0 {
		t.Error("Zero did not clear samples")
	}
}

func TestInterleavedRoundTrip(t *testing.T) {
	b, err := New(2, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	src := []float64{1, 10, 2, 20, 3, 30}
	if err := b.FromInterleaved(src); err != nil {
		t.Fatalf("FromInterleaved failed: %v", err)
	}

	wantL := []float64{1, 2, 3}
	wantR := []float64{10, 20, 30}
	for i := range wantL {
		if b.Channel(0)[i] != wantL[i] {
			t.Errorf("channel 0 index %d: got %v, want %v", i, b.Channel(0)[i], wantL[i])
		}
		if b.Channel(1)[i] != wantR[i] {
			t.Errorf("channel 1 index %d: got %v, want %v", i, b.Channel(1)[i], wantR[i])
		}
	}

	dst := make([]float64, 6)
	if err := b.WriteInterleaved(dst); err != nil {
		t.Fatalf("WriteInterleaved failed: %v", err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("interleaved index %d: got %v, want %v", i, dst[i], src[i])
		}
	}
}

func TestInterleavedLengthMismatch(t *testing.T) {
	b, err := New(2, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := b.FromInterleaved(make([]float64, 5)); err == nil {
		t.Error("FromInterleaved accepted short slice")
	}
	if err := b.WriteInterleaved(make([]float64, 7)); err == nil {
		t.Error("WriteInterleaved accepted long slice")
	}
}
