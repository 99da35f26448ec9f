package metadata

import "testing"

func TestPadUniformBufferSize(t *testing.T) {
	tests := []struct {
		name      string
		size      uint64
		alignment uint64
		want      uint64
	}{
		{name: "zero alignment is identity", size: 80, alignment: 0, want: 80},
		{name: "already aligned", size: 256, alignment: 256, want: 256},
		{name: "rounds up", size: 80, alignment: 256, want: 256},
		{name: "one past boundary", size: 257, alignment: 256, want: 512},
		{name: "small alignment", size: 3, alignment: 4, want: 4},
		{name: "size one", size: 1, alignment: 64, want: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PadUniformBufferSize(tt.size, tt.alignment); got != tt.want {
				t.Errorf("PadUniformBufferSize(%d, %d) = %d, want %d", tt.size, tt.alignment, got, tt.want)
			}
		})
	}
}

func TestPadUniformBufferSize_Properties(t *testing.T) {
	alignments := []uint64{1, 2, 4, 16, 64, 256, 1024}
	for _, a := range alignments {
		for size := uint64(1); size <= 4*a; size += 7 {
			got := PadUniformBufferSize(size, a)
			if got%a != 0 {
				t.Fatalf("pad(%d, %d) = %d not a multiple of alignment", size, a, got)
			}
			if got < size {
				t.Fatalf("pad(%d, %d) = %d shrank the size", size, a, got)
			}
			if got >= size+a {
				t.Fatalf("pad(%d, %d) = %d over-padded", size, a, got)
			}
			// Idempotence: padding an already padded size changes nothing.
			if again := PadUniformBufferSize(got, a); again != got {
				t.Fatalf("pad(pad(%d)) = %d, want %d", size, again, got)
			}
		}
	}
}

func TestSceneDataOffset_NoOverlap(t *testing.T) {
	const alignment = 256
	padded := PadUniformBufferSize(GPUSceneDataSize, alignment)

	region := make([]byte, SharedSceneBufferSize(alignment))

	// Write a distinct pattern at each frame's offset and verify the other
	// frame's range is untouched.
	patterns := [FrameOverlap]byte{0xAA, 0x55}
	for i := uint64(0); i < FrameOverlap; i++ {
		off := SceneDataOffset(i, alignment)
		if off != i*padded {
			t.Fatalf("offset(%d) = %d, want %d", i, off, i*padded)
		}
		for j := uint64(0); j < GPUSceneDataSize; j++ {
			region[off+j] = patterns[i]
		}
	}

	for i := uint64(0); i < FrameOverlap; i++ {
		off := SceneDataOffset(i, alignment)
		for j := uint64(0); j < GPUSceneDataSize; j++ {
			if region[off+j] != patterns[i] {
				t.Fatalf("frame %d byte %d corrupted by neighboring write", i, j)
			}
		}
	}
}

func TestSceneDataRoundTrip(t *testing.T) {
	const alignment = 64
	region := make([]byte, SharedSceneBufferSize(alignment))

	scene := GPUSceneData{
		AmbientColor: [4]float32{0.25, 0.5, 0.75, 1},
		SunDirection: [4]float32{0, -1, 0, 0},
	}
	src := scene.Bytes()

	off := SceneDataOffset(1, alignment)
	copy(region[off:], src)

	for j := range src {
		if region[off+uint64(j)] != src[j] {
			t.Fatalf("byte %d: wrote %#x, read %#x", j, src[j], region[off+uint64(j)])
		}
	}
}
