package audio_test

import (
	"bytes"
	"testing"

	"github.com/lorikeet-audio/lorikeet/pkg/audio"
)

// collect drains the iterator into a slice for inspection.
func collect(clip []byte, size int) [][]byte {
	var out [][]byte
	for c := range audio.Chunks(clip, size) {
		out = append(out, c)
	}
	return out
}

func TestChunks_RoundTrip(t *testing.T) {
	t.Parallel()
	lengths := []int{0, 1, 7, 8, 9, 16, 100, 8191, 8192, 8193, 3 * 8192}
	for _, n := range lengths {
		clip := make([]byte, n)
		for i := range clip {
			clip[i] = byte(i)
		}

		var rebuilt []byte
		for c := range audio.Chunks(clip, 8192) {
			rebuilt = append(rebuilt, c...)
		}
		if !bytes.Equal(rebuilt, clip) {
			t.Errorf("len %d: concatenated chunks do not reproduce the clip", n)
		}
	}
}

func TestChunks_CountAndSizes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		byteLen, size, wantChunks, wantLast int
	}{
		{0, 8, 0, 0},
		{1, 8, 1, 1},
		{8, 8, 1, 8},
		{9, 8, 2, 1},
		{16, 8, 2, 8},
		{17, 8, 3, 1},
		{8192*2 + 5, 8192, 3, 5},
	}
	for _, tc := range tests {
		chunks := collect(make([]byte, tc.byteLen), tc.size)
		if len(chunks) != tc.wantChunks {
			t.Errorf("len %d size %d: got %d chunks, want %d", tc.byteLen, tc.size, len(chunks), tc.wantChunks)
			continue
		}
		if got := audio.ChunkCount(tc.byteLen, tc.size); got != tc.wantChunks {
			t.Errorf("ChunkCount(%d, %d) = %d, want %d", tc.byteLen, tc.size, got, tc.wantChunks)
		}
		for i, c := range chunks {
			want := tc.size
			if i == len(chunks)-1 {
				want = tc.wantLast
			}
			if len(c) != want {
				t.Errorf("len %d size %d: chunk %d has length %d, want %d", tc.byteLen, tc.size, i, len(c), want)
			}
		}
	}
}

func TestChunks_Deterministic(t *testing.T) {
	t.Parallel()
	clip := bytes.Repeat([]byte{0xAB, 0xCD}, 1000)
	first := collect(clip, 128)
	second := collect(clip, 128)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestChunks_EarlyStop(t *testing.T) {
	t.Parallel()
	clip := make([]byte, 100)
	seen := 0
	for range audio.Chunks(clip, 10) {
		seen++
		if seen == 3 {
			break
		}
	}
	if seen != 3 {
		t.Errorf("stopped after %d chunks, want 3", seen)
	}
}

func TestChunks_DefaultSize(t *testing.T) {
	t.Parallel()
	clip := make([]byte, audio.DefaultChunkSize+1)
	chunks := collect(clip, 0)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if len(chunks[0]) != audio.DefaultChunkSize {
		t.Errorf("first chunk is %d bytes, want %d", len(chunks[0]), audio.DefaultChunkSize)
	}
}
