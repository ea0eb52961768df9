package audio

import "iter"

// DefaultChunkSize is the transmission chunk size used when none is
// configured. 8 KiB keeps individual WebSocket frames small enough to
// interleave well with control traffic.
const DefaultChunkSize = 8192

// Chunks returns a lazy, forward-only iterator over clip split into
// consecutive chunks of the given size. Every chunk except possibly the last
// has length exactly size; the last carries the remainder. An empty clip
// yields no chunks. A size of zero or less falls back to [DefaultChunkSize].
//
// Chunks are sub-slices of clip, not copies. The iteration is a pure function
// of its inputs: the same clip and size always produce the same sequence, and
// concatenating all chunks reproduces clip exactly.
func Chunks(clip []byte, size int) iter.Seq[[]byte] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func([]byte) bool) {
		for off := 0; off < len(clip); off += size {
			end := min(off+size, len(clip))
			if !yield(clip[off:end]) {
				return
			}
		}
	}
}

// ChunkCount returns the number of chunks Chunks will yield for a clip of
// byteLen bytes: ceil(byteLen / size), or 0 for an empty clip.
func ChunkCount(byteLen, size int) int {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if byteLen <= 0 {
		return 0
	}
	return (byteLen + size - 1) / size
}
