package audio

import "sync"

// ring keeps the most recent frames of every channel.
type ring struct {
	mu       sync.RWMutex
	channels [][]float32
	index    int
	filled   bool
}

func newRing(channels, size int) *ring {
	if channels <= 0 {
		channels = 1
	}
	r := &ring{channels: make([][]float32, channels)}
	for ch := range r.channels {
		r.channels[ch] = make([]float32, size)
	}
	return r
}

// writeInterleaved appends interleaved frames, dropping a trailing partial
// frame.
func (r *ring) writeInterleaved(in []float32) {
	n := len(r.channels)
	frames := len(in) / n
	if frames == 0 {
		return
	}
	size := len(r.channels[0])
	if size == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if frames > size {
		start = frames - size
	}
	for f := start; f < frames; f++ {
		base := f * n
		for ch := 0; ch < n; ch++ {
			r.channels[ch][r.index] = in[base+ch]
		}
		r.index++
		if r.index == size {
			r.index = 0
			r.filled = true
		}
	}
}

// snapshot copies every channel out, oldest frame first. Before the ring
// has wrapped only the frames written so far are returned.
func (r *ring) snapshot() [][]float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([][]float32, len(r.channels))
	for ch, buf := range r.channels {
		if !r.filled {
			cp := make([]float32, r.index)
			copy(cp, buf[:r.index])
			out[ch] = cp
			continue
		}
		cp := make([]float32, len(buf))
		copy(cp, buf[r.index:])
		copy(cp[len(buf)-r.index:], buf[:r.index])
		out[ch] = cp
	}
	return out
}
