package apu

import "sync/atomic"

// sampleRingSize is the ring capacity in samples; must stay a power of two
// so index wraparound reduces to a mask.
const sampleRingSize = 1 << 13 // 8192 samples, ~170ms at 48kHz

// sampleRing is a lock-free single-producer/single-consumer ring buffer of
// signed 16-bit PCM samples. The emulation goroutine is the sole producer
// (via Push, called from generateSample); an audio callback on another
// goroutine is the sole consumer (via Drain). The two atomic cursors are
// each written by only one side, so no mutex is needed.
type sampleRing struct {
	buf   [sampleRingSize]int16
	write uint64 // atomic, producer-owned: index of the next slot to fill
	read  uint64 // atomic, consumer-owned: index of the next slot to take
}

func newSampleRing() *sampleRing {
	return &sampleRing{}
}

// Push appends one sample. If the consumer has fallen behind and the ring is
// full, the sample is dropped rather than blocking the emulator.
func (r *sampleRing) Push(sample int16) {
	w := atomic.LoadUint64(&r.write)
	read := atomic.LoadUint64(&r.read)
	if w-read >= sampleRingSize {
		return
	}
	r.buf[w&(sampleRingSize-1)] = sample
	atomic.StoreUint64(&r.write, w+1)
}

// Drain copies up to len(out) queued samples into out, oldest first, and
// returns how many were copied.
func (r *sampleRing) Drain(out []int16) int {
	read := atomic.LoadUint64(&r.read)
	w := atomic.LoadUint64(&r.write)
	n := int(w - read)
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = r.buf[(read+uint64(i))&(sampleRingSize-1)]
	}
	atomic.StoreUint64(&r.read, read+uint64(n))
	return n
}

// Len reports the number of samples currently queued.
func (r *sampleRing) Len() int {
	return int(atomic.LoadUint64(&r.write) - atomic.LoadUint64(&r.read))
}

// Reset drops all queued samples.
func (r *sampleRing) Reset() {
	read := atomic.LoadUint64(&r.write)
	atomic.StoreUint64(&r.read, read)
}
