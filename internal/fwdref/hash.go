package fwdref

import "github.com/asynkron/simtext/internal/token"

// nSamples is the number of sample positions used by both hash functions,
// independent of the minimum run size. Mirrors hash.c's N_SAMPLES.
const nSamples = 24

// samplePositions returns the N_SAMPLES offsets, relative to the start of
// an R-token window, sampled evenly across it. Duplicates occur when
// minRun < nSamples; that is tolerated, per spec.
func samplePositions(minRun int) [nSamples]int {
	var pos [nSamples]int
	for n := 0; n < nSamples; n++ {
		pos[n] = (2*n*(minRun-1) + (nSamples - 1)) / (2 * (nSamples - 1))
	}
	return pos
}

// hash1 computes the 32-bit primary hash of the minRun-token window
// starting at p, sampling samplePos positions relative to p and combining
// them with a rolling left-rotate-by-one-bit-then-xor accumulator.
// Mirrors hash.c's hash1() with HASH_W=32.
func hash1(store *token.Store, p int, samplePos [nSamples]int) uint32 {
	var h uint32
	for n := 0; n < nSamples; n++ {
		h <<= 1
		if h&(1<<31) != 0 {
			h ^= (1 << 31) | 1
		}
		h ^= uint32(store.At(p + samplePos[n]))
	}
	return h
}

// hash2 computes a wide, unmodded representative hash of the minRun-token
// window starting at p, used only for equality comparison between chain
// candidates (never reduced modulo anything). Mirrors hash.c's hash2()
// with vlong_uint == uint64.
func hash2(store *token.Store, p int, samplePos [nSamples]int) uint64 {
	const width = 64
	last := nSamples - 1

	extract := func(idx int) uint64 {
		return uint64(uint32(store.At(p + samplePos[idx])))
	}

	var h uint64
	h ^= extract(0) << (width * 0 / 5)
	h ^= extract(last) << (width * 1 / 5)
	h ^= extract(last/2) << (width * 2 / 5)
	h ^= extract(last*1/4) << (width * 3 / 5)
	h ^= extract(last*3/4) << (width * 4 / 5)
	return h
}
