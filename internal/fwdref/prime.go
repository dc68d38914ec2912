package fwdref

// primes is the ascending table of hash-table sizes, each of the form
// 4k+3 and at least twice the previous entry, used to size last_index[].
// Sparse spacing bounds the overshoot to 2x; 4k+3 avoids pathological
// cycles in modular arithmetic. Mirrors original_source/hash.c's prime[].
var primes = []uint64{
	14051,
	28111,
	56239,
	112507,
	225023,
	450067,
	900139,
	1800311,
	3600659,
	7201351,
	14402743,
	28805519,
	57611039,
	115222091,
	230444239,
	460888499,
	921777067,
	1843554151,
	3687108307,
	7374216631,
	14748433279,
	29496866579,
	58993733159,
	117987466379,
	235974932759,
	471949865531,
	943899731087,
}

// idealPrimeIndex returns the index of the smallest prime >= n.
func idealPrimeIndex(n uint64) int {
	i := 0
	for i < len(primes) && primes[i] < n {
		i++
	}
	return i
}
