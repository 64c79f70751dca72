// Package keyschedule derives a deterministic permutation of [0, n) from a
// secret key, in the style of the RC4 key-scheduling algorithm. It is the
// single source of non-linear traversal order shared by the lsb and
// watermark packages; nothing else in this module reorders coordinates.
package keyschedule

// Permute returns a permutation of [0, n) determined entirely by key and n.
// The same (key, n) pair always yields the same result; different n values
// for the same key yield independent permutations.
//
// Permute requires a non-empty key. Callers that accept a key from the
// outside world must reject an empty key before calling Permute - this
// function does not re-validate it on every call, since it sits on the hot
// path of both codecs.
func Permute(key []byte, n int) []int {
	if n <= 0 {
		return []int{}
	}

	s := make([]int, n)
	t := make([]int, n)
	for i := 0; i < n; i++ {
		s[i] = i
		t[i] = int(key[i%len(key)]) % n
	}

	j := 0
	for i := 0; i < n; i++ {
		j = (j + s[i] + t[i]) % n
		s[i], s[j] = s[j], s[i]
	}

	return s
}
