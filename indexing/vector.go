package indexing

import "math"

// NormalizeVector returns a unit-length copy of v. Embedding servers do not
// all normalize their output, and the similarity scan assumes unit vectors,
// so every vector is normalized before it is stored. A zero input yields a
// zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	out := make([]float32, len(v))
	if len(v) == 0 {
		return out
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return out
	}

	inv := float32(1 / math.Sqrt(sum))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}
