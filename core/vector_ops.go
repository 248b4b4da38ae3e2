package core

import "math"

// zeroNormEpsilon is the threshold below which a vector's L2 norm is
// treated as zero for normalization and cosine-distance purposes.
const zeroNormEpsilon = 1e-12

// defaultNormalizedTolerance is the default tolerance used by
// IsNormalized when the caller does not supply one.
const defaultNormalizedTolerance = 1e-6

// L2Norm returns sqrt(sum(v_i^2)). Fails with ErrInvalidArgument if v
// is empty.
func L2Norm(v []float32) (float64, error) {
	if len(v) == 0 {
		return 0, ErrInvalidArgument
	}
	var sumSq float64
	for _, x := range v {
		xf := float64(x)
		sumSq += xf * xf
	}
	return math.Sqrt(sumSq), nil
}

// Normalize L2-normalizes v in place. If ||v|| < zeroNormEpsilon, v is
// left unchanged — this is intentional, documented behavior for
// all-zero descriptors rather than a division-by-zero guard to "fix".
func Normalize(v []float32) error {
	if len(v) == 0 {
		return ErrInvalidArgument
	}
	norm, _ := L2Norm(v)
	if norm < zeroNormEpsilon {
		return nil
	}
	inv := float32(1.0 / norm)
	for i := range v {
		v[i] *= inv
	}
	return nil
}

// NormalizedCopy allocates a copy of v and normalizes the copy,
// leaving the caller's vector untouched.
func NormalizedCopy(v []float32) ([]float32, error) {
	if len(v) == 0 {
		return nil, ErrInvalidArgument
	}
	out := make([]float32, len(v))
	copy(out, v)
	_ = Normalize(out)
	return out, nil
}

// IsNormalized reports whether |‖v‖ - 1| <= tol. A tol <= 0 selects
// defaultNormalizedTolerance.
func IsNormalized(v []float32, tol float64) (bool, error) {
	if tol <= 0 {
		tol = defaultNormalizedTolerance
	}
	norm, err := L2Norm(v)
	if err != nil {
		return false, err
	}
	return math.Abs(norm-1) <= tol, nil
}

// VectorStatistics summarizes a feature vector's coordinates.
type VectorStatistics struct {
	Mean   float64
	StdDev float64 // population standard deviation
	Min    float64
	Max    float64
}

// Statistics computes mean, population standard deviation, min, and
// max over v's coordinates.
func Statistics(v []float32) (VectorStatistics, error) {
	if len(v) == 0 {
		return VectorStatistics{}, ErrInvalidArgument
	}
	var sum float64
	min, max := float64(v[0]), float64(v[0])
	for _, x := range v {
		xf := float64(x)
		sum += xf
		if xf < min {
			min = xf
		}
		if xf > max {
			max = xf
		}
	}
	mean := sum / float64(len(v))
	var sumSqDiff float64
	for _, x := range v {
		d := float64(x) - mean
		sumSqDiff += d * d
	}
	stdDev := math.Sqrt(sumSqDiff / float64(len(v)))
	return VectorStatistics{Mean: mean, StdDev: stdDev, Min: min, Max: max}, nil
}

// NormalizeBatch normalizes multiple vectors concurrently, one
// goroutine per vector, fanning out and joining on a done channel.
// Safe to call with an empty or nil slice.
func NormalizeBatch(vecs [][]float32) {
	if len(vecs) == 0 {
		return
	}
	done := make(chan struct{}, len(vecs))
	for i := range vecs {
		go func(i int) {
			_ = Normalize(vecs[i])
			done <- struct{}{}
		}(i)
	}
	for range vecs {
		<-done
	}
}
