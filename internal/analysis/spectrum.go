// Package analysis provides frequency-domain inspection of recorded
// runs, mainly to spot underdamped control loops: a sharp non-DC peak
// in the altitude or position spectrum means the gains are ringing.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform by radix-2
// Cooley-Tukey recursion. The input length must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}
	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// Spectrum is the one-sided amplitude spectrum of a sampled signal.
type Spectrum struct {
	Freqs []float64 // [Hz]
	Power []float64
}

// PowerSpectrum computes the one-sided spectrum of a signal sampled
// every dt seconds. The signal is truncated to the largest power-of-2
// length and the sample mean is removed first, so Power[0] stays near
// zero and the interesting peaks stand out.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	n := 1
	for n*2 <= len(data) {
		n *= 2
	}
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range data[:n] {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data[:n] {
		centered[i] = v - mean
	}

	fft := FFT(centered)
	s := Spectrum{
		Freqs: make([]float64, n/2),
		Power: make([]float64, n/2),
	}
	for i := range s.Power {
		s.Freqs[i] = float64(i) / (float64(n) * dt)
		s.Power[i] = cmplx.Abs(fft[i])
	}
	return s
}

// Peak returns the non-DC frequency carrying the most power. A zero
// return on both values means the spectrum is empty.
func (s Spectrum) Peak() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			freq, power = s.Freqs[i], s.Power[i]
		}
	}
	return freq, power
}
