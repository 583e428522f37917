package analysis

// BounceFrequency estimates the dominant oscillation frequency of a
// height signal sampled at sampleRate Hz, in bounces per second. The
// DC component is skipped; a decaying bounce train shows up as the
// strongest non-zero bin.
func BounceFrequency(heights []float64, sampleRate float64) float64 {
	if len(heights) < 4 || sampleRate <= 0 {
		return 0
	}

	// remove the mean so the floor offset does not dominate the spectrum
	mean := 0.0
	for _, h := range heights {
		mean += h
	}
	mean /= float64(len(heights))

	centered := make([]float64, len(heights))
	for i, h := range heights {
		centered[i] = h - mean
	}

	ps := PowerSpectrum(centered)
	if len(ps) < 2 {
		return 0
	}

	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}

	n := len(ps) * 2 // padded FFT length
	return float64(peak) * sampleRate / float64(n)
}
