package dsp

// STFT computes Hann-windowed spectra of every full frame of x.
// Frames start at multiples of hop; a trailing partial frame is dropped.
func STFT(x []float64, n int, hop int) [][]complex128 {
	if n <= 0 || hop <= 0 || len(x) < n {
		return nil
	}
	fft := NewFFT(n)
	window := HanWindow(n)
	numFrames := (len(x)-n)/hop + 1
	frames := make([][]complex128, numFrames)
	buf := make([]complex128, n)
	for f := 0; f < numFrames; f++ {
		start := f * hop
		for i := 0; i < n; i++ {
			buf[i] = complex(x[start+i]*window[i], 0)
		}
		frames[f] = fft.Forward(nil, buf)
	}
	return frames
}

// ISTFT reconstructs a signal of the given length from frames produced by STFT.
// Overlapping frames are windowed again and normalized by the accumulated
// squared window.
func ISTFT(frames [][]complex128, n int, hop int, length int) []float64 {
	out := make([]float64, length)
	if len(frames) == 0 {
		return out
	}
	fft := NewFFT(n)
	window := HanWindow(n)
	windowSum := make([]float64, length)
	buf := make([]complex128, n)
	scale := 1 / float64(n)
	for f, frame := range frames {
		buf = fft.Inverse(buf, frame)
		start := f * hop
		for i := 0; i < n && start+i < length; i++ {
			out[start+i] += real(buf[i]) * scale * window[i]
			windowSum[start+i] += window[i] * window[i]
		}
	}
	for i := range out {
		if windowSum[i] > 1e-6 {
			out[i] /= windowSum[i]
		}
	}
	return out
}
