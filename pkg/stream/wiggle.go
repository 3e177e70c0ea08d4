package stream

// Wiggle returns the baseline of a wiggle-offset stack. values[i][j] is
// the value of series i at record j; series are stacked in slice order.
//
// The baseline starts at zero and each step moves it by the weighted mean
// of the slope change of every band's midline, which minimizes the overall
// wiggle of the stream.
func Wiggle(values [][]float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	m := len(values[0])
	if m == 0 {
		return nil
	}

	base := make([]float64, m)
	var y float64
	for j := 1; j < m; j++ {
		var s1, s2, below float64
		for i := 0; i < n; i++ {
			cur, prev := at(values[i], j), at(values[i], j-1)
			d := cur - prev
			s3 := d/2 + below
			below += d
			s1 += cur
			s2 += s3 * cur
		}
		base[j-1] = y
		if s1 != 0 {
			y -= s2 / s1
		}
	}
	base[m-1] = y
	return base
}

func at(vs []float64, j int) float64 {
	if j < len(vs) {
		return vs[j]
	}
	return 0
}

// Stack places series on baseline bottom-up. The result holds, per series
// and record, the low and high edge of the band.
func Stack(values [][]float64, baseline []float64) [][][2]float64 {
	out := make([][][2]float64, len(values))
	low := make([]float64, len(baseline))
	copy(low, baseline)
	for i, vs := range values {
		out[i] = make([][2]float64, len(baseline))
		for j := range baseline {
			high := low[j] + at(vs, j)
			out[i][j] = [2]float64{low[j], high}
			low[j] = high
		}
	}
	return out
}
