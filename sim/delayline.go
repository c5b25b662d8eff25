package sim

import "log"

// A DelayLine stores the recent history of a scalar signal over a regularly
// spaced time grid, so that any connection can sample the signal at an
// arbitrary past instant.
//
// The grid covers the interval [endTime-delay, endTime]. Lookup is O(1): the
// grid index is obtained by truncating division with the fixed spacing
// (timeBit), not by searching. Samples inside the grid are linearly
// interpolated. Samples slightly outside the grid are extrapolated from the
// two nearest anchors, because adaptive integrators legitimately probe a bit
// beyond the last committed value.
type DelayLine struct {
	buf     []float64
	times   []VTimeInSec
	timeBit VTimeInSec
	chunk   int
}

// NewDelayLine creates a delay line covering [-delay, 0] with
// steps*minBuffSize+1 samples, where steps = round(delay/minDelay). The grid
// spacing equals the spacing of the samples Advance commits each tick, so the
// truncating-division lookup stays exact after the history rolls. Every
// sample starts at initVal. chunk samples are replaced on each Advance call.
func NewDelayLine(
	delay, minDelay VTimeInSec,
	minBuffSize int,
	initVal float64,
) *DelayLine {
	steps := int(float64(delay)/float64(minDelay) + 0.5)
	if steps < 1 {
		log.Panicf("delay %f is smaller than the minimum delay %f",
			delay, minDelay)
	}

	size := steps*minBuffSize + 1
	dt := minDelay / VTimeInSec(minBuffSize)

	d := &DelayLine{
		buf:   make([]float64, size),
		times: make([]VTimeInSec, size),
		chunk: minBuffSize,
	}

	for i := range d.buf {
		d.buf[i] = initVal
		d.times[i] = -delay + dt*VTimeInSec(i)
	}
	d.times[size-1] = 0

	// timeBit is slightly larger than the grid spacing, so the computed
	// index never exceeds size-2 for in-range times.
	d.timeBit = dt + 1e-9

	return d
}

// Sample returns the signal value at time t. Times inside the stored range
// are linearly interpolated; times outside it are extrapolated from the
// nearest two samples.
func (d *DelayLine) Sample(t VTimeInSec) float64 {
	base := int((t - d.times[0]) / d.timeBit)
	if base < 0 {
		base = 0
	}
	if base > len(d.buf)-2 {
		base = len(d.buf) - 2
	}

	frac := float64((t - d.times[base]) / d.timeBit)

	return d.buf[base] + frac*(d.buf[base+1]-d.buf[base])
}

// Advance rolls the line forward by one scheduling step: the oldest chunk of
// samples is discarded and the given samples and times are appended at the
// tail. Exactly chunk values must be provided.
func (d *DelayLine) Advance(times []VTimeInSec, vals []float64) {
	if len(vals) != d.chunk || len(times) != d.chunk {
		log.Panicf("advancing a delay line needs %d samples, got %d",
			d.chunk, len(vals))
	}

	n := len(d.buf)
	copy(d.buf, d.buf[d.chunk:])
	copy(d.times, d.times[d.chunk:])
	copy(d.buf[n-d.chunk:], vals)
	copy(d.times[n-d.chunk:], times)
}

// EndTime returns the time of the most recent committed sample.
func (d *DelayLine) EndTime() VTimeInSec {
	return d.times[len(d.times)-1]
}

// StartTime returns the time of the oldest stored sample.
func (d *DelayLine) StartTime() VTimeInSec {
	return d.times[0]
}

// Last returns the most recent committed sample.
func (d *DelayLine) Last() float64 {
	return d.buf[len(d.buf)-1]
}

// Size returns the number of stored samples.
func (d *DelayLine) Size() int {
	return len(d.buf)
}

// A VectorDelayLine is the multi-dimensional analogue of a DelayLine, used
// by plants. It stores one state vector per grid point.
type VectorDelayLine struct {
	rows    [][]float64 // rows[i] is the state at times[i]
	times   []VTimeInSec
	timeBit VTimeInSec
	chunk   int
	dim     int

	scratch [][]float64 // recycled row storage for Advance
}

// NewVectorDelayLine creates a vector delay line covering [-delay, 0]. The
// initial state is replicated across the whole grid.
func NewVectorDelayLine(
	delay, minDelay VTimeInSec,
	minBuffSize int,
	initState []float64,
) *VectorDelayLine {
	steps := int(float64(delay)/float64(minDelay) + 0.5)
	if steps < 1 {
		log.Panicf("delay %f is smaller than the minimum delay %f",
			delay, minDelay)
	}

	size := steps*minBuffSize + 1
	dt := minDelay / VTimeInSec(minBuffSize)

	d := &VectorDelayLine{
		rows:    make([][]float64, size),
		times:   make([]VTimeInSec, size),
		chunk:   minBuffSize,
		dim:     len(initState),
		scratch: make([][]float64, minBuffSize),
	}

	for i := range d.rows {
		d.rows[i] = make([]float64, d.dim)
		copy(d.rows[i], initState)
		d.times[i] = -delay + dt*VTimeInSec(i)
	}
	d.times[size-1] = 0

	d.timeBit = dt + 1e-9

	return d
}

func (d *VectorDelayLine) anchor(t VTimeInSec) (int, float64) {
	base := int((t - d.times[0]) / d.timeBit)
	if base < 0 {
		base = 0
	}
	if base > len(d.rows)-2 {
		base = len(d.rows) - 2
	}

	frac := float64((t - d.times[base]) / d.timeBit)

	return base, frac
}

// Sample returns the full state vector at time t.
func (d *VectorDelayLine) Sample(t VTimeInSec) []float64 {
	base, frac := d.anchor(t)

	out := make([]float64, d.dim)
	for i := 0; i < d.dim; i++ {
		out[i] = d.rows[base][i] + frac*(d.rows[base+1][i]-d.rows[base][i])
	}

	return out
}

// SampleVar returns the value of one state variable at time t.
func (d *VectorDelayLine) SampleVar(t VTimeInSec, idx int) float64 {
	base, frac := d.anchor(t)
	return d.rows[base][idx] + frac*(d.rows[base+1][idx]-d.rows[base][idx])
}

// Advance rolls the line forward by one scheduling step.
func (d *VectorDelayLine) Advance(times []VTimeInSec, states [][]float64) {
	if len(states) != d.chunk || len(times) != d.chunk {
		log.Panicf("advancing a delay line needs %d samples, got %d",
			d.chunk, len(states))
	}

	// The oldest rows are recycled as storage for the new states, so the
	// shift cannot leave two grid positions sharing a backing array.
	n := len(d.rows)
	copy(d.scratch, d.rows[:d.chunk])
	copy(d.rows, d.rows[d.chunk:])
	copy(d.rows[n-d.chunk:], d.scratch)
	copy(d.times, d.times[d.chunk:])

	for i, s := range states {
		row := d.rows[n-d.chunk+i]
		if len(s) != d.dim {
			log.Panicf("state dimension mismatch: want %d, got %d",
				d.dim, len(s))
		}
		copy(row, s)
		d.times[n-d.chunk+i] = times[i]
	}
}

// EndTime returns the time of the most recent committed state.
func (d *VectorDelayLine) EndTime() VTimeInSec {
	return d.times[len(d.times)-1]
}

// Last returns the most recent committed state.
func (d *VectorDelayLine) Last() []float64 {
	return d.rows[len(d.rows)-1]
}

// Dim returns the dimensionality of the stored states.
func (d *VectorDelayLine) Dim() int {
	return d.dim
}
