// eCzasPL - a decoder for the Polish eCzasPL terrestrial time-distribution
// radio signal.
// Copyright (C) 2026 SP6HFE
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package buffer implements the sliding sample window the decode pipeline
// runs its sync correlator and frame extractor against: parallel arrays of
// recent sample values, per-position sync-match flags, and per-position
// absolute sample indices, shifted the way the teacher's decoder shifts
// its Signal/Quantized buffers on every new sample block.
package buffer

// SampleBuffer holds the most recent Len samples along with a parallel
// sync-match flag and absolute sample index for each position. Position
// Len-1 always holds the most recently pushed sample; meaningfulStart
// marks the first position holding data the pipeline still cares about,
// with Len denoting "the buffer holds nothing of interest yet".
type SampleBuffer struct {
	values  []int16
	match   []bool
	indices []uint32

	meaningfulStart int
	nextAbsIndex    uint32
}

// New allocates a SampleBuffer of length l. l must exceed one frame length
// in samples plus two full bit-widths so sync alignment has search margin;
// the caller is responsible for sizing it that way.
func New(l int) *SampleBuffer {
	if l <= 0 {
		panic("buffer: length must be positive")
	}
	return &SampleBuffer{
		values:          make([]int16, l),
		match:           make([]bool, l),
		indices:         make([]uint32, l),
		meaningfulStart: l,
	}
}

// Len returns the buffer's fixed capacity L.
func (b *SampleBuffer) Len() int {
	return len(b.values)
}

// MeaningfulStart returns the index of the first position holding data the
// pipeline still cares about. Len means the buffer holds nothing live.
func (b *SampleBuffer) MeaningfulStart() int {
	return b.meaningfulStart
}

// SetMeaningfulStart moves the meaningful-data marker, used when a
// detection has been fully consumed or definitively invalidated. idx must
// be in [0, Len()].
func (b *SampleBuffer) SetMeaningfulStart(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx > b.Len() {
		idx = b.Len()
	}
	b.meaningfulStart = idx
}

// AdvanceMeaningfulStart moves the meaningful-data marker forward by n
// positions, clamped to Len().
func (b *SampleBuffer) AdvanceMeaningfulStart(n int) {
	b.SetMeaningfulStart(b.meaningfulStart + n)
}

// Full reports whether the buffer has accumulated a full window's worth of
// unconsumed data; the pipeline treats this as ingest outrunning drain.
func (b *SampleBuffer) Full() bool {
	return b.meaningfulStart == 0
}

// At returns the sample value at position i.
func (b *SampleBuffer) At(i int) int16 {
	return b.values[i]
}

// Match returns the sync-match flag at position i.
func (b *SampleBuffer) Match(i int) bool {
	return b.match[i]
}

// SetMatch sets the sync-match flag at position i.
func (b *SampleBuffer) SetMatch(i int, v bool) {
	b.match[i] = v
}

// AbsIndex returns the absolute, monotonically increasing sample index
// recorded for position i.
func (b *SampleBuffer) AbsIndex(i int) uint32 {
	return b.indices[i]
}

// PushSample appends value as the newest sample, shifting the window left
// by one position, and reports whether the buffer is now full (ingest has
// outrun drain).
func (b *SampleBuffer) PushSample(value int16) (bufferFull bool) {
	l := b.Len()

	if b.meaningfulStart < l {
		copy(b.values, b.values[1:])
		copy(b.match, b.match[1:])
		copy(b.indices, b.indices[1:])
	}

	b.values[l-1] = value
	b.match[l-1] = false
	b.indices[l-1] = b.nextAbsIndex
	b.nextAbsIndex++

	if b.meaningfulStart > 0 {
		b.meaningfulStart--
	}

	return b.Full()
}
