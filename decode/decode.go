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

// Package decode implements the eCzasPL sample-to-time-message pipeline:
// sync correlation over a sliding sample window, differential byte
// recovery, and the frame validation/RS/CRC/descramble chain of the frame
// package, wired together into a single synchronous, callback-driven
// Decoder. This plays the role the teacher's decode.Decoder plays for an
// ASK/OOK bitstream, generalized to a differentially-coded, FEC-protected
// protocol.
package decode

import (
	"fmt"

	"github.com/sp6hfe/e-CzasPL/buffer"
	"github.com/sp6hfe/e-CzasPL/crc8"
	"github.com/sp6hfe/e-CzasPL/frame"
	"github.com/sp6hfe/e-CzasPL/rs"
)

// Config specifies the decoder's sampling and noise-band parameters.
type Config struct {
	// SamplesPerBit is the oversampling factor: the number of raw samples
	// spanning one bit period.
	SamplesPerBit int

	// NoiseHalfWidth is the half-width H of the idle/quiet band around 0;
	// a sample is "out of noise" when its magnitude exceeds H.
	NoiseHalfWidth int16

	// BufferLen is the sliding sample window's fixed length L. It must
	// exceed one frame length in samples (96*SamplesPerBit) plus two full
	// bit widths, so sync alignment has search margin.
	BufferLen int
}

// DefaultConfig returns the parameters used throughout the protocol's
// concrete scenarios: SPB=10, H=15000, L=1024.
func DefaultConfig() Config {
	return Config{
		SamplesPerBit:  10,
		NoiseHalfWidth: 15000,
		BufferLen:      1024,
	}
}

// Validate reports whether cfg describes a usable decoder.
func (cfg Config) Validate() error {
	if cfg.SamplesPerBit <= 0 {
		return fmt.Errorf("decode: SamplesPerBit must be positive, got %d", cfg.SamplesPerBit)
	}
	if cfg.NoiseHalfWidth <= 0 {
		return fmt.Errorf("decode: NoiseHalfWidth must be positive, got %d", cfg.NoiseHalfWidth)
	}
	minLen := frame.Length*8*cfg.SamplesPerBit + 2*cfg.SamplesPerBit
	if cfg.BufferLen <= minLen {
		return fmt.Errorf("decode: BufferLen %d too small for SamplesPerBit %d (need > %d)", cfg.BufferLen, cfg.SamplesPerBit, minLen)
	}
	return nil
}

// ErrorKind identifies a processing failure reported through
// Decoder.OnProcessingError.
type ErrorKind int

const (
	// RsCorrectionFailed means the RS(15,9) decoder could not locate and
	// resolve the message window's symbol errors.
	RsCorrectionFailed ErrorKind = iota
	// CrcCorrectionFailed means the CRC-8 check over bytes 3..7 failed
	// both before and after the SK1 candidate flip.
	CrcCorrectionFailed
)

func (k ErrorKind) String() string {
	switch k {
	case RsCorrectionFailed:
		return "RsCorrectionFailed"
	case CrcCorrectionFailed:
		return "CrcCorrectionFailed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Stats accumulates counters a caller can poll; the core never logs on its
// own, so these are the only built-in visibility into decoder behavior.
type Stats struct {
	SamplesProcessed uint64
	FalseDetections  uint64
	RsFailures       uint64
	CrcFailures      uint64
	FramesDecoded    uint64
}

// Decoder runs the full eCzasPL pipeline over a one-sample-at-a-time
// stream. A Decoder is single-threaded: PushSample must not be called
// concurrently from multiple goroutines.
type Decoder struct {
	cfg Config

	buf *buffer.SampleBuffer
	rs  *rs.Codec
	crc crc8.CRC

	awaitingSync bool
	stats        Stats

	// OnRawFrame, OnRsFrame, OnCrcFrame, OnTimeData, and OnProcessingError
	// are optional callbacks. Callbacks for one frame fire in the order
	// raw, RS-processed, CRC-processed, time-message; callbacks triggered
	// by an earlier sample always complete before any callback for a
	// later one begins.
	OnRawFrame        func(f frame.Bytes, firstSampleAbsIndex uint32)
	OnRsFrame         func(f frame.Bytes, firstSampleAbsIndex uint32)
	OnCrcFrame        func(f frame.Bytes, firstSampleAbsIndex uint32)
	OnTimeData        func(t frame.TimeData, firstSampleAbsIndex uint32)
	OnProcessingError func(kind ErrorKind)
}

// New constructs a Decoder. It owns its own sample buffer, RS codec, and
// CRC engine; nothing is shared with other Decoder instances.
func New(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		cfg:          cfg,
		buf:          buffer.New(cfg.BufferLen),
		rs:           frame.NewRSCodec(),
		crc:          frame.NewCRC8(),
		awaitingSync: true,
	}, nil
}

// Stats returns a snapshot of the decoder's running counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// PushSample ingests one sample and drives the pipeline one step forward,
// reporting whether the sample buffer is now full (ingest has outrun
// drain; the caller decides whether to drop samples).
func (d *Decoder) PushSample(value int16) bool {
	d.buf.PushSample(value)
	d.stats.SamplesProcessed++

	d.computeSyncMatch()

	if d.awaitingSync {
		if d.lookupFrameStart() {
			d.awaitingSync = false
		}
	}

	if !d.awaitingSync {
		frameSamples := frame.Length * 8 * d.cfg.SamplesPerBit
		if d.buf.MeaningfulStart()+frameSamples-1 <= d.buf.Len()-1 {
			d.processFrame()
		}
	}

	return d.buf.Full()
}

// computeSyncMatch evaluates, for the single newly-eligible position
// (L-1-15*SPB), whether the last 16 bit-slots match the sync word: the
// most recent sample must be positive (SYNC's LSB is 1), and each of the
// 16 samples spaced SPB apart must be out of the noise band with a sign
// matching the corresponding sync bit.
func (d *Decoder) computeSyncMatch() {
	spb := d.cfg.SamplesPerBit
	end := d.buf.Len() - 1
	idx := end - 15*spb
	if idx < 0 {
		return
	}

	h := d.cfg.NoiseHalfWidth
	match := d.buf.At(end) > 0
	for k := 0; match && k <= 15; k++ {
		v := d.buf.At(end - k*spb)
		wantBit := (frame.Sync>>uint(k))&1 != 0

		switch {
		case v > h:
			match = wantBit
		case v < -h:
			match = !wantBit
		default:
			match = false
		}
	}

	d.buf.SetMatch(idx, match)
}

// lookupFrameStart scans the match-flag array for the first hit at or
// after meaningfulStart, validates it by differentially decoding the
// first two bytes against the sync word, and reports whether a validated
// frame start was found. It mutates meaningfulStart in every case, per
// the frame-detection contract.
func (d *Decoder) lookupFrameStart() bool {
	spb := d.cfg.SamplesPerBit
	limit := d.buf.Len() - 15*spb

	for i := d.buf.MeaningfulStart(); i < limit; i++ {
		if !d.buf.Match(i) {
			continue
		}

		d.buf.SetMeaningfulStart(i)

		b0, next, bit, ok := readByte(d.buf, i, spb, d.cfg.NoiseHalfWidth, true)
		if !ok {
			return false
		}
		b1, _, _, ok := readByte(d.buf, next, spb, d.cfg.NoiseHalfWidth, bit)
		if !ok {
			return false
		}

		if b0 == 0x55 && b1 == 0x55 {
			return true
		}

		d.buf.AdvanceMeaningfulStart(spb)
		return false
	}

	d.buf.SetMeaningfulStart(limit)
	return false
}

// readByte differentially decodes one byte starting at sample index
// start, spaced spb apart, chaining from runningBit. It reports false if
// the read would run past the buffer.
func readByte(buf *buffer.SampleBuffer, start, spb int, h int16, runningBit bool) (value byte, next int, nextBit bool, ok bool) {
	if start+7*spb > buf.Len()-1 {
		return 0, 0, false, false
	}

	bit := runningBit
	for b := 0; b < 8; b++ {
		v := buf.At(start + b*spb)
		if v > h || v < -h {
			bit = !bit
		}
		value <<= 1
		if bit {
			value |= 1
		}
	}

	return value, start + 8*spb, bit, true
}

// processFrame extracts the 12 bytes starting at meaningfulStart and runs
// them through validation, RS correction, CRC repair, descrambling, and
// field extraction, firing callbacks as each stage succeeds and advancing
// meaningfulStart to resume scanning.
func (d *Decoder) processFrame() {
	spb := d.cfg.SamplesPerBit
	start := d.buf.MeaningfulStart()
	firstSampleAbsIndex := d.buf.AbsIndex(start)

	var raw frame.Bytes
	bit := true
	for i := 0; i < frame.Length; i++ {
		b, next, nb, ok := readByte(d.buf, start, spb, d.cfg.NoiseHalfWidth, bit)
		if !ok {
			// Not enough buffered samples despite the caller's guard;
			// wait for more without consuming anything.
			return
		}
		raw[i] = b
		start = next
		bit = nb
	}

	frameSamples := frame.Length * 8 * spb

	if !frame.ValidateStatic(raw) {
		d.stats.FalseDetections++
		d.buf.AdvanceMeaningfulStart(1)
		d.awaitingSync = true
		return
	}

	if d.OnRawFrame != nil {
		d.OnRawFrame(raw, firstSampleAbsIndex)
	}

	codeword := frame.Codeword(raw)
	corrected, err := d.rs.Decode(codeword)
	if err != nil {
		d.stats.RsFailures++
		if d.OnProcessingError != nil {
			d.OnProcessingError(RsCorrectionFailed)
		}
		d.buf.AdvanceMeaningfulStart(frameSamples)
		d.awaitingSync = true
		return
	}

	rsFrame := raw
	frame.ApplyCodeword(&rsFrame, corrected)
	if d.OnRsFrame != nil {
		d.OnRsFrame(rsFrame, firstSampleAbsIndex)
	}

	crcFrame := rsFrame
	if err := frame.CorrectSK1WithCRC(&crcFrame, d.crc); err != nil {
		d.stats.CrcFailures++
		if d.OnProcessingError != nil {
			d.OnProcessingError(CrcCorrectionFailed)
		}
		d.buf.AdvanceMeaningfulStart(frameSamples)
		d.awaitingSync = true
		return
	}
	if d.OnCrcFrame != nil {
		d.OnCrcFrame(crcFrame, firstSampleAbsIndex)
	}

	descrambled := crcFrame
	frame.Descramble(&descrambled)
	td := frame.ExtractFields(descrambled)

	d.stats.FramesDecoded++
	if d.OnTimeData != nil {
		d.OnTimeData(td, firstSampleAbsIndex)
	}

	d.buf.AdvanceMeaningfulStart(frameSamples)
	d.awaitingSync = true
}
