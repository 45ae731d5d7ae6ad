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

// Package frame implements the eCzasPL 12-byte TimeFrame wire layout: the
// differential-decoded byte-level framing produced by the decode pipeline,
// the Reed-Solomon symbol (de)interleaving of its non-byte-aligned message
// window, CRC-8/SK1 repair, descrambling, and the TimeData field layout.
//
// This is this module's analogue of the teacher's netidm.NewNetIDM/scm.go
// byte-to-struct unpackers, generalized to a protocol whose message bits
// don't line up on byte boundaries.
package frame

import (
	"fmt"

	"github.com/sp6hfe/e-CzasPL/crc8"
	"github.com/sp6hfe/e-CzasPL/rs"
)

// On-wire constants, verbatim from the protocol definition.
const (
	Sync                  = 0x5555
	StartOfFrameMarker    = 0x60
	MessagePrefix         = 0b101
	CRCPoly          byte = 0x07
	CRCInit          byte = 0x00
	EpochOffsetSeconds    = 946684800
	TimeResolutionSeconds = 3

	Length = 12
)

// ScramblingKey is XORed with bytes 3..7 of a frame; the operation is its
// own inverse.
var ScramblingKey = [5]byte{0x0A, 0x47, 0x55, 0x4D, 0x2B}

// Bytes is a raw 12-byte TimeFrame as produced by the frame extractor,
// before or after RS correction, CRC repair, and descrambling depending
// on which pipeline stage holds it.
type Bytes [Length]byte

// NewCRC8 returns the CRC-8 engine this protocol checks frame bytes 3..7
// against, at the on-wire polynomial and initial value.
func NewCRC8() crc8.CRC {
	return crc8.NewCRC8("eCzasPL", CRCInit, CRCPoly)
}

// NewRSCodec returns the RS(15,9) codec over GF(2^4) this protocol corrects
// its message window with.
func NewRSCodec() *rs.Codec {
	c, err := rs.NewCodec(4, 3)
	if err != nil {
		// m=4, t=3 is a fixed, always-valid parameterization; a failure
		// here means the rs package itself is broken.
		panic(err)
	}
	return c
}

// TransmitterState encodes the two-bit SK0/SK1 transmitter status code.
type TransmitterState uint8

const (
	Normal TransmitterState = iota
	Maint1Week
	Maint1Day
	MaintOver1Week
)

func (s TransmitterState) String() string {
	switch s {
	case Normal:
		return "Normal"
	case Maint1Week:
		return "Maint1Week"
	case Maint1Day:
		return "Maint1Day"
	case MaintOver1Week:
		return "MaintOver1Week"
	default:
		return fmt.Sprintf("TransmitterState(%d)", uint8(s))
	}
}

// skToState and stateToSK implement the {SK0,SK1} <-> TransmitterState
// mapping of spec section 3: {0:Normal, 1:Maint1Week, 2:Maint1Day,
// 3:MaintOver1Week}.
var skToState = [4]TransmitterState{Normal, Maint1Week, Maint1Day, MaintOver1Week}

func stateToSK(s TransmitterState) byte {
	for sk, st := range skToState {
		if st == s {
			return byte(sk)
		}
	}
	return 0
}

// tzHours implements the TZ <-> offset-in-hours mapping of spec section 3:
// {0:+0, 1:+2, 2:+1, 3:+3}.
var tzHours = [4]int{0, 2, 1, 3}

func hoursToTZ(hours int) byte {
	for tz, h := range tzHours {
		if h == hours {
			return byte(tz)
		}
	}
	return 0
}

// TimeData is the fully decoded content of a TimeFrame.
type TimeData struct {
	UTCSecondsSince2000     uint64
	UnixSeconds             uint64
	OffsetHours             int
	TimeZoneChangeAnnounced bool
	LeapSecondAnnounced     bool
	LeapSecondPositive      bool
	TransmitterState        TransmitterState
}

func (d TimeData) String() string {
	return fmt.Sprintf(
		"{UnixSeconds:%d Offset:+%dh TZC:%v LS:%v LSS:%v State:%s}",
		d.UnixSeconds, d.OffsetHours, d.TimeZoneChangeAnnounced,
		d.LeapSecondAnnounced, d.LeapSecondPositive, d.TransmitterState,
	)
}

// Record implements csv.Recorder.
func (d TimeData) Record() []string {
	return []string{
		fmt.Sprintf("%d", d.UnixSeconds),
		fmt.Sprintf("%d", d.UTCSecondsSince2000),
		fmt.Sprintf("%d", d.OffsetHours),
		fmt.Sprintf("%v", d.TimeZoneChangeAnnounced),
		fmt.Sprintf("%v", d.LeapSecondAnnounced),
		fmt.Sprintf("%v", d.LeapSecondPositive),
		d.TransmitterState.String(),
	}
}

// ValidateStatic checks the fields of a TimeFrame that must hold regardless
// of message content: the sync word, start-of-frame marker, and message
// prefix.
func ValidateStatic(b Bytes) bool {
	if b[0] != 0x55 || b[1] != 0x55 {
		return false
	}
	if b[2] != StartOfFrameMarker {
		return false
	}
	if b[3]>>5 != MessagePrefix {
		return false
	}
	return true
}

// ExtractDataSymbols reads the 9 systematic RS symbols packed across the
// non-byte-aligned message window of bytes 3..7, per the canonical mapping
// of spec section 4.6.
func ExtractDataSymbols(b Bytes) (symbols [9]byte) {
	var pending byte
	i := 0
	for bi := 3; bi <= 7; bi++ {
		if bi > 3 {
			symbols[i] = pending | ((b[bi] >> 5) & 0x7)
			i++
		}
		symbols[i] = (b[bi] >> 1) & 0x0F
		i++
		if bi < 7 {
			pending = (b[bi] & 1) << 3
		}
	}
	return
}

// RepackDataSymbols writes 9 (possibly RS-corrected) data symbols back into
// bytes 3..7, preserving the static message-prefix bits of byte 3 and the
// SK1 bit of byte 7, which RS never covers.
func RepackDataSymbols(b *Bytes, symbols [9]byte) {
	i := 0
	for bi := 3; bi <= 7; bi++ {
		if bi > 3 {
			b[bi] = (b[bi] &^ 0xE0) | ((symbols[i] & 0x7) << 5)
			i++
		}
		b[bi] = (b[bi] &^ 0x1E) | ((symbols[i] & 0xF) << 1)
		i++
		if bi < 7 {
			b[bi] = (b[bi] &^ 0x01) | ((symbols[i] >> 3) & 1)
		}
	}
}

// ExtractParitySymbols reads the 6 RS parity symbols from bytes 8..10, two
// 4-bit symbols per byte, high nibble first.
func ExtractParitySymbols(b Bytes) (symbols [6]byte) {
	symbols[0] = b[8] >> 4
	symbols[1] = b[8] & 0x0F
	symbols[2] = b[9] >> 4
	symbols[3] = b[9] & 0x0F
	symbols[4] = b[10] >> 4
	symbols[5] = b[10] & 0x0F
	return
}

// RepackParitySymbols writes 6 RS parity symbols into bytes 8..10.
func RepackParitySymbols(b *Bytes, symbols [6]byte) {
	b[8] = (symbols[0] << 4) | (symbols[1] & 0x0F)
	b[9] = (symbols[2] << 4) | (symbols[3] & 0x0F)
	b[10] = (symbols[4] << 4) | (symbols[5] & 0x0F)
}

// Codeword builds the 15-symbol RS codeword (9 data symbols followed by 6
// parity symbols) from a frame's bytes.
func Codeword(b Bytes) []byte {
	data := ExtractDataSymbols(b)
	parity := ExtractParitySymbols(b)

	codeword := make([]byte, 15)
	copy(codeword[:9], data[:])
	copy(codeword[9:], parity[:])
	return codeword
}

// ApplyCodeword writes a 15-symbol RS codeword back into a frame's bytes.
func ApplyCodeword(b *Bytes, codeword []byte) {
	var data [9]byte
	var parity [6]byte
	copy(data[:], codeword[:9])
	copy(parity[:], codeword[9:])

	RepackDataSymbols(b, data)
	RepackParitySymbols(b, parity)
}

// ErrCRCUnrecoverable is returned by CorrectSK1WithCRC when CRC remains
// invalid both before and after speculatively flipping SK1.
type ErrCRCUnrecoverable struct{}

func (ErrCRCUnrecoverable) Error() string {
	return "frame: crc check failed after sk1 candidate flip"
}

// CorrectSK1WithCRC checks the CRC-8 of bytes 3..7 against byte 11.
// If it doesn't match, it speculatively flips the SK1 bit (byte 7, bit 0)
// -- the one message bit RS doesn't cover -- and rechecks; a match there
// means SK1 was the single-bit error and the flipped value is kept. If
// neither matches, SK1 is restored and ErrCRCUnrecoverable is returned.
func CorrectSK1WithCRC(b *Bytes, crc crc8.CRC) error {
	if crc.Checksum(b[3:8]) == b[11] {
		return nil
	}

	b[7] ^= 0x01
	if crc.Checksum(b[3:8]) == b[11] {
		return nil
	}

	b[7] ^= 0x01
	return ErrCRCUnrecoverable{}
}

// Descramble XORs bytes 3..7 with the fixed scrambling key. The operation
// is its own inverse, so the same function whitens on encode.
func Descramble(b *Bytes) {
	for i, k := range ScramblingKey {
		b[3+i] ^= k
	}
}

// ExtractFields decodes the descrambled, RS/CRC-clean bytes 3..7 of a frame
// into a TimeData value. T is the low 5 bits of byte 3, bytes 4..6, and the
// MSB of byte 7 concatenated MSB-first (30 bits).
func ExtractFields(b Bytes) TimeData {
	low5 := b[3] & 0x1F
	mid24 := uint32(b[4])<<16 | uint32(b[5])<<8 | uint32(b[6])
	bit5 := (b[7] >> 7) & 1

	t := uint64(low5)<<25 | uint64(mid24)<<1 | uint64(bit5)

	tz := (b[7] >> 5) & 0x3
	lsAnnounce := (b[7]>>4)&1 != 0
	lssSign := (b[7]>>3)&1 != 0
	tzc := (b[7]>>2)&1 != 0
	sk0 := (b[7] >> 1) & 1
	sk1 := b[7] & 1
	sk := (sk0 << 1) | sk1

	utc := t * TimeResolutionSeconds

	return TimeData{
		UTCSecondsSince2000:     utc,
		UnixSeconds:             utc + EpochOffsetSeconds,
		OffsetHours:             tzHours[tz],
		TimeZoneChangeAnnounced: tzc,
		LeapSecondAnnounced:     lsAnnounce,
		LeapSecondPositive:      lssSign,
		TransmitterState:        skToState[sk],
	}
}

// PackFields writes a TimeData's fields into the message window of bytes
// 3..7 (pre-scrambling), setting the static sync/SOF/prefix bytes as well.
// Only the low 30 bits of T are carried on the wire; encoding a
// UTCSecondsSince2000 whose underlying T has higher bits set silently
// truncates them.
func PackFields(d TimeData) Bytes {
	var b Bytes

	b[0], b[1] = 0x55, 0x55
	b[2] = StartOfFrameMarker

	t := d.UTCSecondsSince2000 / TimeResolutionSeconds

	low5 := byte((t >> 25) & 0x1F)
	mid24 := uint32((t >> 1) & 0xFFFFFF)
	bit5 := byte(t & 0x1)

	b[3] = (MessagePrefix << 5) | low5
	b[4] = byte(mid24 >> 16)
	b[5] = byte(mid24 >> 8)
	b[6] = byte(mid24)

	tz := hoursToTZ(d.OffsetHours)
	var ls, lss, tzc byte
	if d.LeapSecondAnnounced {
		ls = 1
	}
	if d.LeapSecondPositive {
		lss = 1
	}
	if d.TimeZoneChangeAnnounced {
		tzc = 1
	}
	sk := stateToSK(d.TransmitterState)

	b[7] = (bit5 << 7) | (tz << 5) | (ls << 4) | (lss << 3) | (tzc << 2) | sk

	return b
}
