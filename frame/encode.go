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

// Encoding support: builds a complete, wire-ready TimeFrame from a
// TimeData value and renders it to the differentially-encoded sample
// domain the decode package consumes. This supplements spec.md, which
// only specifies the decode direction, the way the teacher ships gen/gen.go
// alongside its decode-only core so fixtures can be synthesized without
// real radio hardware.
package frame

// Encode builds a complete TimeFrame: packs the fields, scrambles bytes
// 3..7, computes RS parity over the scrambled message window (RS runs
// before descrambling on the decode side, so parity must be computed
// after scrambling on the encode side), and appends the CRC-8 over the
// scrambled bytes 3..7.
func Encode(d TimeData) Bytes {
	b := PackFields(d)
	Descramble(&b)

	data := ExtractDataSymbols(b)
	codeword := NewRSCodec().Encode(data[:])

	var parity [6]byte
	copy(parity[:], codeword[9:])
	RepackParitySymbols(&b, parity)

	b[11] = NewCRC8().Checksum(b[3:8])

	return b
}

// Bits returns the 96 bits of b, most-significant-bit first within each
// byte, in frame order.
func Bits(b Bytes) []bool {
	bits := make([]bool, 0, Length*8)
	for _, byt := range b {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (byt>>uint(i))&1 != 0)
		}
	}
	return bits
}

// EncodeSamples renders bits into the differential sample domain the
// decode pipeline's sync correlator and frame extractor expect: one
// decision sample per bit, spaced samplesPerBit apart, preceded by
// initialBit as the assumed prior state. A bit whose value differs from
// the preceding one produces a decision sample of magnitude amplitude
// (sign matching the bit, so that the sync word's direct sign-correlation
// and the payload's differential decoding agree on the same physical
// samples); an unchanged bit produces an idle (zero) decision sample.
// Non-decision samples within a bit's window are left at zero, well
// within the noise band.
func EncodeSamples(bits []bool, initialBit bool, samplesPerBit int, amplitude int16) []int16 {
	out := make([]int16, len(bits)*samplesPerBit)

	prior := initialBit
	for i, bit := range bits {
		if bit != prior {
			if bit {
				out[i*samplesPerBit] = amplitude
			} else {
				out[i*samplesPerBit] = -amplitude
			}
		}
		prior = bit
	}

	return out
}

// EncodeFrameSamples is a convenience wrapper combining Bits and
// EncodeSamples for a full TimeFrame, using the spec's convention that
// the bit preceding a frame's first sync bit is always 1.
func EncodeFrameSamples(b Bytes, samplesPerBit int, amplitude int16) []int16 {
	return EncodeSamples(Bits(b), true, samplesPerBit, amplitude)
}
