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

package rs

import (
	"math/rand"
	"testing"
)

const (
	Trials = 512
)

func mustCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(4, 3)
	if err != nil {
		t.Fatalf("NewCodec(4,3) failed: %v", err)
	}
	return c
}

func randomData(r *rand.Rand, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(r.Intn(16))
	}
	return data
}

func TestEncodeDecodeNoErrors(t *testing.T) {
	c := mustCodec(t)
	r := rand.New(rand.NewSource(1))

	for trial := 0; trial < Trials; trial++ {
		data := randomData(r, c.K())
		codeword := c.Encode(data)

		decoded, err := c.Decode(codeword)
		if err != nil {
			t.Fatalf("trial %d: Decode failed on clean codeword: %v", trial, err)
		}
		for i, v := range decoded {
			if v != codeword[i] {
				t.Fatalf("trial %d: decoded[%d]=%d, want %d", trial, i, v, codeword[i])
			}
		}
	}
}

func TestDecodeCorrectsUpToTErrors(t *testing.T) {
	c := mustCodec(t)
	r := rand.New(rand.NewSource(2))

	for trial := 0; trial < Trials; trial++ {
		data := randomData(r, c.K())
		codeword := c.Encode(data)

		corrupted := make([]byte, len(codeword))
		copy(corrupted, codeword)

		numErrors := 1 + r.Intn(c.T())
		positions := r.Perm(len(corrupted))[:numErrors]
		for _, pos := range positions {
			var bad byte
			for {
				bad = byte(r.Intn(16))
				if bad != corrupted[pos] {
					break
				}
			}
			corrupted[pos] = bad
		}

		decoded, err := c.Decode(corrupted)
		if err != nil {
			t.Fatalf("trial %d (%d errors): Decode failed: %v", trial, numErrors, err)
		}
		for i, v := range decoded {
			if v != codeword[i] {
				t.Fatalf("trial %d (%d errors): decoded[%d]=%d, want %d", trial, numErrors, i, v, codeword[i])
			}
		}
	}
}

func TestDecodeFailsOnTooManyErrors(t *testing.T) {
	c := mustCodec(t)
	r := rand.New(rand.NewSource(3))

	failures := 0
	for trial := 0; trial < Trials; trial++ {
		data := randomData(r, c.K())
		codeword := c.Encode(data)

		corrupted := make([]byte, len(codeword))
		copy(corrupted, codeword)

		positions := r.Perm(len(corrupted))[:c.T()+1]
		for _, pos := range positions {
			var bad byte
			for {
				bad = byte(r.Intn(16))
				if bad != corrupted[pos] {
					break
				}
			}
			corrupted[pos] = bad
		}

		decoded, err := c.Decode(corrupted)
		if err != nil {
			failures++
			continue
		}
		// Occasionally t+1 errors alias a different valid-looking codeword
		// or a lower-weight error pattern; that is an inherent property of
		// a bounded-distance decoder, not a bug, as long as it doesn't
		// silently return the original message.
		same := true
		for i, v := range decoded {
			if v != codeword[i] {
				same = false
				break
			}
		}
		if same {
			t.Fatalf("trial %d: decoder silently accepted %d errors", trial, c.T()+1)
		}
	}

	if failures == 0 {
		t.Fatal("expected at least some decode failures with t+1 errors")
	}
}

func TestDecodeNoErrorFastPath(t *testing.T) {
	c := mustCodec(t)
	codeword := c.Encode(make([]byte, c.K()))

	decoded, err := c.Decode(codeword)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i, v := range decoded {
		if v != codeword[i] {
			t.Fatalf("decoded[%d]=%d, want %d", i, v, codeword[i])
		}
	}
}

func TestNewCodecRejectsOversizedT(t *testing.T) {
	if _, err := NewCodec(4, 8); err == nil {
		t.Fatal("expected error for t too large for field order")
	}
}
