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

package gf

import "testing"

// Field parameters for GF(2^4) with the primitive polynomial
// p(x) = x^4+x+1 (0b10011) and generator 2, the field RS(15,9) is built on.
const (
	testM     = 4
	testPoly  = 0b10011
	testAlpha = 2
)

func TestExpLogRoundTrip(t *testing.T) {
	f := NewField(testM, testPoly, testAlpha)

	for x := 1; x < f.N()+1; x++ {
		e := f.Log(byte(x))
		if got := f.Exp(e); got != byte(x) {
			t.Fatalf("Exp(Log(%d)) = %d, want %d", x, got, x)
		}
	}
}

func TestLogZeroSentinel(t *testing.T) {
	f := NewField(testM, testPoly, testAlpha)
	if got := f.Log(0); got != -1 {
		t.Fatalf("Log(0) = %d, want -1", got)
	}
}

func TestMulInverse(t *testing.T) {
	f := NewField(testM, testPoly, testAlpha)

	for x := 1; x < f.N()+1; x++ {
		inv := f.Inv(byte(x))
		if got := f.Mul(byte(x), inv); got != 1 {
			t.Fatalf("%d * Inv(%d)=%d = %d, want 1", x, x, inv, got)
		}
	}
}

func TestMulByZero(t *testing.T) {
	f := NewField(testM, testPoly, testAlpha)
	for x := 0; x < f.N()+1; x++ {
		if got := f.Mul(byte(x), 0); got != 0 {
			t.Fatalf("%d*0 = %d, want 0", x, got)
		}
	}
}

func TestAddIsXor(t *testing.T) {
	f := NewField(testM, testPoly, testAlpha)
	for x := byte(0); x < 16; x++ {
		for y := byte(0); y < 16; y++ {
			if got := f.Add(x, y); got != x^y {
				t.Fatalf("Add(%d,%d) = %d, want %d", x, y, got, x^y)
			}
		}
	}
}

func TestEvalPolyConstant(t *testing.T) {
	f := NewField(testM, testPoly, testAlpha)
	if got := f.EvalPoly([]byte{5}, 9); got != 5 {
		t.Fatalf("EvalPoly(const 5) = %d, want 5", got)
	}
}
