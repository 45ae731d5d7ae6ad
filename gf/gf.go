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

// Package gf implements arithmetic over Galois Fields GF(2^m), generalized
// for any valid field order rather than a single hard-coded size.
package gf

import "strconv"

// A Field represents an instance of GF(order) defined by a specific
// primitive polynomial and generator.
type Field struct {
	order int // order-1, the size of the multiplicative group
	m     int
	log   []int  // log[0] is unused, sentinel value -1
	exp   []byte // length 2*order for wraparound-free indexing
}

// NewField returns a new field of 2^m elements generated by poly (an
// (m+1)-bit primitive polynomial with the x^m term implicit) and
// generator alpha.
func NewField(m int, poly int, alpha int) *Field {
	if m <= 0 || m > 8 {
		panic("gf: invalid field degree: " + strconv.Itoa(m))
	}

	order := 1 << uint(m)

	f := &Field{
		order: order - 1,
		m:     m,
		log:   make([]int, order),
		exp:   make([]byte, (order-1)<<1),
	}

	x := 1
	for i := 0; i < f.order; i++ {
		if x == 1 && i != 0 {
			panic("gf: invalid generator " + strconv.Itoa(alpha) +
				" for polynomial " + strconv.Itoa(poly))
		}
		f.exp[i] = byte(x)
		f.exp[i+f.order] = byte(x)
		f.log[x] = i
		x = mul(x, alpha, order, poly)
	}
	f.log[0] = -1

	return f
}

// M returns the field's degree; the field has 2^M elements.
func (f *Field) M() int {
	return f.m
}

// N returns the size of the field's multiplicative group, 2^M-1.
func (f *Field) N() int {
	return f.order
}

// mul returns the product x*y mod poly, an GF(2^m) multiplication carried
// out as ordinary carryless (xor) polynomial multiplication followed by
// polynomial reduction.
func mul(x, y, order, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&order != 0 {
			y ^= poly
		}
	}
	return z
}

// Add returns the sum of x and y in the field. Addition and subtraction in
// GF(2^m) both reduce to XOR.
func (f *Field) Add(x, y byte) byte {
	return x ^ y
}

// Sub is an alias for Add; subtraction in characteristic 2 is XOR.
func (f *Field) Sub(x, y byte) byte {
	return x ^ y
}

// Exp returns the base-alpha exponential of e in the field, reducing e
// modulo the group order first. Negative exponents are supported.
func (f *Field) Exp(e int) byte {
	e %= f.order
	if e < 0 {
		e += f.order
	}
	return f.exp[e]
}

// Log returns the base-alpha logarithm of x in the field. If x == 0, Log
// returns -1, the field's designated sentinel for the undefined log of
// zero.
func (f *Field) Log(x byte) int {
	return f.log[x]
}

// Inv returns the multiplicative inverse of x in the field. If x == 0, Inv
// returns 0.
func (f *Field) Inv(x byte) byte {
	if x == 0 {
		return 0
	}
	return f.exp[f.order-f.log[x]]
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[f.log[x]+f.log[y]]
}

// Div returns the quotient x/y in the field. Panics if y is zero.
func (f *Field) Div(x, y byte) byte {
	if y == 0 {
		panic("gf: division by zero")
	}
	if x == 0 {
		return 0
	}
	i := f.log[x] - f.log[y]
	if i < 0 {
		i += f.order
	}
	return f.exp[i]
}

// EvalPoly evaluates the polynomial given by coefficients (coeffs[0] is the
// constant term) at x, using Horner's method over the field.
func (f *Field) EvalPoly(coeffs []byte, x byte) byte {
	if len(coeffs) == 0 {
		return 0
	}
	result := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.Add(f.Mul(result, x), coeffs[i])
	}
	return result
}

// Syndrome calculates the Reed-Solomon syndrome for message encoded using
// the field generated for a particular generator-polynomial root offset.
// paritySymbolCount is the number of syndromes to compute (2t), offset is
// the exponent of the first consecutive root (commonly 1).
func (f *Field) Syndrome(message []byte, paritySymbolCount, offset int) (syndrome []byte) {
	if paritySymbolCount < 0 {
		panic("gf: invalid paritySymbolCount: " + strconv.Itoa(paritySymbolCount))
	}

	syndrome = make([]byte, paritySymbolCount)

	// message is in order of decreasing power: message[0] is the
	// highest-order coefficient.
	for idx := range syndrome {
		syndrome[idx] = f.EvalPoly(reversePoly(message), f.Exp(offset+idx))
	}

	return syndrome
}

// reversePoly reverses a coefficient slice so EvalPoly's Horner method,
// which expects increasing-power order, can consume a message given in
// decreasing-power (natural reading) order.
func reversePoly(p []byte) []byte {
	r := make([]byte, len(p))
	for i, v := range p {
		r[len(p)-1-i] = v
	}
	return r
}
