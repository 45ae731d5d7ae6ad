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

// Package rs implements a systematic Reed-Solomon encoder/decoder over
// GF(2^m), parameterized by the number of correctable symbol errors t.
// It is used at the fixed parameters RS(15,9) over GF(2^4), t=3, required
// by the eCzasPL frame format, but the codec itself stays general the way
// the field arithmetic it sits on does.
package rs

import (
	"errors"

	"github.com/sp6hfe/e-CzasPL/gf"
)

// ErrTooManyErrors is returned by Decode when the received codeword has
// more symbol errors than the code can correct, or when the located error
// positions are inconsistent with the degree of the error-locator
// polynomial.
var ErrTooManyErrors = errors.New("rs: too many errors to correct")

// primitivePoly returns a primitive polynomial for GF(2^m). Only the
// degrees this codebase instantiates are populated; callers needing other
// degrees should extend this table or construct a *gf.Field directly.
func primitivePoly(m int) (int, bool) {
	switch m {
	case 3:
		return 0b1011, true // x^3+x+1
	case 4:
		return 0b10011, true // x^4+x+1
	case 5:
		return 0b100101, true // x^5+x^2+1
	case 6:
		return 0b1000011, true // x^6+x+1
	case 7:
		return 0b10001001, true // x^7+x^3+1
	case 8:
		return 0b100011101, true // x^8+x^4+x^3+x^2+1
	default:
		return 0, false
	}
}

// Codec is a Reed-Solomon encoder/decoder for a fixed (n, k, t).
type Codec struct {
	field *gf.Field

	m int
	t int
	n int // codeword length, 2^m-1
	k int // message length, n-2t

	genPoly []byte // generator polynomial coefficients g_0..g_{2t-1} (g_2t=1 implicit)
}

// NewCodec builds a Reed-Solomon codec over GF(2^m) correcting up to t
// symbol errors, using generator alpha=2 and the field's canonical
// primitive polynomial for m.
func NewCodec(m, t int) (*Codec, error) {
	poly, ok := primitivePoly(m)
	if !ok {
		return nil, errors.New("rs: no primitive polynomial known for field degree")
	}

	field := gf.NewField(m, poly, 2)

	n := field.N()
	twoT := 2 * t
	if twoT >= n {
		return nil, errors.New("rs: t too large for field order")
	}

	c := &Codec{
		field: field,
		m:     m,
		t:     t,
		n:     n,
		k:     n - twoT,
	}
	c.genPoly = buildGenPoly(field, twoT)

	return c, nil
}

// N returns the codeword length in symbols.
func (c *Codec) N() int { return c.n }

// K returns the message length in symbols.
func (c *Codec) K() int { return c.n - 2*c.t }

// T returns the number of correctable symbol errors.
func (c *Codec) T() int { return c.t }

// buildGenPoly computes g(x) = prod_{i=1}^{twoT} (x + alpha^i), returning
// its coefficients g_0..g_{twoT-1} in increasing-power order; the leading
// (monic) coefficient g_twoT=1 is left implicit, matching the classic LFSR
// systematic encoder structure.
func buildGenPoly(f *gf.Field, twoT int) []byte {
	g := make([]byte, twoT+1)
	g[0] = 1

	for i := 1; i <= twoT; i++ {
		root := f.Exp(i)
		next := make([]byte, i+1)
		for j := 0; j <= i; j++ {
			var term byte
			if j > 0 {
				term = f.Add(term, g[j-1])
			}
			if j < i {
				term = f.Add(term, f.Mul(g[j], root))
			}
			next[j] = term
		}
		copy(g, next)
	}

	return g[:twoT]
}

// Encode computes the systematic RS codeword for the given message
// symbols: the first K symbols of the codeword equal data unchanged, the
// remaining 2t symbols are the computed parity.
func (c *Codec) Encode(data []byte) []byte {
	parity := make([]byte, 2*c.t)

	for _, d := range data {
		feedback := c.field.Add(d, parity[len(parity)-1])
		for i := len(parity) - 1; i > 0; i-- {
			parity[i] = c.field.Add(parity[i-1], c.field.Mul(feedback, c.genPoly[i]))
		}
		parity[0] = c.field.Mul(feedback, c.genPoly[0])
	}

	// parity[i] holds the coefficient of x^i, while the codeword is laid
	// out highest power first, so the parity goes in reversed.
	codeword := make([]byte, c.n)
	copy(codeword, data)
	for i, p := range parity {
		codeword[c.n-1-i] = p
	}

	return codeword
}

// Decode attempts to correct up to t symbol errors in codeword and returns
// the corrected codeword. If the syndromes are all zero the codeword is
// returned unmodified (the no-error fast path). Decode fails with
// ErrTooManyErrors when the error-locator polynomial has degree greater
// than t, or when Chien search does not find exactly deg(Lambda) roots.
func (c *Codec) Decode(codeword []byte) ([]byte, error) {
	if len(codeword) != c.n {
		return nil, errors.New("rs: codeword has wrong length")
	}

	syndromes := c.field.Syndrome(codeword, 2*c.t, 1)

	allZero := true
	for _, s := range syndromes {
		if s != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		out := make([]byte, c.n)
		copy(out, codeword)
		return out, nil
	}

	lambda := berlekampMassey(c.field, syndromes)
	errCount := len(lambda) - 1

	if errCount > c.t || errCount <= 0 {
		return nil, ErrTooManyErrors
	}

	positions, values, err := c.correctErrors(syndromes, lambda)
	if err != nil {
		return nil, err
	}
	if len(positions) != errCount {
		return nil, ErrTooManyErrors
	}

	out := make([]byte, c.n)
	copy(out, codeword)
	for idx, pos := range positions {
		arrayIdx := c.n - 1 - pos
		out[arrayIdx] = c.field.Add(out[arrayIdx], values[idx])
	}

	// Defensive re-check: a correctly located-and-valued error set drives
	// the syndromes to zero. If it doesn't, the located roots were spurious.
	verify := c.field.Syndrome(out, 2*c.t, 1)
	for _, s := range verify {
		if s != 0 {
			return nil, ErrTooManyErrors
		}
	}

	return out, nil
}

// berlekampMassey computes the error-locator polynomial Lambda(x) from the
// syndrome sequence, returning its coefficients in increasing-power order
// with Lambda[0] = 1.
func berlekampMassey(f *gf.Field, syndromes []byte) []byte {
	n := len(syndromes)

	C := make([]byte, n+1)
	B := make([]byte, n+1)
	C[0] = 1
	B[0] = 1

	L := 0
	m := 1
	b := byte(1)

	for i := 0; i < n; i++ {
		delta := syndromes[i]
		for j := 1; j <= L; j++ {
			delta = f.Add(delta, f.Mul(C[j], syndromes[i-j]))
		}

		if delta == 0 {
			m++
			continue
		}

		T := make([]byte, len(C))
		copy(T, C)

		coef := f.Div(delta, b)
		for j := 0; j < len(B); j++ {
			if m+j < len(C) {
				C[m+j] = f.Add(C[m+j], f.Mul(coef, B[j]))
			}
		}

		if 2*L <= i {
			L = i + 1 - L
			copy(B, T)
			b = delta
			m = 1
		} else {
			m++
		}
	}

	return C[:L+1]
}

// correctErrors runs Chien search to locate the roots of lambda and the
// Forney algorithm to compute the corresponding error magnitudes.
func (c *Codec) correctErrors(syndromes, lambda []byte) (positions []int, values []byte, err error) {
	lambdaPrime := formalDerivative(c.field, lambda)

	// Omega(x) = (S(x) * Lambda(x)) mod x^(2t)
	omega := polyMul(c.field, syndromes, lambda)
	if len(omega) > 2*c.t {
		omega = omega[:2*c.t]
	}

	for pos := 0; pos < c.n; pos++ {
		xInv := c.field.Exp(-pos)
		if c.field.EvalPoly(lambda, xInv) != 0 {
			continue
		}

		num := c.field.EvalPoly(omega, xInv)
		den := c.field.EvalPoly(lambdaPrime, xInv)
		if den == 0 {
			return nil, nil, ErrTooManyErrors
		}

		positions = append(positions, pos)
		values = append(values, c.field.Div(num, den))
	}

	return positions, values, nil
}

// formalDerivative computes the formal derivative of p (increasing-power
// coefficients) over a field of characteristic 2: terms of even degree
// vanish, terms of odd degree j keep coefficient p[j] at degree j-1.
func formalDerivative(f *gf.Field, p []byte) []byte {
	if len(p) <= 1 {
		return []byte{0}
	}
	d := make([]byte, len(p)-1)
	for j := 1; j < len(p); j++ {
		if j%2 == 1 {
			d[j-1] = p[j]
		}
	}
	return d
}

// polyMul multiplies two polynomials given in increasing-power coefficient
// order.
func polyMul(f *gf.Field, a, b []byte) []byte {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	res := make([]byte, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			res[i+j] = f.Add(res[i+j], f.Mul(av, bv))
		}
	}
	return res
}
