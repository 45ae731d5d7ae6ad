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

// Package crc8 implements a table-driven CRC-8 engine, the 8-bit analogue
// of the 16-bit table builder in the teacher codebase's crc package.
package crc8

import "fmt"

// CRC holds a named CRC-8 configuration and its precomputed table.
type CRC struct {
	Name string
	Init byte
	Poly byte

	tbl Table
}

// NewCRC8 returns a CRC-8 configuration for the given polynomial and
// initial register value.
func NewCRC8(name string, init, poly byte) CRC {
	return CRC{
		Name: name,
		Init: init,
		Poly: poly,
		tbl:  NewTable(poly),
	}
}

func (c CRC) String() string {
	return fmt.Sprintf("{Name:%s Init:0x%02X Poly:0x%02X}", c.Name, c.Init, c.Poly)
}

// Checksum computes the CRC-8 of data under this configuration.
func (c CRC) Checksum(data []byte) byte {
	return Checksum(c.Init, data, c.tbl)
}

// Table is a precomputed CRC-8 reduction table.
type Table [256]byte

// NewTable builds the reduction table for poly, the non-reflected,
// MSB-first CRC-8 convention: for each candidate register value, shift
// left 8 times, XORing in poly whenever the high bit is set before the
// shift.
func NewTable(poly byte) (table Table) {
	for tIdx := range table {
		crc := byte(tIdx)
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc = crc << 1
			}
		}
		table[tIdx] = crc
	}
	return table
}

// Checksum runs data through the table starting from init.
func Checksum(init byte, data []byte, table Table) (crc byte) {
	crc = init
	for _, v := range data {
		crc = table[crc^v]
	}
	return
}
