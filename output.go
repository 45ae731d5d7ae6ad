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

package main

import "fmt"

// Encoder writes a decoded value to the configured output stream. JSON,
// XML, and the csv package's Encoder all implement this, so the chosen
// output format is interchangeable behind one interface.
type Encoder interface {
	Encode(interface{}) error
}

// PlainEncoder prints a human-readable line per decoded time message.
type PlainEncoder struct{}

func (PlainEncoder) Encode(v interface{}) error {
	_, err := fmt.Println(v)
	return err
}
