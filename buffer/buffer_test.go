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

package buffer

import "testing"

func TestPushSampleAppendsAtEnd(t *testing.T) {
	b := New(8)

	for i := int16(0); i < 8; i++ {
		b.PushSample(i)
	}

	for i := 0; i < 8; i++ {
		if got := b.At(i); got != int16(i) {
			t.Fatalf("At(%d) = %d, want %d", i, got, i)
		}
	}
}

func TestPushSampleShiftsWindow(t *testing.T) {
	b := New(4)
	for i := int16(0); i < 4; i++ {
		b.PushSample(i)
	}
	b.PushSample(100)

	want := []int16{1, 2, 3, 100}
	for i, w := range want {
		if got := b.At(i); got != w {
			t.Fatalf("At(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestMeaningfulStartDecrements(t *testing.T) {
	b := New(4)
	if b.MeaningfulStart() != 4 {
		t.Fatalf("initial MeaningfulStart() = %d, want 4", b.MeaningfulStart())
	}

	b.PushSample(1)
	if b.MeaningfulStart() != 3 {
		t.Fatalf("MeaningfulStart() after one push = %d, want 3", b.MeaningfulStart())
	}
}

func TestFullAfterFillingBuffer(t *testing.T) {
	b := New(4)
	var full bool
	for i := 0; i < 4; i++ {
		full = b.PushSample(int16(i))
	}
	if !full {
		t.Fatal("expected Full() after pushing Len() samples")
	}
	if !b.Full() {
		t.Fatal("Full() should report true once meaningfulStart reaches 0")
	}
}

func TestAbsIndexMonotonic(t *testing.T) {
	b := New(4)
	for i := 0; i < 10; i++ {
		b.PushSample(0)
	}
	var prev uint32
	for i := 0; i < b.Len(); i++ {
		if i > 0 && b.AbsIndex(i) != prev+1 {
			t.Fatalf("AbsIndex(%d) = %d, want %d", i, b.AbsIndex(i), prev+1)
		}
		prev = b.AbsIndex(i)
	}
}

func TestSetMatchAndAdvanceMeaningfulStart(t *testing.T) {
	b := New(4)
	b.SetMatch(2, true)
	if !b.Match(2) {
		t.Fatal("Match(2) should be true after SetMatch")
	}

	b.SetMeaningfulStart(1)
	b.AdvanceMeaningfulStart(10)
	if b.MeaningfulStart() != b.Len() {
		t.Fatalf("AdvanceMeaningfulStart should clamp to Len(), got %d", b.MeaningfulStart())
	}
}
