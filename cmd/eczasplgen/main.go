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

// Command eczasplgen synthesizes sample-domain eCzasPL fixtures for
// exercising the decoder without a live receiver, the way the teacher's
// gen package backs its own decoder tests with synthetic packets.
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"log"
	"math/big"
	"os"

	"github.com/sp6hfe/e-CzasPL/frame"
)

var count = flag.Int("count", 1, "number of frames to synthesize")
var samplesPerBit = flag.Int("samplesperbit", 10, "oversampling factor")
var amplitude = flag.Int("amplitude", 20000, "transition sample amplitude")
var gapSamples = flag.Int("gap", 200, "idle samples inserted between frames")
var leadSamples = flag.Int("lead", 50, "idle samples before the first frame")

func randUint64(bits uint) uint64 {
	max := new(big.Int).Lsh(big.NewInt(1), bits)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		log.Fatalf("reading randomness: %v", err)
	}
	return n.Uint64()
}

func randomTimeData() frame.TimeData {
	t := randUint64(30) // stays within the 30 bits the wire actually carries
	states := []frame.TransmitterState{frame.Normal, frame.Maint1Week, frame.Maint1Day, frame.MaintOver1Week}
	hours := []int{0, 1, 2, 3}

	return frame.TimeData{
		UTCSecondsSince2000:     t * frame.TimeResolutionSeconds,
		OffsetHours:             hours[randUint64(2)],
		TimeZoneChangeAnnounced: randUint64(1) == 1,
		LeapSecondAnnounced:     randUint64(1) == 1,
		LeapSecondPositive:      randUint64(1) == 1,
		TransmitterState:        states[randUint64(2)],
	}
}

func main() {
	flag.Parse()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	writeIdle := func(n int) {
		for i := 0; i < n; i++ {
			binary.Write(w, binary.LittleEndian, int16(0))
		}
	}

	writeIdle(*leadSamples)
	for i := 0; i < *count; i++ {
		b := frame.Encode(randomTimeData())
		samples := frame.EncodeFrameSamples(b, *samplesPerBit, int16(*amplitude))
		for _, s := range samples {
			if err := binary.Write(w, binary.LittleEndian, s); err != nil {
				log.Fatalf("writing sample: %v", err)
			}
		}
		writeIdle(*gapSamples)
	}
}
