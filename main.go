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

// Command e-CzasPL decodes the eCzasPL time-distribution signal from a
// stream of little-endian int16 samples on stdin and prints the decoded
// time messages.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sp6hfe/e-CzasPL/decode"
	"github.com/sp6hfe/e-CzasPL/frame"
)

func main() {
	RegisterFlags()
	flag.Parse()
	EnvOverride()

	if err := HandleFlags(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	cfg := decode.Config{
		SamplesPerBit:  *samplesPerBit,
		NoiseHalfWidth: int16(*noiseHalfWidth),
		BufferLen:      *bufferLen,
	}

	d, err := decode.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to construct decoder")
	}

	logrus.WithFields(logrus.Fields{
		"samplesPerBit":  cfg.SamplesPerBit,
		"noiseHalfWidth": cfg.NoiseHalfWidth,
		"bufferLen":      cfg.BufferLen,
		"format":         *format,
	}).Info("decoder configured")

	done := make(chan struct{})
	wireCallbacks(d, done)

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	if err := run(d, os.Stdin, done, deadline); err != nil {
		logrus.WithError(err).Fatal("decode loop terminated")
	}
}

func wireCallbacks(d *decode.Decoder, done chan<- struct{}) {
	d.OnRawFrame = func(f frame.Bytes, firstSampleAbsIndex uint32) {
		logrus.WithFields(logrus.Fields{
			"stage": "raw",
			"frame": f,
			"index": firstSampleAbsIndex,
		}).Debug("frame detected")
	}

	d.OnRsFrame = func(f frame.Bytes, firstSampleAbsIndex uint32) {
		logrus.WithFields(logrus.Fields{
			"stage": "rs",
			"frame": f,
			"index": firstSampleAbsIndex,
		}).Debug("RS correction applied")
	}

	d.OnCrcFrame = func(f frame.Bytes, firstSampleAbsIndex uint32) {
		logrus.WithFields(logrus.Fields{
			"stage": "crc",
			"frame": f,
			"index": firstSampleAbsIndex,
		}).Debug("CRC repair applied")
	}

	d.OnProcessingError = func(kind decode.ErrorKind) {
		logrus.WithField("kind", kind).Warn("frame processing failed")
	}

	d.OnTimeData = func(t frame.TimeData, firstSampleAbsIndex uint32) {
		if err := encoder.Encode(t); err != nil {
			logrus.WithError(err).Error("failed to encode decoded time message")
		}
		if *single {
			close(done)
		}
	}
}

// run reads little-endian int16 samples from r and feeds them to d until
// EOF, the duration deadline elapses, single-shot mode signals done, or a
// genuine I/O error occurs.
func run(d *decode.Decoder, r io.Reader, done <-chan struct{}, deadline <-chan time.Time) error {
	br := bufio.NewReader(r)

	for {
		select {
		case <-done:
			return nil
		case <-deadline:
			return nil
		default:
		}

		var sample int16
		if err := binary.Read(br, binary.LittleEndian, &sample); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "reading sample stream")
		}

		if d.PushSample(sample) {
			logrus.Warn("sample buffer full: ingest outran drain")
		}
	}
}
