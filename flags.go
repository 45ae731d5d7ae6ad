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

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sp6hfe/e-CzasPL/csv"
)

var samplesPerBit = flag.Int("samplesperbit", 10, "oversampling factor: raw samples per bit period")

var noiseHalfWidth = flag.Int("noisehalfwidth", 15000, "half-width of the idle/quiet band around zero")

var bufferLen = flag.Int("bufferlen", 1024, "sliding sample window length")

var format = flag.String("format", "plain", "decoded time message output format: plain, csv, json, or xml")

var single = flag.Bool("single", false, "exit after the first decoded time message")

var duration = flag.Duration("duration", 0, "time to run for, 0 for infinite, ex. 1h5m10s")

var encoder Encoder

// RegisterFlags exists for parity with the rest of the flag lifecycle;
// all flags here are already registered via their package-level
// declarations.
func RegisterFlags() {}

// EnvOverride lets any flag be set via an ECZASPL_<NAME> environment
// variable, logging each override it applies.
func EnvOverride() {
	flag.VisitAll(func(f *flag.Flag) {
		envName := "ECZASPL_" + strings.ToUpper(f.Name)
		value := os.Getenv(envName)
		if value == "" {
			return
		}
		if err := flag.Set(f.Name, value); err != nil {
			logrus.WithFields(logrus.Fields{
				"env":   envName,
				"flag":  f.Name,
				"value": value,
			}).WithError(err).Warn("environment override rejected")
			return
		}
		logrus.WithFields(logrus.Fields{
			"env":   envName,
			"flag":  f.Name,
			"value": value,
		}).Info("environment override applied")
	})
}

// HandleFlags validates flag values and selects the output encoder.
func HandleFlags() error {
	if *samplesPerBit <= 0 {
		return errors.Errorf("samplesperbit must be positive, got %d", *samplesPerBit)
	}
	if *noiseHalfWidth <= 0 {
		return errors.Errorf("noisehalfwidth must be positive, got %d", *noiseHalfWidth)
	}

	switch strings.ToLower(*format) {
	case "plain":
		encoder = PlainEncoder{}
	case "csv":
		encoder = csv.NewEncoder(os.Stdout)
	case "json":
		encoder = json.NewEncoder(os.Stdout)
	case "xml":
		encoder = xml.NewEncoder(os.Stdout)
	default:
		return errors.Errorf("unknown output format %q", *format)
	}

	return nil
}
