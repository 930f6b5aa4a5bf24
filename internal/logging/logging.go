// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package logging provides the one global log sink the CLI and REST
// front-ends configure once at startup, backed by zerolog instead of the
// bare fmt.Printf singleton it replaces.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var global = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

// Logger returns the singleton logger. Callers configure it once via
// AlsoToFile/SetVerbose at startup and then use it or pass it to
// kaze.KAZE.SetLogger throughout the process lifetime.
func Logger() *zerolog.Logger {
	return &global
}

// AlsoToFile mirrors all subsequent log output to the named file in
// addition to stdout, matching the teacher's LogAlsoToFile shape.
func AlsoToFile(fileName string) error {
	f, err := os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	var writers io.Writer = zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stdout},
		f,
	)
	global = zerolog.New(writers).With().Timestamp().Logger()
	return nil
}

// SetVerbose toggles debug-level output, used for the pipeline's optional
// evolution-step narration. No per-phase timing is logged.
func SetVerbose(verbose bool) {
	if verbose {
		global = global.Level(zerolog.DebugLevel)
	} else {
		global = global.Level(zerolog.InfoLevel)
	}
}
