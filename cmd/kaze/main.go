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

package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ykwang/kaze/internal/kaze"
	"github.com/ykwang/kaze/internal/logging"
	"github.com/ykwang/kaze/internal/restapi"
)

const version = "0.1.0"

var log = flag.String("log", "%auto", "save log output to `file`. `%auto` replaces suffix of output file with .log")
var out = flag.String("out", "out.csv", "output `file` name, used only to derive the %auto log file name; results are printed to stdout")

var omax = flag.Int64("omax", 4, "number of octaves")
var nsublevels = flag.Int64("nsublevels", 4, "number of sublevels per octave")
var soffset = flag.Float64("soffset", 1.6, "base scale offset")
var sderivatives = flag.Float64("sderivatives", 1.5, "derivative smoothing factor")
var diffusivity = flag.Int64("diffusivity", 1, "nonlinear diffusivity function, 0=PM-G1, 1=PM-G2, 2=Weickert")
var descriptor = flag.Int64("descriptor", 1, "descriptor family, 0=SURF, 1=M-SURF, 2=G-SURF")
var extended = flag.Bool("extended", false, "use 128-dim extended descriptors instead of 64-dim")
var upright = flag.Bool("upright", false, "skip dominant orientation estimation, use upright descriptors")
var dthreshold = flag.Float64("dthreshold", 0.001, "Hessian-determinant detector response threshold")
var kcontrastPercentile = flag.Float64("kcontrastPercentile", 70, "percentile of the gradient histogram used to auto-estimate the contrast factor")
var parallelAOS = flag.Bool("parallelAOS", false, "run the AOS row and column passes in parallel")
var verbose = flag.Bool("verbose", false, "log evolution-step narration at debug level")

func main() {
	logWriter := os.Stdout
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(logWriter, `KAZE feature detector and descriptor
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (detect|describe|serve|version) (img0.png ... imgn.png)

Commands:
  detect   Detect keypoints and print them
  describe Detect keypoints and print keypoints with descriptors
  serve    Run as an HTTP API server
  version  Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *log == "%auto" {
		if *out != "" {
			*log = strings.TrimSuffix(*out, filepath.Ext(*out)) + ".log"
		} else {
			*log = ""
		}
	}
	if *log != "" {
		if err := logging.AlsoToFile(*log); err != nil {
			fmt.Fprintf(logWriter, "Unable to open logfile '%s'\n", *log)
			os.Exit(-1)
		}
	}
	logging.SetVerbose(*verbose)

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	switch args[0] {
	case "serve":
		restapi.Serve()
		return
	case "version":
		fmt.Fprintf(logWriter, "kaze version %s\n", version)
		return
	case "help", "?":
		flag.Usage()
		return
	case "detect", "describe":
	default:
		flag.Usage()
		return
	}

	if len(args) < 2 {
		fmt.Fprintf(logWriter, "Error: no input images given\n")
		os.Exit(-1)
	}

	for _, fileName := range args[1:] {
		if err := processFile(fileName, args[0] == "describe", logWriter); err != nil {
			fmt.Fprintf(logWriter, "Error processing %s: %s\n", fileName, err.Error())
			os.Exit(-1)
		}
	}

	logging.Logger().Info().
		Dur("elapsed", time.Since(start)).
		Msg("kaze run complete")
}

func processFile(fileName string, withDescriptors bool, logWriter *os.File) error {
	img, w, h, err := loadGray32(fileName)
	if err != nil {
		return err
	}

	opt := kaze.DefaultOptions(w, h)
	opt.Omax = int(*omax)
	opt.NSublevels = int(*nsublevels)
	opt.SOffset = float32(*soffset)
	opt.SDerivatives = float32(*sderivatives)
	opt.Diffusivity = kaze.Diffusivity(*diffusivity)
	opt.Descriptor = kaze.DescriptorFamily(*descriptor)
	opt.Extended = *extended
	opt.Upright = *upright
	opt.DThreshold = float32(*dthreshold)
	opt.KContrastPercentile = float32(*kcontrastPercentile)
	opt.ParallelAOS = *parallelAOS
	opt.Verbose = *verbose

	k, err := kaze.New(opt)
	if err != nil {
		return err
	}
	k.SetLogger(*logging.Logger())

	if err := k.BuildScaleSpace(img); err != nil {
		return err
	}
	kpts, err := k.Detect()
	if err != nil {
		return err
	}

	fmt.Fprintf(logWriter, "%s: %d keypoints\n", fileName, len(kpts))

	if !withDescriptors {
		for _, kp := range kpts {
			fmt.Fprintf(logWriter, "%.2f,%.2f,%.4f,%.4f,%.4f\n", kp.X, kp.Y, kp.Size, kp.Response, kp.Angle)
		}
		return nil
	}

	desc, dim, err := k.Describe(kpts)
	if err != nil {
		return err
	}
	for i, kp := range kpts {
		fmt.Fprintf(logWriter, "%.2f,%.2f,%.4f,%.4f,%.4f", kp.X, kp.Y, kp.Size, kp.Response, kp.Angle)
		row := desc[i*dim : (i+1)*dim]
		for _, v := range row {
			fmt.Fprintf(logWriter, ",%.6f", v)
		}
		fmt.Fprintln(logWriter)
	}
	return nil
}

// loadGray32 decodes a PNG or JPEG file and converts it to a flat row-major
// float32 luminance buffer in [0,1], the layout every kaze operation expects.
func loadGray32(fileName string) ([]float32, int, int, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			lum := (0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)) / 65535.0
			out[y*w+x] = lum
		}
	}
	return out, w, h, nil
}
