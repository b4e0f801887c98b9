// Command gentools writes generated depth maps and textures, and applies
// level adjustments to existing depth maps.
//
//	gentools sinus -width 800 -height 600 -alpha 0 -out ripple.png
//	gentools box -cutoff 300 -out floor.png
//	gentools dots -colour -seed 7 -out dots.png
//	gentools levels -in depth.png -gamma 1.5 -out adjusted.png
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"stereogrammer/internal/depthmap"
	"stereogrammer/internal/imageio"
	"stereogrammer/internal/texture"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "sinus":
		err = runSinus(args)
	case "box":
		err = runBox(args)
	case "dots":
		err = runDots(args)
	case "levels":
		err = runLevels(args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gentools <sinus|box|dots|levels> [flags]")
}

func save(path string, img image.Image) error {
	if err := imageio.Save(path, img, 0); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d)\n", path, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

func runSinus(args []string) error {
	fs := flag.NewFlagSet("sinus", flag.ExitOnError)
	w := fs.Int("width", 800, "Width")
	h := fs.Int("height", 600, "Height")
	alpha := fs.Float64("alpha", 0, "Phase offset")
	out := fs.String("out", "sinus.png", "Output file")
	fs.Parse(args)
	return save(*out, depthmap.Sinus(*w, *h, *alpha))
}

func runBox(args []string) error {
	fs := flag.NewFlagSet("box", flag.ExitOnError)
	w := fs.Int("width", 800, "Width")
	h := fs.Int("height", 600, "Height")
	cutoff := fs.Int("cutoff", 300, "Row where the floor starts")
	out := fs.String("out", "box.png", "Output file")
	fs.Parse(args)
	return save(*out, depthmap.Box(*w, *h, *cutoff))
}

func runDots(args []string) error {
	fs := flag.NewFlagSet("dots", flag.ExitOnError)
	w := fs.Int("width", 128, "Width")
	h := fs.Int("height", 128, "Height")
	colour := fs.Bool("colour", false, "Random colours instead of grey levels")
	seed := fs.Uint64("seed", 1, "Random seed")
	out := fs.String("out", "dots.png", "Output file")
	fs.Parse(args)

	if *colour {
		return save(*out, texture.ColourDots(*w, *h, *seed))
	}
	return save(*out, texture.GreyDots(*w, *h, *seed))
}

func runLevels(args []string) error {
	def := depthmap.DefaultLevels()
	fs := flag.NewFlagSet("levels", flag.ExitOnError)
	in := fs.String("in", "", "Input depth map (required)")
	out := fs.String("out", "levels.png", "Output file")
	blackIn := fs.Float64("black-in", def.BlackIn, "Input black point 0..1")
	whiteIn := fs.Float64("white-in", def.WhiteIn, "Input white point 0..1")
	blackOut := fs.Float64("black-out", def.BlackOut, "Output black point 0..1")
	whiteOut := fs.Float64("white-out", def.WhiteOut, "Output white point 0..1")
	gamma := fs.Float64("gamma", def.Gamma, "Gamma")
	hardBlack := fs.Bool("hard-black", def.HardBlack, "Keep input black at output 0")
	invert := fs.Bool("invert", false, "Invert after adjusting")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("levels: -in is required")
	}
	src, err := imageio.Load(*in)
	if err != nil {
		return err
	}

	dm := depthmap.AdjustLevels(depthmap.FromImage(src), depthmap.Levels{
		BlackIn:   *blackIn,
		WhiteIn:   *whiteIn,
		BlackOut:  *blackOut,
		WhiteOut:  *whiteOut,
		Gamma:     *gamma,
		HardBlack: *hardBlack,
	})
	if *invert {
		dm = depthmap.Invert(dm)
	}
	return save(*out, dm)
}
