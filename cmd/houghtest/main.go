// Command houghtest runs line segment detection on a scanned image and
// outputs the segments found.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"segment-tracer/internal/bitmap"
	"segment-tracer/internal/hough"
	"segment-tracer/internal/version"

	_ "golang.org/x/image/tiff"
)

func main() {
	imagePath := flag.String("image", "", "Path to input image (TIFF, PNG, or JPEG)")
	invert := flag.Bool("invert", false, "Foreground is light-on-dark")
	cleanup := flag.Int("cleanup", 1, "Morphological cleanup iterations")
	width := flag.Int("width", 3, "Scan channel width (odd)")
	maxGap := flag.Int("maxgap", 3, "Maximum gap within a segment")
	minLength := flag.Int("minlen", 10, "Minimum segment length in pixels")
	maxTheta := flag.Int("theta", 3600, "Angular resolution (parts per semiturn, even)")
	fuseGap := flag.Int("fusegap", 3, "Postprocess fusion gap limit (0 disables)")
	fuseAngle := flag.Int("fuseangle", 80, "Postprocess fusion angle tolerance in theta parts")
	seed := flag.Uint("seed", 1, "Random seed for pixel sampling")
	verbose := flag.Bool("v", false, "Log detection progress")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: houghtest -image <path> [-width 3] [-maxgap 3] [-minlen 10] [-seed 1]")
		os.Exit(1)
	}

	fmt.Println(version.String())

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	state, err := bitmap.LoadState(img, bitmap.Options{
		CleanupIterations: *cleanup,
		Invert:            *invert,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build state: %v\n", err)
		os.Exit(1)
	}

	opts := hough.DefaultOptions().
		WithMaxTheta(*maxTheta).
		WithChannel(*width, *maxGap).
		WithMinLength(*minLength).
		WithFusion(*fuseGap, *fuseAngle)
	if *verbose {
		opts = opts.WithLogger(log.New(os.Stderr, "hough: ", 0))
	}

	fmt.Printf("\nDetection parameters:\n")
	fmt.Printf("  Channel: width %d, max gap %d\n", opts.ChannelWidth, opts.MaxGap)
	fmt.Printf("  Min length: %d px\n", opts.MinLength)
	fmt.Printf("  Resolution: %d parts per semiturn\n", opts.MaxTheta)
	fmt.Printf("  Fusion: gap %d px, tolerance %d parts\n", opts.GapLimit, opts.AngleTolerance)

	fmt.Printf("\nDetecting segments...\n")
	segments, err := hough.FindSegments(state, opts, uint32(*seed))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nDetected %d segments:\n", len(segments))
	fmt.Printf("%-6s %6s %6s %6s %6s %10s\n", "ID", "X1", "Y1", "X2", "Y2", "Length")
	for i, s := range segments {
		fmt.Printf("%-6d %6d %6d %6d %6d %10.1f\n",
			i+1, s.A.X, s.A.Y, s.B.X, s.B.Y, s.Length())
	}
}
