// Package bitmap converts scanned images into the pixel state consumed by
// the line segment detector. Extraction runs outside the detection core:
// the detector only ever sees a populated state map.
package bitmap

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"segment-tracer/internal/hough"
	"segment-tracer/pkg/colorutil"
	"segment-tracer/pkg/geometry"
)

// Options configures foreground extraction.
type Options struct {
	NumClusters       int  // K-means clusters for auto-detection
	ColorTolerance    int  // Tolerance for keyed color detection
	CleanupIterations int  // Morphological cleanup strength
	Invert            bool // Foreground is light-on-dark rather than dark-on-light
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		NumClusters:       4,
		ColorTolerance:    40,
		CleanupIterations: 1,
	}
}

// ExtractInk detects drawn strokes using K-means clustering in LAB color
// space. Scanned line art is dominated by paper; the darkest cluster is
// taken to be the ink.
func ExtractInk(img gocv.Mat, numClusters int) gocv.Mat {
	if img.Empty() {
		return gocv.NewMat()
	}

	// LAB separates luminance from tint, which keeps aged paper and
	// faded ink in distinct clusters.
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(img, &lab, gocv.ColorBGRToLab)

	h, w := lab.Rows(), lab.Cols()
	pixels := gocv.NewMatWithSize(h*w, 3, gocv.MatTypeCV32F)
	defer pixels.Close()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			vec := lab.GetVecbAt(y, x)
			pixels.SetFloatAt(idx, 0, float32(vec[0]))
			pixels.SetFloatAt(idx, 1, float32(vec[1]))
			pixels.SetFloatAt(idx, 2, float32(vec[2]))
		}
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.EPS+gocv.MaxIter, 100, 0.2)
	gocv.KMeans(pixels, numClusters, &labels, criteria, 10, gocv.KMeansRandomCenters, &centers)

	// Ink is dark and close to neutral; penalize strongly tinted
	// clusters so colored annotations do not win.
	inkCluster := 0
	bestScore := -1.0
	for i := 0; i < numClusters; i++ {
		l := float64(centers.GetFloatAt(i, 0))
		a := float64(centers.GetFloatAt(i, 1))
		b := float64(centers.GetFloatAt(i, 2))

		darkness := 1 - l/255.0
		tint := (absFloat(a-128) + absFloat(b-128)) / 256.0

		score := darkness * (1 - tint/2)
		if score > bestScore {
			bestScore = score
			inkCluster = i
		}
	}

	mask := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if labels.GetIntAt(idx, 0) == int32(inkCluster) {
				mask.SetUCharAt(y, x, 255)
			}
		}
	}

	return mask
}

// ExtractByColor selects foreground pixels matching a keyed color, with
// the given tolerance, by thresholding in HSV space.
func ExtractByColor(img gocv.Mat, colorRGB [3]uint8, tolerance int) gocv.Mat {
	if img.Empty() {
		return gocv.NewMat()
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	targetH, targetS, targetV := colorutil.RGBToHSV(
		float64(colorRGB[0]), float64(colorRGB[1]), float64(colorRGB[2]))

	hTol := float64(tolerance) / 4 // hue spans 0-180, the others 0-255
	sTol := float64(tolerance)
	vTol := float64(tolerance)

	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(clamp(targetH-hTol, 0, 179), clamp(targetS-sTol, 0, 255), clamp(targetV-vTol, 0, 255), 0),
		gocv.NewScalar(clamp(targetH+hTol, 0, 179), clamp(targetS+sTol, 0, 255), clamp(targetV+vTol, 0, 255), 0),
		&mask)

	return mask
}

// ExtractThreshold produces a foreground mask by Otsu thresholding the
// grayscale image. Dark pixels are foreground unless invert is set.
func ExtractThreshold(img gocv.Mat, invert bool) gocv.Mat {
	if img.Empty() {
		return gocv.NewMat()
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() > 1 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}

	mode := gocv.ThresholdBinaryInv
	if invert {
		mode = gocv.ThresholdBinary
	}

	mask := gocv.NewMat()
	gocv.Threshold(gray, &mask, 0, 255, mode|gocv.ThresholdOtsu)

	return mask
}

// CleanupMask applies morphological open/close passes to remove scanner
// noise from a foreground mask.
func CleanupMask(mask gocv.Mat, iterations int) gocv.Mat {
	if mask.Empty() {
		return gocv.NewMat()
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()

	cleaned := mask.Clone()

	for i := 0; i < iterations; i++ {
		gocv.MorphologyEx(cleaned, &cleaned, gocv.MorphClose, kernel)
	}
	for i := 0; i < iterations; i++ {
		gocv.MorphologyEx(cleaned, &cleaned, gocv.MorphOpen, kernel)
	}

	return cleaned
}

// ImageToMat converts a Go image.Image to a gocv.Mat in BGR format.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), fmt.Errorf("image has no pixels")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat, nil
}

// MaskToState builds the detection state from a binary mask, marking
// every nonzero pixel pending in row-major order.
func MaskToState(mask gocv.Mat) *hough.State {
	rows, cols := mask.Rows(), mask.Cols()
	state := hough.NewState(rows, cols)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask.GetUCharAt(y, x) > 0 {
				state.MarkPending(geometry.Point{X: x, Y: y})
			}
		}
	}

	return state
}

// LoadState runs the full ingestion pipeline on a decoded image: Otsu
// foreground extraction, morphological cleanup, and state construction.
func LoadState(img image.Image, opts Options) (*hough.State, error) {
	mat, err := ImageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	mask := ExtractThreshold(mat, opts.Invert)
	defer mask.Close()

	cleaned := CleanupMask(mask, opts.CleanupIterations)
	defer cleaned.Close()

	return MaskToState(cleaned), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
