package face

import (
	"image"
	"math"
	"strings"
)

// RasterSize is the edge length of the down-sampled grey raster.
const RasterSize = 16

// HashLength is the length of a geometry hash: one hex nibble per raster cell.
const HashLength = RasterSize * RasterSize

const hexDigits = "0123456789abcdef"

// Downsample box-averages img into a RasterSize x RasterSize grey raster.
func Downsample(img image.Image) []uint8 {
	out := make([]uint8, RasterSize*RasterSize)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return out
	}
	for cy := 0; cy < RasterSize; cy++ {
		y0 := b.Min.Y + cy*h/RasterSize
		y1 := max(b.Min.Y+(cy+1)*h/RasterSize, y0+1)
		for cx := 0; cx < RasterSize; cx++ {
			x0 := b.Min.X + cx*w/RasterSize
			x1 := max(b.Min.X+(cx+1)*w/RasterSize, x0+1)
			var sum, n uint64
			for y := y0; y < y1 && y < b.Max.Y; y++ {
				for x := x0; x < x1 && x < b.Max.X; x++ {
					r, g, bl, _ := img.At(x, y).RGBA()
					// ITU-R 601 luma on 16-bit channels.
					sum += (299*uint64(r) + 587*uint64(g) + 114*uint64(bl)) / 1000 >> 8
					n++
				}
			}
			if n > 0 {
				out[cy*RasterSize+cx] = uint8(sum / n)
			}
		}
	}
	return out
}

// GeometryHash reduces img to a fixed-length hex string, one nibble per cell.
// Similar frames produce hashes that agree in most positions.
func GeometryHash(img image.Image) string {
	raster := Downsample(img)
	var sb strings.Builder
	sb.Grow(len(raster))
	for _, v := range raster {
		sb.WriteByte(hexDigits[v>>4])
	}
	return sb.String()
}

// LivenessScore is 1 minus the mean absolute grey difference between two
// frames, normalised to [0,1]. It is a replay heuristic, not liveness
// detection.
func LivenessScore(a, b image.Image) float64 {
	ra, rb := Downsample(a), Downsample(b)
	var diff float64
	for i := range ra {
		diff += math.Abs(float64(ra[i]) - float64(rb[i]))
	}
	return 1 - diff/float64(len(ra))/255
}
