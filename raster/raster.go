// Package raster is the Image Adapter: the only place in this module that
// talks to the standard image codecs or does colour-space math. Every other
// package (keyschedule, lsb, dct, watermark) operates purely on the flat
// Image/Plane buffers this package hands back.
package raster

import (
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
)

// ErrUnknownFormat is returned by Encode for an unsupported Format value.
var ErrUnknownFormat = errors.New("raster: unknown output format")

// ErrShapeUnsupported is returned when an operation expects a 2-D or 3-channel
// 3-D raster and receives neither.
var ErrShapeUnsupported = errors.New("raster: image must be single-channel or 3-channel")

// Format selects the on-disk encoding used by Encode.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
)

// Image is a flat, contiguous 8-bit raster: (H, W) for grayscale or (H, W, 3)
// in BGR channel order for colour, row-major, channel-minor. It is the single
// representation every core component operates on, replacing the "2-D vs 3-D
// array" duality of the source with one shape-tagged buffer.
type Image struct {
	Height   int
	Width    int
	Channels int // 1 (grayscale) or 3 (BGR)
	Pix      []uint8
}

// NewImage allocates a zeroed Image of the given shape. channels must be 1 or 3.
func NewImage(height, width, channels int) *Image {
	return &Image{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]uint8, height*width*channels),
	}
}

// At returns the value at row i, column j, channel c (c must be 0 for
// grayscale images).
func (img *Image) At(i, j, c int) uint8 {
	return img.Pix[(i*img.Width+j)*img.Channels+c]
}

// Set writes the value at row i, column j, channel c.
func (img *Image) Set(i, j, c int, v uint8) {
	img.Pix[(i*img.Width+j)*img.Channels+c] = v
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{Height: img.Height, Width: img.Width, Channels: img.Channels, Pix: pix}
}

// Decode reads a PNG or JPEG image (the standard library's image.Decode
// picks the codec from the magic bytes; both are registered by this
// package's imports) into an Image.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromStdImage(src), nil
}

// FromStdImage converts a decoded standard-library image into an Image.
// Images that are natively grayscale decode to a single-channel Image;
// everything else decodes to 3-channel BGR.
func FromStdImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch g := src.(type) {
	case *image.Gray:
		out := NewImage(h, w, 1)
		copy(out.Pix, g.Pix)
		return out
	case *image.Gray16:
		out := NewImage(h, w, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Set(y, x, 0, uint8(g.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y>>8))
			}
		}
		return out
	}

	out := NewImage(h, w, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(y, x, 0, uint8(b>>8))
			out.Set(y, x, 1, uint8(g>>8))
			out.Set(y, x, 2, uint8(r>>8))
		}
	}
	return out
}

// ToStdImage converts an Image back to a standard-library image.Image
// suitable for the image/png and image/jpeg encoders.
func (img *Image) ToStdImage() image.Image {
	if img.Channels == 1 {
		out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		copy(out.Pix, img.Pix)
		return out
	}

	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			o := out.PixOffset(x, y)
			out.Pix[o+0] = img.At(y, x, 2) // R
			out.Pix[o+1] = img.At(y, x, 1) // G
			out.Pix[o+2] = img.At(y, x, 0) // B
			out.Pix[o+3] = 255
		}
	}
	return out
}

// Encode writes img to w in the requested format.
func Encode(w io.Writer, format Format, img *Image) error {
	std := img.ToStdImage()
	switch format {
	case FormatPNG:
		return png.Encode(w, std)
	case FormatJPEG:
		return jpeg.Encode(w, std, &jpeg.Options{Quality: 95})
	default:
		return ErrUnknownFormat
	}
}

// ResizeBicubic resizes img to the given dimensions using bicubic
// (Catmull-Rom) interpolation, matching cv2.resize(..., interpolation=cv2.INTER_CUBIC)
// closely enough for this module's purposes: imperceptible-change embedding,
// not archival-quality resampling.
func ResizeBicubic(img *Image, width, height int) *Image {
	src := img.ToStdImage()
	dstRect := image.Rect(0, 0, width, height)

	if img.Channels == 1 {
		dst := image.NewGray(dstRect)
		draw.CatmullRom.Scale(dst, dstRect, src, src.Bounds(), draw.Over, nil)
		out := NewImage(height, width, 1)
		copy(out.Pix, dst.Pix)
		return out
	}

	dst := image.NewNRGBA(dstRect)
	draw.CatmullRom.Scale(dst, dstRect, src, src.Bounds(), draw.Over, nil)
	out := NewImage(height, width, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := dst.PixOffset(x, y)
			out.Set(y, x, 0, dst.Pix[o+2])
			out.Set(y, x, 1, dst.Pix[o+1])
			out.Set(y, x, 2, dst.Pix[o+0])
		}
	}
	return out
}

// ToGray converts a 3-channel BGR image to single-channel grayscale using
// the BT.601 luma weights (matches cv2.COLOR_BGR2GRAY). A grayscale input is
// returned as-is.
func ToGray(img *Image) (*Image, error) {
	if img.Channels == 1 {
		return img.Clone(), nil
	}
	if img.Channels != 3 {
		return nil, ErrShapeUnsupported
	}
	out := NewImage(img.Height, img.Width, 1)
	for i := 0; i < img.Height; i++ {
		for j := 0; j < img.Width; j++ {
			b := float64(img.At(i, j, 0))
			g := float64(img.At(i, j, 1))
			r := float64(img.At(i, j, 2))
			y := 0.114*b + 0.587*g + 0.299*r
			out.Set(i, j, 0, clampByte(y))
		}
	}
	return out, nil
}

// ThresholdBinary maps every sample to 255 if it is >= cutoff, else 0,
// matching cv2.threshold(..., cutoff, 255, cv2.THRESH_BINARY).
func ThresholdBinary(img *Image, cutoff uint8) *Image {
	out := img.Clone()
	for i := range out.Pix {
		if out.Pix[i] >= cutoff {
			out.Pix[i] = 255
		} else {
			out.Pix[i] = 0
		}
	}
	return out
}

// Plane is a single H x W plane of float64 samples, used for the Y/U/V split
// of a colour image.
type Plane struct {
	Height int
	Width  int
	Data   []float64
}

// NewPlane allocates a zeroed plane.
func NewPlane(height, width int) *Plane {
	return &Plane{Height: height, Width: width, Data: make([]float64, height*width)}
}

// At returns the value at row i, column j.
func (p *Plane) At(i, j int) float64 { return p.Data[i*p.Width+j] }

// Set writes the value at row i, column j.
func (p *Plane) Set(i, j int, v float64) { p.Data[i*p.Width+j] = v }

// BGRToYUV splits a 3-channel BGR Image into Y, U, V planes using the
// BT.601 coefficients of cv2.COLOR_BGR2YUV, rounding every sample to the
// nearest integer.
func BGRToYUV(img *Image) (y, u, v *Plane, err error) {
	if img.Channels != 3 {
		return nil, nil, nil, ErrShapeUnsupported
	}
	y = NewPlane(img.Height, img.Width)
	u = NewPlane(img.Height, img.Width)
	v = NewPlane(img.Height, img.Width)
	for i := 0; i < img.Height; i++ {
		for j := 0; j < img.Width; j++ {
			b := float64(img.At(i, j, 0))
			g := float64(img.At(i, j, 1))
			r := float64(img.At(i, j, 2))

			yy := 0.299*r + 0.587*g + 0.114*b
			uu := -0.14713*r - 0.28886*g + 0.436*b + 128
			vv := 0.615*r - 0.51499*g - 0.10001*b + 128

			y.Set(i, j, math.Round(yy))
			u.Set(i, j, math.Round(uu))
			v.Set(i, j, math.Round(vv))
		}
	}
	return y, u, v, nil
}

// YUVToBGR reassembles Y, U, V planes (as produced by BGRToYUV, or Y as
// modified by the watermark codec) into a 3-channel BGR Image, clamping
// every sample to [0, 255].
func YUVToBGR(y, u, v *Plane) *Image {
	out := NewImage(y.Height, y.Width, 3)
	for i := 0; i < y.Height; i++ {
		for j := 0; j < y.Width; j++ {
			yy := y.At(i, j)
			uu := u.At(i, j) - 128
			vv := v.At(i, j) - 128

			r := yy + 1.13983*vv
			g := yy - 0.39465*uu - 0.58060*vv
			b := yy + 2.03211*uu

			out.Set(i, j, 0, clampByte(b))
			out.Set(i, j, 1, clampByte(g))
			out.Set(i, j, 2, clampByte(r))
		}
	}
	return out
}

func clampByte(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
