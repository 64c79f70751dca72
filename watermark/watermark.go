// Package watermark implements the frequency-domain DCT watermark codec: it
// hides a 100x100 binary watermark image inside a host image by perturbing
// one mid-frequency DCT coefficient per 8x8 luminance block, visited in a
// key-permuted block order.
package watermark

import (
	"errors"
	"math"

	"github.com/sushant-iit/stegoforensics/dct"
	"github.com/sushant-iit/stegoforensics/keyschedule"
	"github.com/sushant-iit/stegoforensics/raster"
)

// Fixed constants of the watermark wire format. None of these are
// runtime-tunable.
const (
	// H is the size the host canvas is rescaled to before processing.
	H = 1024
	// W is the watermark's fixed square dimension.
	W = 100
	// N is the DCT block size.
	N = 8
	// Fact is the perturbation magnitude applied to the chosen coefficient.
	Fact = 16.0
	// DCTRow and DCTCol locate the coefficient that carries one watermark bit.
	DCTRow = 2
	DCTCol = 2

	numBlocksPerDim = H / N // 128
	watermarkBits   = W * W // 10000
)

var (
	// ErrEmptyKey is returned when the key is empty.
	ErrEmptyKey = errors.New("watermark: key must not be empty")
	// ErrNonColourHost is returned when the host image is not 3-channel BGR.
	ErrNonColourHost = errors.New("watermark: host image must be 3-channel BGR")
)

// Embed hides wm (any image, internally binarized to a 100x100 bitmap) in
// host using key, returning a new image of host's original dimensions.
func Embed(host, wm *raster.Image, key []byte) (*raster.Image, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if host.Channels != 3 {
		return nil, ErrNonColourHost
	}

	origHeight, origWidth := host.Height, host.Width

	resizedHost := raster.ResizeBicubic(host, H, H)
	y, u, v, err := raster.BGRToYUV(resizedHost)
	if err != nil {
		return nil, err
	}

	bits, err := binarizeWatermark(wm)
	if err != nil {
		return nil, err
	}

	blocks := keyschedule.Permute(key, numBlocksPerDim)
	index := 0
outer:
	for _, bi := range blocks {
		for _, bj := range blocks {
			if index == watermarkBits {
				break outer
			}
			block := readBlock(y, bi, bj)
			transformed := dct.Forward8x8(block)

			c := transformed[DCTRow][DCTCol]
			if bits[index] == 0 {
				c += Fact
			} else {
				c -= Fact
			}
			transformed[DCTRow][DCTCol] = c

			spatial := dct.Inverse8x8(transformed)
			writeBlockClamped(y, bi, bj, spatial)
			index++
		}
	}

	bgr := raster.YUVToBGR(y, u, v)
	return raster.ResizeBicubic(bgr, origWidth, origHeight), nil
}

// Extract recovers the 100x100 binary watermark embedded by Embed under the
// same key.
func Extract(host *raster.Image, key []byte) (*raster.Image, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if host.Channels != 3 {
		return nil, ErrNonColourHost
	}

	resized := raster.ResizeBicubic(host, H, H)
	y, _, _, err := raster.BGRToYUV(resized)
	if err != nil {
		return nil, err
	}

	blocks := keyschedule.Permute(key, numBlocksPerDim)
	bits := make([]byte, 0, watermarkBits)
	index := 0
outer:
	for _, bi := range blocks {
		for _, bj := range blocks {
			if index == watermarkBits {
				break outer
			}
			block := readBlock(y, bi, bj)
			transformed := dct.Forward8x8(block)
			c := transformed[DCTRow][DCTCol]
			if c >= 0 {
				bits = append(bits, 0)
			} else {
				bits = append(bits, 1)
			}
			index++
		}
	}

	out := raster.NewImage(W, W, 1)
	for i, bit := range bits {
		if bit == 1 {
			out.Pix[i] = 255
		}
	}
	return out, nil
}

// binarizeWatermark converts wm to single-channel grayscale, resizes it to
// WxW with bicubic interpolation, thresholds at 128, and flattens it
// row-major into a 0/1 bit vector of length watermarkBits.
func binarizeWatermark(wm *raster.Image) ([]byte, error) {
	gray, err := raster.ToGray(wm)
	if err != nil {
		return nil, err
	}
	resized := raster.ResizeBicubic(gray, W, W)
	binary := raster.ThresholdBinary(resized, 128)

	bits := make([]byte, watermarkBits)
	for i, px := range binary.Pix {
		if px != 0 {
			bits[i] = 1
		}
	}
	return bits, nil
}

// readBlock extracts the NxN luminance block at block-coordinates (bi, bj)
// into a dct.Block.
func readBlock(y *raster.Plane, bi, bj int) dct.Block {
	var block dct.Block
	baseI, baseJ := bi*N, bj*N
	for r := 0; r < N; r++ {
		for c := 0; c < N; c++ {
			block[r][c] = y.At(baseI+r, baseJ+c)
		}
	}
	return block
}

// writeBlockClamped writes an inverse-transformed block back into the
// luminance plane, clamping every sample to [0, 255] to avoid wraparound on
// the later uint8 cast.
func writeBlockClamped(y *raster.Plane, bi, bj int, block dct.Block) {
	baseI, baseJ := bi*N, bj*N
	for r := 0; r < N; r++ {
		for c := 0; c < N; c++ {
			v := math.Round(block[r][c])
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			y.Set(baseI+r, baseJ+c, v)
		}
	}
}
