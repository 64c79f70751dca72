package raster

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripGray(t *testing.T) {
	img := NewImage(4, 4, 1)
	for i := 0; i < 16; i++ {
		img.Pix[i] = uint8(i * 16)
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatPNG, img))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img.Height, got.Height)
	require.Equal(t, img.Width, got.Width)
	require.Equal(t, img.Channels, got.Channels)
	require.Equal(t, img.Pix, got.Pix)
}

func TestEncodeDecodeRoundTripColour(t *testing.T) {
	img := NewImage(3, 3, 3)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7 % 255)
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatPNG, img))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 3, got.Channels)
	require.Equal(t, img.Pix, got.Pix)
}

func TestThresholdBinary(t *testing.T) {
	img := NewImage(1, 4, 1)
	img.Pix = []uint8{0, 127, 128, 255}
	out := ThresholdBinary(img, 128)
	require.Equal(t, []uint8{0, 0, 255, 255}, out.Pix)
}

func TestYUVRoundTripMidGrey(t *testing.T) {
	img := NewImage(8, 8, 3)
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	y, u, v, err := BGRToYUV(img)
	require.NoError(t, err)
	back := YUVToBGR(y, u, v)

	for i := 0; i < img.Height; i++ {
		for j := 0; j < img.Width; j++ {
			for c := 0; c < 3; c++ {
				require.InDelta(t, int(img.At(i, j, c)), int(back.At(i, j, c)), 1)
			}
		}
	}
}

func TestToGrayOnGrayscaleIsIdentity(t *testing.T) {
	img := NewImage(2, 2, 1)
	img.Pix = []uint8{10, 20, 30, 40}
	out, err := ToGray(img)
	require.NoError(t, err)
	require.Equal(t, img.Pix, out.Pix)
}

func TestResizeBicubicSetsRequestedSize(t *testing.T) {
	img := NewImage(16, 16, 3)
	out := ResizeBicubic(img, 32, 64)
	require.Equal(t, 64, out.Height)
	require.Equal(t, 32, out.Width)
	require.Equal(t, 3, out.Channels)
}
