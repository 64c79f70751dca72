package stego

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sushant-iit/stegoforensics/raster"
)

func TestLSBRoundTrip(t *testing.T) {
	img := raster.NewImage(32, 32, 1)
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	var codec LSB
	stego, err := codec.ConcealText(img, []byte("hello"), "hi")
	require.NoError(t, err)

	message, err := codec.RevealText(stego, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "hi", message)
}

func TestDCTRoundTrip(t *testing.T) {
	host := raster.NewImage(64, 64, 3)
	for i := range host.Pix {
		host.Pix[i] = 128
	}
	wm := raster.NewImage(20, 20, 1)
	for i := 0; i < 20; i++ {
		for j := 0; j < 20; j++ {
			if (i+j)%2 == 0 {
				wm.Set(i, j, 0, 255)
			}
		}
	}

	var codec DCT
	stego, err := codec.ConcealWatermark(host, wm, []byte("secret"))
	require.NoError(t, err)
	require.Equal(t, host.Height, stego.Height)
	require.Equal(t, host.Width, stego.Width)

	extracted, err := codec.RevealWatermark(stego, []byte("secret"))
	require.NoError(t, err)
	require.Equal(t, 100, extracted.Height)
	require.Equal(t, 100, extracted.Width)
}
