package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sushant-iit/stegoforensics/lsb"
	"github.com/sushant-iit/stegoforensics/raster"
)

func encodeBase64PNG(t *testing.T, img *raster.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, raster.Encode(&buf, raster.FormatPNG, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestHandleRetrieveRoundTrip(t *testing.T) {
	img := raster.NewImage(32, 32, 1)
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	stego, err := lsb.Embed(img, []byte("hello"), "hi")
	require.NoError(t, err)

	body, _ := json.Marshal(retrieveRequest{
		SecretKey:   "hello",
		ImageString: encodeBase64PNG(t, stego),
	})

	s := NewServer(nil, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/retrieve", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.HandleRetrieve(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp retrieveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Message)
	require.Equal(t, "hi", resp.RetrievedData)
}

func TestHandleRetrieveMissingSecretKey(t *testing.T) {
	body, _ := json.Marshal(retrieveRequest{ImageString: "anything"})

	s := NewServer(nil, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/retrieve", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.HandleRetrieve(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleEmbedWatermarkRoundTrip(t *testing.T) {
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

	body, _ := json.Marshal(embedWatermarkRequest{
		HostImageStr:      encodeBase64PNG(t, host),
		WaterMarkImageStr: encodeBase64PNG(t, wm),
		SecretKey:         "secret",
	})

	s := NewServer(nil, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/embed-watermark", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.HandleEmbedWatermark(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp embedWatermarkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Message)
	require.NotEmpty(t, resp.ImageWithData)
}

func TestHandleEmbedWatermarkMissingHost(t *testing.T) {
	body, _ := json.Marshal(embedWatermarkRequest{SecretKey: "secret", WaterMarkImageStr: "x"})

	s := NewServer(nil, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/embed-watermark", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.HandleEmbedWatermark(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplaceExt(t *testing.T) {
	require.Equal(t, "foo.png", replaceExt("foo.jpg", ".png"))
	require.Equal(t, "dir/foo.png", replaceExt("dir/foo.jpeg", ".png"))
}

func TestStatusForErr(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, statusForErr(lsb.ErrEmptyKey))
	require.Equal(t, http.StatusInternalServerError, statusForErr(errors.New("boom")))
}
