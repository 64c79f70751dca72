// Package httpapi exposes the four image-steganography operations over
// HTTP, mirroring the original four Lambda handlers' request/response
// envelopes (field names and all) behind one long-running chi router instead
// of four separate functions.
package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sushant-iit/stegoforensics/lsb"
	"github.com/sushant-iit/stegoforensics/raster"
	"github.com/sushant-iit/stegoforensics/storage"
	"github.com/sushant-iit/stegoforensics/watermark"
)

// Server holds the dependencies the HTTP handlers need: object storage and
// a logger. It has no other state, so its handler methods are safe for
// concurrent use.
type Server struct {
	Storage *storage.Client
	Log     zerolog.Logger
}

// NewServer builds a Server bound to store, logging through log.
func NewServer(store *storage.Client, log zerolog.Logger) *Server {
	return &Server{Storage: store, Log: log}
}

type errorBody struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusForErr classifies a codec error into the status code the original
// handlers would have returned for the equivalent condition: 400 for
// anything the caller could have avoided, 500 for everything else.
func statusForErr(err error) int {
	switch {
	case errors.Is(err, lsb.ErrEmptyKey),
		errors.Is(err, lsb.ErrMessageTooLong),
		errors.Is(err, lsb.ErrCapacityExceeded),
		errors.Is(err, lsb.ErrShapeUnsupported),
		errors.Is(err, lsb.ErrExtractFailed),
		errors.Is(err, watermark.ErrEmptyKey),
		errors.Is(err, watermark.ErrNonColourHost),
		errors.Is(err, raster.ErrUnknownFormat),
		errors.Is(err, raster.ErrShapeUnsupported):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBase64Image(s string) (*raster.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.New("httpapi: invalid base64 image payload")
	}
	return raster.Decode(bytes.NewReader(raw))
}

func encodePNGBase64(img *raster.Image) (string, error) {
	var buf bytes.Buffer
	if err := raster.Encode(&buf, raster.FormatPNG, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// replaceExt swaps name's extension for ext (which must include the dot),
// matching os.path.splitext(...)[0] + ext in the original handlers.
func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// hideRequest mirrors hide_text_in_image/app.py's body: message, secretKey,
// fileName.
type hideRequest struct {
	Message   string `json:"message"`
	SecretKey string `json:"secretKey"`
	FileName  string `json:"fileName"`
}

type hideResponse struct {
	Message          string `json:"message"`
	ImageWithDataURL string `json:"imageWithDataUrl"`
}

// HandleHide implements POST /hide: fetch fileName from storage, conceal
// message in it under secretKey, store the result as a PNG and return its
// URL.
func (s *Server) HandleHide(w http.ResponseWriter, r *http.Request) {
	var req hideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Missing: message field not provided")
		return
	}
	if req.SecretKey == "" {
		writeError(w, http.StatusBadRequest, "Secret Key can't be empty")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "Missing: fileName field not provided")
		return
	}

	ctx := r.Context()
	raw, err := s.Storage.Get(ctx, req.FileName)
	if err != nil {
		s.Log.Error().Err(err).Str("fileName", req.FileName).Msg("fetch source image")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	img, err := raster.Decode(bytes.NewReader(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not decode source image")
		return
	}

	stego, err := lsb.Embed(img, []byte(req.SecretKey), req.Message)
	if err != nil {
		writeError(w, statusForErr(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := raster.Encode(&buf, raster.FormatPNG, stego); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respFileName := replaceExt(req.FileName, ".png")
	url, err := s.Storage.Put(ctx, respFileName, buf.Bytes(), "image/png")
	if err != nil {
		s.Log.Error().Err(err).Str("fileName", respFileName).Msg("store result image")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, hideResponse{Message: "success", ImageWithDataURL: url})
}

// retrieveRequest mirrors retrieve_text_from_image/app.py's body: secretKey,
// imageString (base64).
type retrieveRequest struct {
	SecretKey   string `json:"secretKey"`
	ImageString string `json:"imageString"`
}

type retrieveResponse struct {
	Message       string `json:"message"`
	RetrievedData string `json:"retrievedData"`
}

// HandleRetrieve implements POST /retrieve: decode the base64 image body and
// extract the concealed message under secretKey.
func (s *Server) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SecretKey == "" {
		writeError(w, http.StatusBadRequest, "Missing: secretKey field not provided")
		return
	}
	if req.ImageString == "" {
		writeError(w, http.StatusBadRequest, "Missing: imageString field not provided")
		return
	}

	img, err := decodeBase64Image(req.ImageString)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not decode image payload")
		return
	}

	message, err := lsb.Extract(img, []byte(req.SecretKey))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Either secretKey is wrong or message size exceeds 2048 characters")
		return
	}

	writeJSON(w, http.StatusOK, retrieveResponse{Message: "success", RetrievedData: message})
}

// embedWatermarkRequest mirrors embed_watermark/app.py's body: hostImageStr,
// waterMarkImageStr, secretKey, both images base64.
type embedWatermarkRequest struct {
	HostImageStr      string `json:"hostImageStr"`
	WaterMarkImageStr string `json:"waterMarkImageStr"`
	SecretKey         string `json:"secretKey"`
}

type embedWatermarkResponse struct {
	Message       string `json:"message"`
	ImageWithData string `json:"imageWithData"`
}

// HandleEmbedWatermark implements POST /embed-watermark: decode both base64
// images, embed the watermark under secretKey and return the result as a
// base64 PNG.
func (s *Server) HandleEmbedWatermark(w http.ResponseWriter, r *http.Request) {
	var req embedWatermarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.HostImageStr == "" {
		writeError(w, http.StatusBadRequest, "Missing: hostImageStr field not provided")
		return
	}
	if req.WaterMarkImageStr == "" {
		writeError(w, http.StatusBadRequest, "Missing: waterMarkImageStr field not provided")
		return
	}
	if req.SecretKey == "" {
		writeError(w, http.StatusBadRequest, "Secret Key can't be empty")
		return
	}

	host, err := decodeBase64Image(req.HostImageStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not decode host image")
		return
	}
	mark, err := decodeBase64Image(req.WaterMarkImageStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not decode watermark image")
		return
	}

	stego, err := watermark.Embed(host, mark, []byte(req.SecretKey))
	if err != nil {
		writeError(w, statusForErr(err), err.Error())
		return
	}

	encoded, err := encodePNGBase64(stego)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, embedWatermarkResponse{Message: "success", ImageWithData: encoded})
}

// extractWatermarkRequest mirrors extract_watermark/app.py's body:
// embeddedImageFileName, secretKey.
type extractWatermarkRequest struct {
	EmbeddedImageFileName string `json:"embeddedImageFileName"`
	SecretKey             string `json:"secretKey"`
}

type extractWatermarkResponse struct {
	Message                string `json:"message"`
	ExtractedWaterMarkURL string `json:"extractedWaterMarkUrl"`
}

// HandleExtractWatermark implements POST /extract-watermark: fetch
// embeddedImageFileName from storage, recover the watermark under
// secretKey, store it as a JPEG and return its URL.
func (s *Server) HandleExtractWatermark(w http.ResponseWriter, r *http.Request) {
	var req extractWatermarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.EmbeddedImageFileName == "" {
		writeError(w, http.StatusBadRequest, "Missing: embeddedImageFileName field not provided")
		return
	}
	if req.SecretKey == "" {
		writeError(w, http.StatusBadRequest, "Secret Key can't be empty")
		return
	}

	ctx := r.Context()
	raw, err := s.Storage.Get(ctx, req.EmbeddedImageFileName)
	if err != nil {
		s.Log.Error().Err(err).Str("fileName", req.EmbeddedImageFileName).Msg("fetch embedded image")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	host, err := raster.Decode(bytes.NewReader(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not decode embedded image")
		return
	}

	mark, err := watermark.Extract(host, []byte(req.SecretKey))
	if err != nil {
		writeError(w, statusForErr(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := raster.Encode(&buf, raster.FormatJPEG, mark); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respFileName := replaceExt(req.EmbeddedImageFileName, ".jpg")
	url, err := s.Storage.Put(ctx, respFileName, buf.Bytes(), "image/jpeg")
	if err != nil {
		s.Log.Error().Err(err).Str("fileName", respFileName).Msg("store extracted watermark")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, extractWatermarkResponse{Message: "success", ExtractedWaterMarkURL: url})
}

// requestTimeout bounds every handler's S3 round-trips; the original
// Lambda handlers inherited a timeout from their function configuration,
// this is the local equivalent.
const requestTimeout = 30 * time.Second
