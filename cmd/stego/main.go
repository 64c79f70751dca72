// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Command stego conceals and reveals data in local image files over either
// the LSB or DCT watermark channel. It is adapted from zanicar/stegano's
// PNG-only CLI: the conceal/reveal/zip/encrypt flag surface survives, widened
// with -mode to pick the channel and pointed at this module's codecs instead
// of the single png.SteganoPNG implementation.
package main

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	crand "crypto/rand"
	"crypto/sha256"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	stego "github.com/sushant-iit/stegoforensics"
	"github.com/sushant-iit/stegoforensics/raster"
)

type opts struct {
	zip bool
	key []byte // AES-GCM confidentiality wrap, independent of the embedding key
}

func usage() {
	fmt.Printf("stego: correct usage examples:\n")
	fmt.Printf("\t> stego -conceal -mode=lsb -embedkey {key} -message {text} -in {in} -out {out}\n")
	fmt.Printf("\t> stego -reveal -mode=lsb -embedkey {key} -in {in}\n")
	fmt.Printf("\t> stego -conceal -mode=dct -embedkey {key} -watermark {wmfile} -in {host} -out {out}\n")
	fmt.Printf("\t> stego -reveal -mode=dct -embedkey {key} -in {stego} -out {watermark.png}\n")
}

func concealLSB(log zerolog.Logger, inFile, outFile, embedKey, message string, o opts) error {
	img, err := decodeFile(inFile)
	if err != nil {
		return err
	}

	payload := []byte(message)
	if o.zip {
		z, err := compress(payload)
		if err != nil {
			return fmt.Errorf("compress: %w", err)
		}
		payload = z
	}
	if o.key != nil {
		c, err := encrypt(payload, o.key)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
		payload = c
	}

	out, err := (stego.LSB{}).ConcealText(img, []byte(embedKey), string(payload))
	if err != nil {
		return fmt.Errorf("conceal: %w", err)
	}

	log.Info().Str("out", outFile).Msg("message concealed")
	return encodeFile(outFile, out)
}

func revealLSB(log zerolog.Logger, inFile, embedKey string, o opts) (string, error) {
	img, err := decodeFile(inFile)
	if err != nil {
		return "", err
	}

	message, err := (stego.LSB{}).RevealText(img, []byte(embedKey))
	if err != nil {
		return "", fmt.Errorf("reveal: %w", err)
	}

	payload := []byte(message)
	if o.key != nil {
		p, err := decrypt(payload, o.key)
		if err != nil {
			return "", fmt.Errorf("decrypt: %w", err)
		}
		payload = p
	}
	if o.zip {
		z, err := decompress(payload)
		if err != nil {
			return "", fmt.Errorf("decompress: %w", err)
		}
		payload = z
	}

	log.Info().Str("in", inFile).Msg("message revealed")
	return string(payload), nil
}

func concealDCT(log zerolog.Logger, inFile, outFile, watermarkFile, embedKey string) error {
	host, err := decodeFile(inFile)
	if err != nil {
		return err
	}
	wm, err := decodeFile(watermarkFile)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("embedding watermark"),
		progressbar.OptionSpinnerType(14),
	)
	defer bar.Finish()
	stop := spin(bar)
	out, err := (stego.DCT{}).ConcealWatermark(host, wm, []byte(embedKey))
	stop()
	if err != nil {
		return fmt.Errorf("conceal: %w", err)
	}

	log.Info().Str("out", outFile).Msg("watermark embedded")
	return encodeFile(outFile, out)
}

func revealDCT(log zerolog.Logger, inFile, outFile, embedKey string) error {
	host, err := decodeFile(inFile)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("extracting watermark"),
		progressbar.OptionSpinnerType(14),
	)
	defer bar.Finish()
	stop := spin(bar)
	wm, err := (stego.DCT{}).RevealWatermark(host, []byte(embedKey))
	stop()
	if err != nil {
		return fmt.Errorf("reveal: %w", err)
	}

	log.Info().Str("out", outFile).Msg("watermark extracted")
	return encodeFile(outFile, wm)
}

// spin drives an indeterminate progressbar.v3 spinner while the caller runs
// a non-cancellable, non-instrumented block (the codecs don't expose
// per-block hooks), returning a stop function to call once it's done.
func spin(bar *progressbar.ProgressBar) func() {
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				bar.Add(1)
			}
		}
	}()
	return func() { close(done) }
}

func decodeFile(path string) (*raster.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return raster.Decode(f)
}

func encodeFile(path string, img *raster.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return raster.Encode(f, raster.FormatPNG, img)
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var out bytes.Buffer
	if _, err := io.Copy(&out, zr); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func encrypt(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, 12)
	if _, err := crand.Read(nonce); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(nonce)
	buf.Write(aesgcm.Seal(nil, nonce, data, nil))
	return buf.Bytes(), nil
}

func decrypt(data, key []byte) ([]byte, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("ciphertext too short")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, data[:12], data[12:], nil)
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	log = log.Level(zerolog.InfoLevel)

	var fhelp, fverbose bool
	flag.BoolVar(&fhelp, "h", false, "help")
	flag.BoolVar(&fverbose, "v", false, "verbose mode")

	var fconceal, freveal bool
	flag.BoolVar(&fconceal, "conceal", false, "executes the conceal operation")
	flag.BoolVar(&freveal, "reveal", false, "executes the reveal operation")

	var mode string
	flag.StringVar(&mode, "mode", "lsb", "channel to use: lsb or dct")

	var inFile, outFile, watermarkFile string
	flag.StringVar(&inFile, "in", "", "path to input image")
	flag.StringVar(&outFile, "out", "", "path to output image (create, overwrite)")
	flag.StringVar(&watermarkFile, "watermark", "", "path to watermark image (conceal, mode=dct only)")

	var message string
	flag.StringVar(&message, "message", "", "message to conceal (mode=lsb only)")

	var embedKey string
	flag.StringVar(&embedKey, "embedkey", "", "key used to derive the pixel/block traversal order")

	var fzip bool
	flag.BoolVar(&fzip, "z", false, "applies zip compression (mode=lsb only)")

	var aesKey string
	flag.StringVar(&aesKey, "key", "", "key used for payload encryption/decryption (mode=lsb only)")

	flag.Parse()

	if fhelp {
		usage()
		fmt.Printf("\nflag and option details:\n")
		flag.PrintDefaults()
		return
	}
	if fverbose {
		log = log.Level(zerolog.DebugLevel)
	}

	options := opts{zip: fzip}
	if aesKey != "" {
		sum := sha256.Sum256([]byte(aesKey))
		options.key = sum[:]
	}

	if embedKey == "" || inFile == "" || (fconceal == freveal) {
		usage()
		os.Exit(2)
	}

	var err error
	switch {
	case fconceal && mode == "lsb":
		if outFile == "" || message == "" {
			usage()
			os.Exit(2)
		}
		err = concealLSB(log, inFile, outFile, embedKey, message, options)
	case freveal && mode == "lsb":
		var revealed string
		revealed, err = revealLSB(log, inFile, embedKey, options)
		if err == nil {
			fmt.Println(revealed)
		}
	case fconceal && mode == "dct":
		if outFile == "" || watermarkFile == "" {
			usage()
			os.Exit(2)
		}
		err = concealDCT(log, inFile, outFile, watermarkFile, embedKey)
	case freveal && mode == "dct":
		if outFile == "" {
			usage()
			os.Exit(2)
		}
		err = revealDCT(log, inFile, outFile, embedKey)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("stego failed")
	}
}
