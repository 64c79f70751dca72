// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package stego provides the top-level interfaces unifying this module's two
// hiding channels - spatial LSB text concealment and DCT watermark embedding
// - behind one vocabulary, in the spirit of the stegano.Stegano interface
// split this module's layout is adapted from.
package stego

import (
	"github.com/sushant-iit/stegoforensics/lsb"
	"github.com/sushant-iit/stegoforensics/raster"
	"github.com/sushant-iit/stegoforensics/watermark"
)

// TextConcealer hides an ASCII message in a raster's pixel LSBs.
type TextConcealer interface {
	ConcealText(img *raster.Image, key []byte, message string) (*raster.Image, error)
}

// TextRevealer recovers a message hidden by a TextConcealer under the same key.
type TextRevealer interface {
	RevealText(img *raster.Image, key []byte) (string, error)
}

// WatermarkConcealer hides a watermark image in a host's DCT coefficients.
type WatermarkConcealer interface {
	ConcealWatermark(host, mark *raster.Image, key []byte) (*raster.Image, error)
}

// WatermarkRevealer recovers a watermark hidden by a WatermarkConcealer under
// the same key.
type WatermarkRevealer interface {
	RevealWatermark(host *raster.Image, key []byte) (*raster.Image, error)
}

// LSB implements TextConcealer and TextRevealer over the spatial LSB codec.
type LSB struct{}

var (
	_ TextConcealer = LSB{}
	_ TextRevealer  = LSB{}
)

// ConcealText hides message in img's pixel LSBs under key.
func (LSB) ConcealText(img *raster.Image, key []byte, message string) (*raster.Image, error) {
	return lsb.Embed(img, key, message)
}

// RevealText recovers a message hidden by ConcealText under the same key.
func (LSB) RevealText(img *raster.Image, key []byte) (string, error) {
	return lsb.Extract(img, key)
}

// DCT implements WatermarkConcealer and WatermarkRevealer over the DCT
// watermark codec.
type DCT struct{}

var (
	_ WatermarkConcealer = DCT{}
	_ WatermarkRevealer  = DCT{}
)

// ConcealWatermark hides mark in host's DCT coefficients under key.
func (DCT) ConcealWatermark(host, mark *raster.Image, key []byte) (*raster.Image, error) {
	return watermark.Embed(host, mark, key)
}

// RevealWatermark recovers a watermark hidden by ConcealWatermark under the
// same key.
func (DCT) RevealWatermark(host *raster.Image, key []byte) (*raster.Image, error) {
	return watermark.Extract(host, key)
}
