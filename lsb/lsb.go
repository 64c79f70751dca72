// Package lsb implements the spatial-domain LSB codec: it hides an ASCII
// message in the parities of pixel intensities, visited in a key-permuted
// order, terminated by a fixed sentinel.
//
// The sentinel "##EE##" is plain ASCII inside the payload space. If a caller's
// message itself contains "##EE##", extraction truncates at the first
// occurrence - this is a known limitation of the sentinel-terminated format,
// not a bug to silently work around, since working around it would change
// the wire format the extractor must match byte-for-byte.
package lsb

import (
	"errors"

	"github.com/sushant-iit/stegoforensics/internal/bitstream"
	"github.com/sushant-iit/stegoforensics/keyschedule"
	"github.com/sushant-iit/stegoforensics/raster"
)

// MaxMessageChars is the hard limit on message length enforced at the
// adapter boundary.
const MaxMessageChars = 2048

// Sentinel marks the end of the bit-packed payload.
const Sentinel = "##EE##"

var (
	// ErrEmptyKey is returned when the key is empty.
	ErrEmptyKey = errors.New("lsb: key must not be empty")
	// ErrMessageTooLong is returned when the message exceeds MaxMessageChars.
	ErrMessageTooLong = errors.New("lsb: message exceeds 2048 characters")
	// ErrCapacityExceeded is returned by Embed when the carrier has too few
	// pixel-channels for the message plus sentinel.
	ErrCapacityExceeded = errors.New("lsb: message and sentinel exceed image capacity")
	// ErrShapeUnsupported is returned for rasters that are neither
	// single-channel nor 3-channel.
	ErrShapeUnsupported = raster.ErrShapeUnsupported
	// ErrExtractFailed covers both "wrong key" and "no payload present" -
	// the two are deliberately indistinguishable to callers, to avoid
	// leaking a key-correctness oracle.
	ErrExtractFailed = errors.New("lsb: no sentinel found within bound; wrong key or no message")
)

// Embed returns a copy of img with message (followed by the sentinel) hidden
// in the LSBs of pixel components, visited in the order keyschedule.Permute
// derives from key.
func Embed(img *raster.Image, key []byte, message string) (*raster.Image, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if len(message) > MaxMessageChars {
		return nil, ErrMessageTooLong
	}
	if img.Channels != 1 && img.Channels != 3 {
		return nil, ErrShapeUnsupported
	}

	payload := bitstream.BitsMSBFirst(append([]byte(message), []byte(Sentinel)...))
	capacity := img.Height * img.Width * img.Channels
	if len(payload) > capacity {
		return nil, ErrCapacityExceeded
	}

	out := img.Clone()
	idx := 0
	walk(out, key, func(c coord) bool {
		if idx >= len(payload) {
			return false
		}
		v := out.At(c.i, c.j, c.c)
		switch payload[idx] {
		case 0:
			if v%2 == 1 {
				v--
			}
		case 1:
			if v%2 == 0 {
				v++
			}
		}
		out.Set(c.i, c.j, c.c, v)
		idx++
		return true
	})

	return out, nil
}

// Extract recovers the message hidden by Embed under the same key. It
// returns ErrExtractFailed if no sentinel is found within the maximum bound
// (8*MaxMessageChars + 48 bits), which covers both a wrong key and an image
// with no hidden message.
func Extract(img *raster.Image, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}
	if img.Channels != 1 && img.Channels != 3 {
		return "", ErrShapeUnsupported
	}

	sentinelBits := bitstream.BitsMSBFirst([]byte(Sentinel))
	matcher := bitstream.NewSentinelMatcher(sentinelBits)

	var bits []byte
	found := false
	walk(img, key, func(c coord) bool {
		v := img.At(c.i, c.j, c.c)
		bit := byte(v % 2)
		bits = append(bits, bit)

		if matcher.Append(bit) {
			found = true
			return false
		}
		return len(bits)-len(sentinelBits) <= 8*MaxMessageChars
	})

	if found {
		payload := bits[:len(bits)-len(sentinelBits)]
		return string(bitstream.BytesFromBitsMSBFirst(payload)), nil
	}
	return "", ErrExtractFailed
}

type coord struct{ i, j, c int }

// walk visits every pixel-channel coordinate of img in nested key-permuted
// order (i in px, j in py[, k in pz]) - a fresh permutation per axis,
// including a dedicated channel permutation for colour images - calling
// visit for each, stopping as soon as visit returns false.
func walk(img *raster.Image, key []byte, visit func(coord) bool) {
	px := keyschedule.Permute(key, img.Height)
	py := keyschedule.Permute(key, img.Width)

	if img.Channels == 1 {
		for _, i := range px {
			for _, j := range py {
				if !visit(coord{i, j, 0}) {
					return
				}
			}
		}
		return
	}

	pz := keyschedule.Permute(key, img.Channels)
	for _, i := range px {
		for _, j := range py {
			for _, k := range pz {
				if !visit(coord{i, j, k}) {
					return
				}
			}
		}
	}
}
