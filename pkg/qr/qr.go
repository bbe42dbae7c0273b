// Package qr renders an encoded record as a QR code. The record is treated
// as opaque text.
package qr

import (
	"errors"
	"math"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultFill is the share of the smaller screen dimension the code
	// takes up.
	DefaultFill = 0.825
	MinSize     = 64
)

var ErrEmpty = errors.New("nothing to encode")

// Size returns the pixel size for a code that fills fill of the smaller of
// width and height. Non-positive input falls back to MinSize.
func Size(width, height int, fill float64) int {
	if fill <= 0 || fill > 1 {
		fill = DefaultFill
	}
	side := width
	if height < side {
		side = height
	}
	// The epsilon keeps 800*0.825 from flooring to 659.
	size := int(math.Floor(float64(side)*fill + 1e-9))
	if size < MinSize {
		return MinSize
	}
	return size
}

func build(data string) (*qrcode.QRCode, error) {
	if data == "" {
		return nil, ErrEmpty
	}
	return qrcode.New(data, qrcode.High)
}

// PNG renders data as a size x size PNG image.
func PNG(data string, size int) ([]byte, error) {
	q, err := build(data)
	if err != nil {
		return nil, err
	}
	return q.PNG(size)
}

// WriteFile renders data to a PNG file.
func WriteFile(data string, size int, path string) error {
	q, err := build(data)
	if err != nil {
		return err
	}
	return q.WriteFile(size, path)
}

// Terminal renders data with half-block characters for display in a
// terminal.
func Terminal(data string) (string, error) {
	q, err := build(data)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
