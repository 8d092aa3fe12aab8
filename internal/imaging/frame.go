package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
)

var ErrEmptyFrame = errors.New("frame has no pixels")

// Frame is a single raster image as the pipeline carries it between nodes:
// a height×width grid of 3-channel float32 samples, nominally in [0,1].
type Frame struct {
	Width  int
	Height int
	// Pix holds RGB triplets in row-major order; len = Width*Height*3.
	Pix []float32
}

// Batch is an ordered collection of frames processed in one invocation.
type Batch []Frame

func NewFrame(width, height int) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*3),
	}
}

// At returns the RGB sample at (x, y) without bounds checking.
func (f Frame) At(x, y int) (r, g, b float32) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Set writes the RGB sample at (x, y).
func (f Frame) Set(x, y int, r, g, b float32) {
	i := (y*f.Width + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
}

// ToNRGBA converts the normalized float samples to 8-bit: scale by 255,
// clip to [0,255] and truncate. The conversion is lossy and one-way;
// decoding the result does not reproduce the original floats bit-exact.
func (f Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: quantize(r),
				G: quantize(g),
				B: quantize(b),
				A: 255,
			})
		}
	}

	return img
}

// EncodePNG renders the frame as an in-memory PNG. No temporary files.
func (f Frame) EncodePNG() ([]byte, error) {
	if f.Width == 0 || f.Height == 0 || len(f.Pix) == 0 {
		return nil, ErrEmptyFrame
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, f.ToNRGBA()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// FromImage converts a decoded image into a normalized frame. Alpha is
// dropped; the pipeline model is 3-channel.
func FromImage(img image.Image) Frame {
	bounds := img.Bounds()
	frame := NewFrame(bounds.Dx(), bounds.Dy())

	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			frame.Set(x, y, float32(c.R)/255, float32(c.G)/255, float32(c.B)/255)
		}
	}

	return frame
}

func quantize(v float32) uint8 {
	scaled := v * 255
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
