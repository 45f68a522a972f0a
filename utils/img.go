package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// ImagePreset selects how an uploaded image is normalised before storage.
type ImagePreset int

const (
	PresetAvatar ImagePreset = iota
	PresetCover
)

const avatarSize = 256

func (p ImagePreset) String() string {
	switch p {
	case PresetAvatar:
		return "avatar"
	case PresetCover:
		return "cover"
	}
	return fmt.Sprintf("preset(%d)", int(p))
}

func (p ImagePreset) objectPrefix() string {
	return p.String() + "-"
}

// ConvertForPreset reads an image and returns it as WebP shaped for p.
func ConvertForPreset(r io.Reader, contentType string, p ImagePreset) (*bytes.Buffer, error) {
	switch p {
	case PresetAvatar:
		return ConvertToRoundedWebP(r, contentType, avatarSize)
	case PresetCover:
		return ConvertToWebP(r, contentType)
	}
	return nil, fmt.Errorf("unknown image preset %d", int(p))
}

func ConvertToWebP(r io.Reader, contentType string) (*bytes.Buffer, error) {
	img, err := decodeOriented(r, contentType)
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > 1280 {
		img = imaging.Resize(img, 1280, 0, imaging.Lanczos)
	}

	out := new(bytes.Buffer)
	if err := webp.Encode(out, img, &webp.Options{
		Quality:  75,
		Lossless: false,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func ConvertToRoundedWebP(r io.Reader, contentType string, size int) (*bytes.Buffer, error) {
	img, err := decodeOriented(r, contentType)
	if err != nil {
		return nil, err
	}

	img = imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	// circular alpha mask
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := size / 2
	radius := size / 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := x - center
			dy := y - center
			if dx*dx+dy*dy <= radius*radius {
				dst.Set(x, y, img.At(x, y))
			} else {
				dst.Set(x, y, color.NRGBA{0, 0, 0, 0})
			}
		}
	}

	out := new(bytes.Buffer)
	if err := webp.Encode(out, dst, &webp.Options{
		Quality:  50,
		Lossless: false,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeOriented(r io.Reader, contentType string) (image.Image, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch contentType {
	case "image/jpeg", "image/jpg":
		img, err = jpeg.Decode(bytes.NewReader(buf))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(buf))
	default:
		return nil, fmt.Errorf("unsupported image format: %s", contentType)
	}
	if err != nil {
		return nil, err
	}

	orientation := 1
	if exifData, _ := exif.Decode(bytes.NewReader(buf)); exifData != nil {
		if tag, err := exifData.Get(exif.Orientation); err == nil {
			orientation, _ = tag.Int(0)
		}
	}

	switch orientation {
	case 3:
		img = imaging.Rotate180(img)
	case 6:
		img = imaging.Rotate270(img)
	case 8:
		img = imaging.Rotate90(img)
	}
	return img, nil
}
