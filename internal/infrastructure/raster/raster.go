// Package raster содержит операции над растровыми изображениями, не требующие OpenCV.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Регистрация декодеров
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vision-diff/internal/domain/entity"
)

// Decode превращает байты изображения в *image.RGBA с началом в (0, 0).
func Decode(data []byte) (*image.RGBA, string, error) {
	if len(data) == 0 {
		return nil, "", entity.NewError(entity.KindInput, "decode", entity.ErrEmptyInput)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", entity.NewError(entity.KindDecode, "decode", err)
	}
	rgba := ToRGBA(img)
	if rgba.Bounds().Empty() {
		return nil, format, entity.NewError(entity.KindDecode, "decode", errors.New("empty image"))
	}
	return rgba, format, nil
}

// ToRGBA копирует изображение в новый *image.RGBA с началом в (0, 0).
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Crop вырезает рамку box (с отступом padding) в новое изображение.
func Crop(src image.Image, box entity.BoundingBox, padding int) (*image.RGBA, error) {
	b := src.Bounds()
	shifted := entity.BoundingBox{X: box.X + b.Min.X, Y: box.Y + b.Min.Y, Width: box.Width, Height: box.Height}
	r := shifted.Pad(padding, b).Rect()
	if r.Empty() {
		return nil, fmt.Errorf("crop %v is outside image %v", box.Rect(), b)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst, nil
}

// Resize масштабирует изображение до width x height. Без изменения размера возвращает копию.
func Resize(src image.Image, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return ToRGBA(src), nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst, nil
}

// EncodePNG кодирует изображение в PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, entity.NewError(entity.KindIO, "encode png", err)
	}
	return buf.Bytes(), nil
}
