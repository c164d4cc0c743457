// Package stitch 把前后摄像头两张照片拼成一张横向长图
package stitch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrEmptyImage 输入图片高度或宽度为0
var ErrEmptyImage = errors.New("image has no pixels")

// Compositor 限制同时进行的拼图数量
type Compositor struct {
	slots chan struct{}
}

// New 创建拼图器，workers 为并发上限
func New(workers int) *Compositor {
	if workers <= 0 {
		workers = 1
	}
	return &Compositor{slots: make(chan struct{}, workers)}
}

// Compose 读取两张图片，拼接后以PNG写入 outPath
// 等待空闲槽位时遵循 ctx 取消
func (c *Compositor) Compose(ctx context.Context, frontPath, backPath, outPath string) (image.Point, error) {
	select {
	case c.slots <- struct{}{}:
	case <-ctx.Done():
		return image.Point{}, ctx.Err()
	}
	defer func() { <-c.slots }()

	front, err := imaging.Open(frontPath, imaging.AutoOrientation(true))
	if err != nil {
		return image.Point{}, fmt.Errorf("decode front image: %w", err)
	}
	back, err := imaging.Open(backPath, imaging.AutoOrientation(true))
	if err != nil {
		return image.Point{}, fmt.Errorf("decode back image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return image.Point{}, err
	}

	out, err := Stitch(front, back)
	if err != nil {
		return image.Point{}, err
	}
	if err := imaging.Save(out, outPath); err != nil {
		return image.Point{}, fmt.Errorf("encode composite: %w", err)
	}
	return out.Bounds().Size(), nil
}

// Stitch 两张图统一缩放到较小的高度（保持宽高比），左右并排
func Stitch(front, back image.Image) (*image.NRGBA, error) {
	fb, bb := front.Bounds(), back.Bounds()
	if fb.Dx() == 0 || fb.Dy() == 0 || bb.Dx() == 0 || bb.Dy() == 0 {
		return nil, ErrEmptyImage
	}

	h := min(fb.Dy(), bb.Dy())
	left := scaleToHeight(front, h)
	right := scaleToHeight(back, h)
	lw := left.Bounds().Dx()

	dst := imaging.New(lw+right.Bounds().Dx(), h, color.NRGBA{A: 255})
	dst = imaging.Paste(dst, left, image.Pt(0, 0))
	dst = imaging.Paste(dst, right, image.Pt(lw, 0))
	return dst, nil
}

func scaleToHeight(img image.Image, h int) image.Image {
	if img.Bounds().Dy() == h {
		return img
	}
	return imaging.Resize(img, 0, h, imaging.Lanczos)
}
