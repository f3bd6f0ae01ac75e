package generator

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/shouni/go-pudding-kit/pkg/domain"
)

// PlaceholderSize は代替画像の一辺のピクセル数なのだ。
const PlaceholderSize = 512

var (
	// ColorGray はダミーモード（API未初期化）の代替画像の色なのだ。
	ColorGray = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	// ColorRed は API 呼び出しに失敗したときの代替画像の色なのだ。
	ColorRed = color.RGBA{R: 0xff, A: 0xff}
)

var (
	placeholderMu    sync.Mutex
	placeholderCache = make(map[color.RGBA][]byte)
)

// Placeholder は単色で塗りつぶした正方形の PNG 画像を返すのだ。
// 同じ色のエンコード結果は使い回すけど、Data は毎回コピーして渡すのだ。
func Placeholder(c color.Color) domain.Image {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)

	placeholderMu.Lock()
	encoded, ok := placeholderCache[rgba]
	if !ok {
		encoded = encodeSolidPNG(rgba, PlaceholderSize)
		placeholderCache[rgba] = encoded
	}
	placeholderMu.Unlock()

	data := make([]byte, len(encoded))
	copy(data, encoded)
	return domain.Image{
		Data:     data,
		MIMEType: "image/png",
		Width:    PlaceholderSize,
		Height:   PlaceholderSize,
	}
}

func encodeSolidPNG(c color.RGBA, size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	// メモリ上の RGBA のエンコードは失敗しないのだ。
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
