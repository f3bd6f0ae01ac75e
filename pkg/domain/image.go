package domain

import (
	"encoding/base64"
	"fmt"
)

// Image はブラウザにそのまま表示できる画像データなのだ。
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// DataURI は <img src> に埋め込める data URI を返すのだ。
func (img Image) DataURI() string {
	if len(img.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", img.mimeOrDefault(), base64.StdEncoding.EncodeToString(img.Data))
}

// Base64 は JSON API 用に画像データを base64 文字列で返すのだ。
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

func (img Image) mimeOrDefault() string {
	if img.MIMEType == "" {
		return "image/png"
	}
	return img.MIMEType
}
