package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat 文件扩展名不在支持列表中
var ErrUnsupportedFormat = errors.New("不支持的文件格式")

// ErrEmptyDocument 解码成功但没有得到任何文本
var ErrEmptyDocument = errors.New("文档解码结果为空")

// Decoder 按文件扩展名分发的文档解码器，负责把上传的原始字节
// 还原成纯文本。支持 .pdf / .docx。
type Decoder struct {
	pdf  *EinoPDFTextExtractor
	docx *DocxTextExtractor
}

// NewDecoder 创建文档解码器
func NewDecoder(ctx context.Context) (*Decoder, error) {
	pdfExtractor, err := NewEinoPDFTextExtractor(ctx)
	if err != nil {
		return nil, fmt.Errorf("初始化PDF提取器失败: %w", err)
	}
	return &Decoder{
		pdf:  pdfExtractor,
		docx: NewDocxTextExtractor(),
	}, nil
}

// ExtractText 解码一份文档并返回纯文本。
// 扩展名匹配不区分大小写；未知扩展名返回ErrUnsupportedFormat，
// 调用方据此把提交标记为文本提取失败而不是重试。
func (d *Decoder) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var text string
	switch ext {
	case ".pdf":
		decoded, _, err := d.pdf.ExtractTextFromBytes(ctx, data, filename, nil)
		if err != nil {
			return "", fmt.Errorf("PDF解码失败: %w", err)
		}
		text = decoded
	case ".docx":
		decoded, err := d.docx.ExtractText(data)
		if err != nil {
			return "", fmt.Errorf("DOCX解码失败: %w", err)
		}
		text = decoded
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// SupportedExtension 判断扩展名是否受支持，供上传接口提前拒绝
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx":
		return true
	}
	return false
}
