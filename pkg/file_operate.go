package pkg

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CheckFileExist 检查文件是否存在
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadText 读取文本文件并转成 UTF-8
//
// A UTF-8 or UTF-16 byte order mark selects the encoding and is dropped;
// files without one are read as UTF-8. Dump and source files redirected from
// a Windows shell are commonly UTF-16 with a BOM.
func ReadText(filePath string) (string, error) {
	exist, err := CheckFileExist(filePath)
	if err != nil {
		return "", fmt.Errorf("check file %s: %w", filePath, err)
	}
	if !exist {
		return "", fmt.Errorf("file %s: %w", filePath, os.ErrNotExist)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return DecodeText(f)
}

// DecodeText 按 BOM 解码 r 的全部内容
func DecodeText(r io.Reader) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(data), nil
}
