package utils

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"io"
)

// MaxDecompressedSize bounds the output of Gzip64Decode.
const MaxDecompressedSize = 64 * Megabyte

var ErrDecompressedTooLarge = errors.New("decompressed data exceeds size limit")

func Gzip64Encode(data []byte) (string, error) {
	var compressedBuffer bytes.Buffer
	gzipWriter := gzip.NewWriter(&compressedBuffer)
	if _, err := gzipWriter.Write(data); err != nil {
		return "", err
	}
	if err := gzipWriter.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(compressedBuffer.Bytes()), nil
}

// Gzip64Decode reverses Gzip64Encode. Input which inflates past
// MaxDecompressedSize is rejected.
func Gzip64Decode(data string) ([]byte, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	gzipReader, err := gzip.NewReader(bytes.NewReader(decodedBytes))
	if err != nil {
		return nil, err
	}
	defer gzipReader.Close()

	decompressedBytes, err := io.ReadAll(io.LimitReader(gzipReader, MaxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if len(decompressedBytes) > MaxDecompressedSize {
		return nil, ErrDecompressedTooLarge
	}
	return decompressedBytes, nil
}
