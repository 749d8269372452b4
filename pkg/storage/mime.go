package storage

import (
	"bufio"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512 // http.DetectContentType looks at most at 512 bytes
)

// extensionTypes covers extensions that mime.TypeByExtension may not know
// on minimal images without /etc/mime.types.
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".txt":  "text/plain; charset=utf-8",
	".csv":  "text/csv; charset=utf-8",
	".json": "application/json",
	".html": "text/html; charset=utf-8",
	".mp4":  "video/mp4",
	".mp3":  "audio/mpeg",
	".zip":  "application/zip",
}

// ContentTypeFromName derives a MIME type from a file name's extension.
// Unknown or missing extensions yield application/octet-stream.
func ContentTypeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return MIMEOctetStream
	}
	if ct, ok := extensionTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return MIMEOctetStream
}

// IsImageMIME reports whether the base type is image/*.
func IsImageMIME(ct string) bool {
	return strings.HasPrefix(normalizeMIME(ct), "image/")
}

func sniff(br *bufio.Reader) string {
	head, _ := br.Peek(mimeDetectionBytes)
	if len(head) == 0 {
		return MIMEOctetStream
	}
	return http.DetectContentType(head)
}

func sniffSeeker(rs io.ReadSeeker) string {
	buf := make([]byte, mimeDetectionBytes)
	n, _ := io.ReadFull(rs, buf)
	_, _ = rs.Seek(0, io.SeekStart)
	if n == 0 {
		return MIMEOctetStream
	}
	return http.DetectContentType(buf[:n])
}

func normalizeMIME(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
