package service

import (
	"mime"
	"net/http"
	"path/filepath"
)

// DetectContentType prefers the declared type, then the file extension, then
// sniffing the bytes.
func DetectContentType(declared, filename string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}
