package util

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Document types the API accepts. The server stays the authority; this only
// filters obvious mistakes before a file is sent.
var supported = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// SupportedExtensions returns the accepted extensions without the dot, in display order.
func SupportedExtensions() []string { return []string{"pdf", "docx", "txt"} }

func IsSupportedDocument(name string) bool {
	_, ok := supported[strings.ToLower(filepath.Ext(name))]
	return ok
}

// PickDocumentMIME prefers an explicit MIME, then sniffs the bytes, then falls
// back to the extension. Sniffing alone reports docx as a zip for some
// writers, so a generic result loses to the extension.
func PickDocumentMIME(explicit, name string, head []byte) string {
	if exp := strings.TrimSpace(explicit); exp != "" && exp != "application/octet-stream" {
		return exp
	}
	byExt := supported[strings.ToLower(filepath.Ext(name))]
	if len(head) > 0 {
		m := mimetype.Detect(head)
		switch {
		case m.Is("application/pdf"), m.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
			return m.String()
		case byExt == "" && !m.Is("application/octet-stream"):
			return m.String()
		}
	}
	if byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
