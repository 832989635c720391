package util

import "testing"

func TestIsSupportedDocument(t *testing.T) {
	cases := map[string]bool{
		"report.pdf":    true,
		"REPORT.PDF":    true,
		"notes.txt":     true,
		"letter.docx":   true,
		"letter.doc":    false,
		"image.png":     false,
		"archive.tar":   false,
		"no-extension":  false,
		"dir.pdf/x.csv": false,
	}
	for name, want := range cases {
		if got := IsSupportedDocument(name); got != want {
			t.Errorf("IsSupportedDocument(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestPickDocumentMIME(t *testing.T) {
	pdf := []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj\n")
	cases := []struct {
		name     string
		explicit string
		file     string
		head     []byte
		want     string
	}{
		{"explicit wins", "application/pdf", "a.txt", []byte("hello"), "application/pdf"},
		{"octet-stream ignored", "application/octet-stream", "a.pdf", pdf, "application/pdf"},
		{"sniffed pdf", "", "upload.bin", pdf, "application/pdf"},
		{"text by extension", "", "a.txt", []byte("plain words"), "text/plain"},
		{"docx by extension", "", "a.docx", []byte("PK\x03\x04"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"no data", "", "a.pdf", nil, "application/pdf"},
		{"unknown", "", "blob", nil, "application/octet-stream"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PickDocumentMIME(tc.explicit, tc.file, tc.head); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
