package constants

import "testing"

func TestNormalizeExt(t *testing.T) {
	cases := map[string]string{
		".PDF": "pdf",
		"Jpg":  "jpg",
		"":     "",
		".png": "png",
	}
	for in, want := range cases {
		if got := NormalizeExt(in); got != want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapExtToFormat(t *testing.T) {
	cases := map[string]FileFormat{
		".pdf":  PDF,
		".JPEG": IMAGE,
		"png":   IMAGE,
		".gif":  UNKNOWN,
		"":      UNKNOWN,
	}
	for in, want := range cases {
		if got := MapExtToFormat(in); got != want {
			t.Errorf("MapExtToFormat(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestMapMIMEToFormat(t *testing.T) {
	cases := map[string]FileFormat{
		"application/pdf": PDF,
		"image/png":       IMAGE,
		"image/jpeg":      IMAGE,
		"text/plain":      UNKNOWN,
	}
	for in, want := range cases {
		if got := MapMIMEToFormat(in); got != want {
			t.Errorf("MapMIMEToFormat(%q) = %s, want %s", in, got, want)
		}
	}
}
