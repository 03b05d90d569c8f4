package utils

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestCNPJ(t *testing.T) {
	cases := map[string]bool{
		"11.222.333/0001-81": true,
		"11444777000161":     true,
		"11222333000182":     false,
		"11111111111111":     false,
		"1122233300018":      false,
		"11a22333000181":     false,
	}

	for raw, want := range cases {
		if got := IsCNPJValid(NormalizeCNPJ(raw)); got != want {
			t.Errorf("IsCNPJValid(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestSanitize(t *testing.T) {
	name := "  Maria  "
	req := struct {
		Email string
		Name  *string
		Tags  []string
	}{
		Email: " maria@padaria.com.br\n",
		Name:  &name,
		Tags:  []string{" a ", "b "},
	}

	Sanitize(&req)

	if req.Email != "maria@padaria.com.br" || name != "Maria" || req.Tags[0] != "a" || req.Tags[1] != "b" {
		t.Fatalf("fields were not trimmed: %+v %q", req, name)
	}
}

func TestSanitizeDropsControlCharacters(t *testing.T) {
	req := struct {
		Reason string
		hidden string
	}{Reason: "Esqueci\x00 de bater\no ponto\x1b ", hidden: " x "}

	Sanitize(&req)

	if req.Reason != "Esqueci de bater\no ponto" {
		t.Fatalf("unexpected reason %q", req.Reason)
	}
	if req.hidden != " x " {
		t.Fatal("unexported fields must be left alone")
	}
}

func TestFormatEpoch(t *testing.T) {
	if got := FormatEpoch(0); got != "" {
		t.Fatalf("zero epoch should render empty, got %q", got)
	}
	if got := FormatEpoch(1772449200000); got != "2026-03-02T11:00:00Z" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestDecodePhoto(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	encoded := base64.StdEncoding.EncodeToString(png)

	data, ext, err := DecodePhoto("data:image/png;base64,"+encoded, 1024)
	if err != nil || ext != ".png" || len(data) != len(png) {
		t.Fatalf("data url: %d %q %v", len(data), ext, err)
	}

	if _, ext, err := DecodePhoto(encoded, 1024); err != nil || ext != ".png" {
		t.Fatalf("bare base64: %q %v", ext, err)
	}

	if _, _, err := DecodePhoto("data:image/png;base64,", 1024); !errors.Is(err, ErrEmptyPhoto) {
		t.Fatalf("expected ErrEmptyPhoto, got %v", err)
	}

	if _, _, err := DecodePhoto(encoded, 8); !errors.Is(err, ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}

	text := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("hello ", 4)))
	if _, _, err := DecodePhoto(text, 1024); !errors.Is(err, ErrUnsupportedPhoto) {
		t.Fatalf("expected ErrUnsupportedPhoto, got %v", err)
	}

	if _, _, err := DecodePhoto("%%%", 1024); err == nil {
		t.Fatal("expected a decoding error")
	}
}
