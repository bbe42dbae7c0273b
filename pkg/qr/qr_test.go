package qr

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSize(t *testing.T) {
	tests := []struct {
		w, h int
		fill float64
		want int
	}{
		{1000, 800, 0.825, 660},
		{800, 1000, 0, 660},
		{1000, 800, 0.5, 400},
		{10, 10, 0.825, MinSize},
	}
	for _, tt := range tests {
		if got := Size(tt.w, tt.h, tt.fill); got != tt.want {
			t.Errorf("Size(%d, %d, %v) = %d, want %d", tt.w, tt.h, tt.fill, got, tt.want)
		}
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG("si=AB;mn=5", 256)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 256 {
		t.Fatalf("expected 256px wide image, got %d", img.Bounds().Dx())
	}
}

func TestWriteFileAndTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code.png")
	if err := WriteFile("si=AB", 128, path); err != nil {
		t.Fatal(err)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Fatalf("expected non-empty file: %v", err)
	}

	out, err := Terminal("si=AB")
	if err != nil {
		t.Fatal(err)
	}
	if len(strings.Split(strings.TrimSpace(out), "\n")) < 5 {
		t.Fatalf("terminal rendering too small:\n%s", out)
	}
}

func TestEmpty(t *testing.T) {
	if _, err := PNG("", 100); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
