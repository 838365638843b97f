package game

import "testing"

func TestLoadFontCaches(t *testing.T) {
	rm := NewResourceManager()

	face, err := rm.LoadFont(FontRegular, 15)
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if face.Size != 15 {
		t.Errorf("face size = %v, want 15", face.Size)
	}

	again, err := rm.LoadFont(FontRegular, 15)
	if err != nil || again != face {
		t.Error("second LoadFont should return the cached face")
	}
	bigger, err := rm.LoadFont(FontRegular, 20)
	if err != nil || bigger == face {
		t.Error("a different size should get its own face")
	}

	bold, err := rm.LoadFont(FontBold, 15)
	if err != nil {
		t.Fatalf("LoadFont bold: %v", err)
	}
	if bold.Source == face.Source {
		t.Error("bold and regular faces must not share a source")
	}
}

func TestLoadFontUnknown(t *testing.T) {
	rm := NewResourceManager()
	if _, err := rm.LoadFont("comic-sans", 12); err == nil {
		t.Error("expected error for unknown font")
	}
}

func TestDiscCoverage(t *testing.T) {
	tests := []struct {
		dist, radius, want float64
	}{
		{0, 3, 1},
		{2.5, 3, 1},
		{3, 3, 0.5},
		{3.5, 3, 0},
		{10, 3, 0},
	}
	for _, tt := range tests {
		if got := discCoverage(tt.dist, tt.radius); got != tt.want {
			t.Errorf("discCoverage(%v, %v) = %v, want %v", tt.dist, tt.radius, got, tt.want)
		}
	}
}
