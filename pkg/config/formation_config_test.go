package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultFormationConfig(t *testing.T) {
	cfg := DefaultFormationConfig()

	if cfg.HoverRadius != 120 {
		t.Errorf("HoverRadius: got %v, want 120", cfg.HoverRadius)
	}
	if cfg.FormationSpeed != 8 {
		t.Errorf("FormationSpeed: got %v, want 8", cfg.FormationSpeed)
	}
	if cfg.FormedThreshold != 0.7 {
		t.Errorf("FormedThreshold: got %v, want 0.7", cfg.FormedThreshold)
	}
	if cfg.CubeRevealDelayMs != 300 || cfg.DialogDelayMs != 300 {
		t.Errorf("delays: got %v/%v, want 300/300", cfg.CubeRevealDelayMs, cfg.DialogDelayMs)
	}
	if cfg.RotationSpeed != 0.5 {
		t.Errorf("RotationSpeed: got %v, want 0.5", cfg.RotationSpeed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestParseFormationConfig(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		validate func(*testing.T, FormationConfig)
	}{
		{
			name:    "empty uses defaults",
			content: "",
			validate: func(t *testing.T, cfg FormationConfig) {
				if cfg != DefaultFormationConfig() {
					t.Errorf("expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name:    "partial override keeps other defaults",
			content: "hoverRadius: 90\n",
			validate: func(t *testing.T, cfg FormationConfig) {
				if cfg.HoverRadius != 90 {
					t.Errorf("HoverRadius: got %v, want 90", cfg.HoverRadius)
				}
				if cfg.FormationSpeed != 8 {
					t.Errorf("FormationSpeed should keep default, got %v", cfg.FormationSpeed)
				}
			},
		},
		{name: "zero hover radius", content: "hoverRadius: 0\n", wantErr: true},
		{name: "threshold above one", content: "formedThreshold: 1.2\n", wantErr: true},
		{name: "negative rotation", content: "rotationSpeed: -1\n", wantErr: true},
		{name: "amplitude range inverted", content: "minFloatAmplitude: 0.5\nmaxFloatAmplitude: 0.1\n", wantErr: true},
		{name: "colour out of range", content: "baseColor: [1.5, 0, 0]\n", wantErr: true},
		{name: "intensity range inverted", content: "lowIntensity: 1.2\nhighIntensity: 0.8\n", wantErr: true},
		{name: "malformed", content: "hoverRadius: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFormationConfig([]byte(tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got config %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestShippedFormationConfig(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "formation.yaml"))
	if err != nil {
		t.Fatalf("read shipped formation.yaml: %v", err)
	}
	cfg, err := ParseFormationConfig(data)
	if err != nil {
		t.Fatalf("shipped formation.yaml invalid: %v", err)
	}
	if cfg.HoverRadius != 120 {
		t.Errorf("shipped HoverRadius = %v, want 120", cfg.HoverRadius)
	}
}

func TestParticleCountFor(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{"full hd is capped", 1920, 1080, 100},
		{"small viewport", 400, 300, 8},
		{"exact multiple", 150, 100, 1},
		{"below one particle", 100, 100, 0},
		{"zero width", 0, 600, 0},
		{"negative height", 800, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParticleCountFor(tt.width, tt.height); got != tt.want {
				t.Errorf("ParticleCountFor(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}
