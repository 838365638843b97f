package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPackageFromCmdline(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{"只有进程名", "com.gonewx.clubhero\x00", "com.gonewx.clubhero", false},
		{"带参数", "com.gonewx.clubhero\x00--flag\x00", "com.gonewx.clubhero", false},
		{"无 NUL", "com.gonewx.clubhero\n", "com.gonewx.clubhero", false},
		{"空", "", "", true},
		{"只有 NUL", "\x00\x00", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PackageFromCmdline([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsureWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app", settingsSubdir)
	if err := ensureWritableDir(dir); err != nil {
		t.Fatalf("ensureWritableDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write_test")); !os.IsNotExist(err) {
		t.Error("write test file should be removed")
	}
}
