package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// settingsSubdir gdata 在应用数据目录下使用的子目录
const settingsSubdir = "settings"

// PackageFromCmdline 从 /proc/self/cmdline 内容中取出进程名（第一个 NUL 之前的部分）
// Android 上进程名即应用包名
func PackageFromCmdline(data []byte) (string, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	name := string(bytes.TrimSpace(data))
	if name == "" {
		return "", fmt.Errorf("empty process name in cmdline")
	}
	return name, nil
}

// ensureWritableDir 创建目录并验证可写
func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}
	marker := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(marker, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", dir, err)
	}
	return os.Remove(marker)
}
