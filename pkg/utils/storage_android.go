//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 在 gdata 初始化前创建 /data/data/{package}/settings
// gdata 在 Android 上不会预先创建子目录
func EnsureStorageDir() error {
	root := GetStoragePath()
	if root == "" {
		return fmt.Errorf("failed to detect Android package name")
	}
	return ensureWritableDir(filepath.Join(root, settingsSubdir))
}

// GetStoragePath 返回应用数据目录，检测失败时为空
func GetStoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	pkg, err := PackageFromCmdline(data)
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", pkg)
}
