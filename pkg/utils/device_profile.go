package utils

import (
	"runtime"

	"github.com/pbnjay/memory"
)

// DeviceProfile 设备能力概况，用于选择帧调度器的目标帧率
// MemoryGB 为 0 表示未知
type DeviceProfile struct {
	Cores    int
	MemoryGB float64
	Mobile   bool
}

// DetectDeviceProfile 探测当前设备能力
// 平台不支持查询物理内存时 MemoryGB 为 0
func DetectDeviceProfile() DeviceProfile {
	return DeviceProfile{
		Cores:    runtime.NumCPU(),
		MemoryGB: memoryGB(memory.TotalMemory()),
		Mobile:   IsMobile(),
	}
}

// memoryGB 字节数转换为 GB
func memoryGB(totalBytes uint64) float64 {
	return float64(totalBytes) / (1 << 30)
}
