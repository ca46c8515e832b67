// Package xproc 提供当前进程的标识信息。
//
// xrlog 的磁盘布局为 <path>/<进程名>/<stem>.log，注册日志实例时
// 需要可靠地获取进程名，本包负责这一解析并缓存结果。
package xproc

import (
	"os"
	"path/filepath"
	"sync"
)

// FallbackName 进程名无法解析时使用的占位名称。
//
// 极端情况下（os.Executable 与 os.Args[0] 均不可用）日志目录
// 仍需要一个确定的名字，不能因此拒绝注册。
const FallbackName = "unknown"

// osExecutable 是 os.Executable 的包级变量，支持测试中 mock。
var osExecutable = os.Executable

var (
	nameOnce  sync.Once
	nameValue string
)

// ID 返回当前进程 ID。
func ID() int {
	return os.Getpid()
}

// baseName 提取路径的基础文件名。
// 对 [filepath.Base] 返回的特殊值（"."、".."、路径分隔符）返回空字符串。
func baseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// resolveName 执行实际的进程名解析。
// 优先使用 [os.Executable]（不受 os.Args 修改影响），失败时回退到 os.Args[0]。
func resolveName() string {
	if exe, err := osExecutable(); err == nil && exe != "" {
		if name := baseName(exe); name != "" {
			return name
		}
	}
	if len(os.Args) > 0 && os.Args[0] != "" {
		if name := baseName(os.Args[0]); name != "" {
			return name
		}
	}
	return FallbackName
}

// Name 返回当前进程名称（不含路径）。
//
// 结果在首次调用时缓存，后续调用无系统调用开销。所有来源均无效时
// 返回 [FallbackName]，调用方无需做二次判空。
func Name() string {
	nameOnce.Do(func() {
		nameValue = resolveName()
	})
	return nameValue
}
