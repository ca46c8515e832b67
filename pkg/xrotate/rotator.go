package xrotate

import "io"

// 编译时断言：Rotator 接口是 io.WriteCloser 的超集
var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器接口
//
// 隐式实现 [io.WriteCloser]，可直接用于任何接受 io.Writer 或
// io.WriteCloser 的场景（如 xlog 的写入通道、xrelay 的落盘端）。
// 所有实现都必须是并发安全的。
//
// 扩展新实现时，必须满足以下约定：
//   - Write 必须是并发安全的，且同一 Rotator 上的写入串行化（单行不被撕裂）
//   - Close 后调用任何方法应返回 [ErrClosed]
//   - Rotate 可以在任意时刻调用
type Rotator interface {
	// Write 写入日志数据
	// 当本次写入会超过大小上限时，先自动执行轮转
	Write(p []byte) (n int, err error)

	// Sync 将已写入的数据强制落盘
	Sync() error

	// Rotate 手动触发日志轮转
	// 把活动文件移入备份窗口，创建新的活动文件
	Rotate() error

	// Close 关闭轮转器，释放文件句柄
	// 重复调用应返回 [ErrClosed]
	Close() error
}
