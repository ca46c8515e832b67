package xmetrics

// Observer 定义日志内部事件的计数接口。
//
// 所有方法都在写入热路径上同步调用，实现必须轻量且并发安全，
// 不得向任何 xrlog 实例写日志（会造成递归写入）。
type Observer interface {
	// WriteBytes 上报一次成功写入的字节数。
	WriteBytes(n int)

	// Rotation 上报一次轮转；err 非 nil 表示轮转失败。
	Rotation(err error)

	// WriteError 上报一次写入失败。
	WriteError()

	// Dropped 上报异步队列满导致的一次丢行。
	Dropped()
}

// Noop 是 Observer 的空实现。
type Noop struct{}

// WriteBytes 空操作。
func (Noop) WriteBytes(int) {}

// Rotation 空操作。
func (Noop) Rotation(error) {}

// WriteError 空操作。
func (Noop) WriteError() {}

// Dropped 空操作。
func (Noop) Dropped() {}

// 编译时断言
var _ Observer = Noop{}
