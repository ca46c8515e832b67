package xlog

import (
	"fmt"
	"os"
	"time"

	"github.com/omeyang/xrlog/pkg/xrelay"
	"github.com/omeyang/xrlog/pkg/xrotate"
)

// osExit 是 os.Exit 的包级变量，支持测试中 mock
var osExit = os.Exit

// Logger 一个命名日志实例
//
// 实例名 + 共享的轮转写入器句柄（同步模式）或异步转发器。多个
// Logger 指针（或 [Logger.Clone] 的副本）共享同一份文件状态，写入
// 经写入器内部的锁串行化；句柄自身不持有额外可变状态。
//
// 写入失败的处理是调用方的选择：[Logger.Log] 返回底层错误供检查，
// Debugf/Infof/Warnf/Errorf 按设计吞掉它——日志失败不允许进入
// 业务控制流。
type Logger struct {
	name  string
	rot   xrotate.Rotator
	relay *xrelay.Relay // nil 表示同步模式
}

// Name 返回实例名
func (l *Logger) Name() string {
	return l.name
}

// Clone 返回共享同一文件状态的副本
//
// 副本与原 Logger 指向同一个轮转写入器（和异步转发器），绝不复制
// 文件句柄。
func (l *Logger) Clone() *Logger {
	c := *l
	return &c
}

// Log 记录一条日志，返回底层写入结果
//
// 行渲染为 <时间戳> [<goroutine标签>][<级别>] <消息>。异步模式下
// 入队即返回：队列满时返回 [ErrLineDropped]，行已丢弃。
func (l *Logger) Log(level Level, msg string) error {
	line := FormatLine(time.Now(), goroutineTag(), level, msg)

	if l.relay != nil {
		if !l.relay.Enqueue(line) {
			return ErrLineDropped
		}
		return nil
	}

	_, err := l.rot.Write(line)
	return err
}

// Logf 按 format 渲染消息后记录，返回底层写入结果
func (l *Logger) Logf(level Level, format string, args ...any) error {
	return l.Log(level, fmt.Sprintf(format, args...))
}

// Debugf 记录 Debug 级别日志，写入失败被吞掉
func (l *Logger) Debugf(format string, args ...any) {
	_ = l.Logf(LevelDebug, format, args...)
}

// Infof 记录 Info 级别日志，写入失败被吞掉
func (l *Logger) Infof(format string, args ...any) {
	_ = l.Logf(LevelInfo, format, args...)
}

// Warnf 记录 Warn 级别日志，写入失败被吞掉
func (l *Logger) Warnf(format string, args ...any) {
	_ = l.Logf(LevelWarn, format, args...)
}

// Errorf 记录 Error 级别日志，写入失败被吞掉
func (l *Logger) Errorf(format string, args ...any) {
	_ = l.Logf(LevelError, format, args...)
}

// Fatalf 记录 Fatal 级别日志后以退出码 1 终止进程
//
// 退出前尽力落盘：异步模式排空队列，同步模式强制 sync。写入尝试
// 无论成败都会退出——这是日志调用唯一允许的 I/O 之外的副作用。
func (l *Logger) Fatalf(format string, args ...any) {
	_ = l.Logf(LevelFatal, format, args...)
	l.flushBeforeExit()
	osExit(1)
}

// flushBeforeExit Fatal 路径的尽力落盘，失败也不阻止退出
func (l *Logger) flushBeforeExit() {
	if l.relay != nil {
		l.relay.Stop()
		return
	}
	_ = l.rot.Sync()
}

// Sync 将该实例已写入的数据强制落盘
func (l *Logger) Sync() error {
	return l.rot.Sync()
}
