package xlog

import (
	"bytes"
	"runtime"

	"github.com/cespare/xxhash/v2"
)

// tagModulus 标签取值范围上界：标签落在 [0, 10000)
const tagModulus = 10000

// goroutinePrefix 运行时栈首行前缀，形如 "goroutine 123 [running]:"
var goroutinePrefix = []byte("goroutine ")

// goroutineTag 返回当前 goroutine 的短数字标签
//
// 从运行时栈首行提取 goroutine id，经 xxhash 映射到 [0, 10000)。
// 标签在 goroutine 生命周期内稳定，仅用于人工关联交错的日志行——
// 可能碰撞，不是唯一性或安全保证，也不承载任何正确性语义。
func goroutineTag() int {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	id := buf[:n]
	if !bytes.HasPrefix(id, goroutinePrefix) {
		return 0
	}
	id = id[len(goroutinePrefix):]
	if i := bytes.IndexByte(id, ' '); i > 0 {
		id = id[:i]
	}
	return int(xxhash.Sum64(id) % tagModulus)
}
