package xfile

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrNullByte 表示路径中包含空字节（\x00）。
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrPathTraversal 表示检测到相对路径穿越（".." 路径段）。
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrInvalidPerm 表示目录权限无效（缺少所有者执行位，目录无法遍历）。
	ErrInvalidPerm = errors.New("xfile: invalid directory permission")
)
