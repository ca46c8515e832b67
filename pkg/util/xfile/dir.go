package xfile

import (
	"fmt"
	"os"
	"strings"
)

// DefaultDirPerm 默认目录权限。
//
// 0750：所有者读写执行，组读执行，其他无权限。符合 gosec G301 建议。
const DefaultDirPerm = 0750

// EnsureDir 确保目录存在，不存在时逐级创建。
//
// 使用默认权限 0750。目录已存在时不报错，也不会修改其权限。
// dir 是目录路径本身（不是文件路径）。
func EnsureDir(dir string) error {
	return EnsureDirWithPerm(dir, DefaultDirPerm)
}

// EnsureDirWithPerm 确保目录存在，使用指定权限创建。
//
// perm 必须包含所有者执行位（0100），否则目录无法进入和遍历。
// 不可信输入应先经 [Sanitize] 校验后再调用。
func EnsureDirWithPerm(dir string, perm os.FileMode) error {
	if dir == "" {
		return fmt.Errorf("directory is required: %w", ErrEmptyPath)
	}
	if strings.ContainsRune(dir, 0) {
		return fmt.Errorf("directory contains null byte: %w", ErrNullByte)
	}
	if perm&0100 == 0 {
		return fmt.Errorf("directory permission %04o missing owner execute bit: %w", perm, ErrInvalidPerm)
	}
	return os.MkdirAll(dir, perm)
}
