package xfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Sanitize 校验并规范化路径格式。
//
// 检查项：
//   - 非空
//   - 不包含空字节
//   - 规范化后不含 ".." 路径段（防止相对路径穿越）
//
// 返回 filepath.Clean 后的路径。本函数只做格式校验，不限制目标目录，
// 也不解析符号链接。
func Sanitize(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path %q: %w", path, ErrNullByte)
	}

	cleaned := filepath.Clean(path)
	if hasTraversal(cleaned) {
		return "", fmt.Errorf("path %q: %w", path, ErrPathTraversal)
	}
	return cleaned, nil
}

// hasTraversal 检查规范化后的路径是否包含 ".." 独立路径段。
//
// filepath.Clean 已合并可消去的 ".."，残留的 ".." 段意味着路径
// 试图越过起始目录。只匹配完整路径段，"..config" 这类文件名不会误判。
func hasTraversal(cleaned string) bool {
	for _, seg := range strings.Split(cleaned, string(filepath.Separator)) {
		if seg == ".." {
			return true
		}
	}
	return false
}
