// Package xfile 提供日志目录与路径的基础文件系统操作。
//
// 本包只收录 xrlog 自身需要的最小集合：目录创建与路径格式校验。
// 所有函数都考虑了安全性（空字节防护、相对路径穿越检测）。
//
// # 路径穿越检测
//
// 穿越检测使用精确的路径段匹配，只有 ".." 作为独立路径段时才被视为
// 穿越。以 ".." 开头的合法文件名（如 "..config"）不会被误判。
//
// # 空字节防护
//
// 所有入口均拒绝包含空字节（\x00）的路径。Linux 内核在 VFS 层会在
// 空字节处截断路径，导致 Go 代码与操作系统实际操作的路径不一致。
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断。
package xfile
