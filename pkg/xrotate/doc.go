// Package xrotate 提供按大小轮转的日志文件写入器。
//
// [Rotator] 接口定义轮转器的核心行为（Write/Sync/Rotate/Close），
// 所有实现并发安全。
//
// # 当前实现
//
//   - [NewWindow]: 固定编号窗口轮转。活动文件为 {stem}.log，备份依次为
//     {stem}.1.log（最新）… {stem}.{maxFiles-1}.log（最旧），超出窗口的
//     文件在轮转时删除。
//
// # 轮转语义
//
// 当一次写入会使活动文件超过大小上限时，先轮转再写入，因此触发轮转的
// 那一行总是落在新的活动文件里。轮转失败只上报（OnError 回调，默认
// stderr），不会使写入失败——宁可让活动文件暂时超限，也不丢日志。
//
// # 重启续算
//
// 构造时以追加模式打开活动文件并从文件元数据读取当前大小，进程重启后
// 大小统计从磁盘上的实际长度继续。
//
// # 扩展新实现
//
//  1. 创建新文件实现 Rotator 接口
//  2. 定义独立的 Option 集合与构造函数
//  3. 不修改 Rotator 接口
package xrotate
