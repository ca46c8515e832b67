// Package xrelay 提供日志行的异步落盘转发。
//
// [Relay] 在调用方与阻塞的磁盘写入之间放置一个有界队列和唯一的
// 后台消费者：Enqueue 永不阻塞调用方，消费者按提交顺序逐行写入
// 底层 writer（FIFO）。
//
// # 背压策略
//
// 队列满时新行被丢弃（drop-new），丢弃经 Observer 计数。选择丢弃
// 而不是阻塞：日志调用不允许反压业务控制流，这是异步模式的既定
// 取舍——换来的代价是进程突然终止时可能丢失未落盘的行。
//
// # 关闭语义
//
// Stop 幂等；Stop 之前入队的所有行都会在消费者退出前写完（排空）。
package xrelay
