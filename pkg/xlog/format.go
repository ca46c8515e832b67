package xlog

import (
	"fmt"
	"time"
)

// timestampLayout 毫秒精度的时间戳布局，使用本地时区
const timestampLayout = "2006-01-02 15:04:05.000"

// FormatLine 把一条日志渲染为单行文本
//
// 纯函数，无共享状态。输出格式是对外接口，字段顺序与补齐宽度
// 不可更改：
//
//	<时间戳> [<5位补零标签>][<左补齐5字符的大写级别>] <消息>\n
func FormatLine(ts time.Time, tag int, level Level, msg string) []byte {
	return fmt.Appendf(nil, "%s [%05d][%5s] %s\n",
		ts.Format(timestampLayout), tag, level.String(), msg)
}
