package xlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatLine(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.Local)

	tests := []struct {
		name  string
		tag   int
		level Level
		msg   string
		want  string
	}{
		{
			name:  "Info级别左补空格到5字符",
			tag:   42,
			level: LevelInfo,
			msg:   "服务已启动",
			want:  "2025-03-14 09:26:53.589 [00042][ INFO] 服务已启动\n",
		},
		{
			name:  "Error级别恰好5字符无补齐",
			tag:   9999,
			level: LevelError,
			msg:   "connect refused",
			want:  "2025-03-14 09:26:53.589 [09999][ERROR] connect refused\n",
		},
		{
			name:  "标签零值补满5位",
			tag:   0,
			level: LevelDebug,
			msg:   "x",
			want:  "2025-03-14 09:26:53.589 [00000][DEBUG] x\n",
		},
		{
			name:  "空消息仍输出完整前缀",
			tag:   7,
			level: LevelWarn,
			msg:   "",
			want:  "2025-03-14 09:26:53.589 [00007][ WARN] \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatLine(ts, tt.tag, tt.level, tt.msg)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFormatLineMillisecondPadding(t *testing.T) {
	// 毫秒字段固定3位补零，不因数值小而变短
	ts := time.Date(2025, 1, 2, 3, 4, 5, 7_000_000, time.Local)
	got := FormatLine(ts, 1, LevelInfo, "m")
	assert.Equal(t, "2025-01-02 03:04:05.007 [00001][ INFO] m\n", string(got))
}
