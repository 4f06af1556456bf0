package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── 时刻与日期辅助 ──

// ParseClock 解析 "HH:MM" 为自 00:00 起的分钟数
func ParseClock(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("无效的时刻格式 %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("无效的时刻格式 %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的时刻格式 %q", hhmm)
	}
	return h*60 + m, nil
}

// toMinutes 内部热路径版本：模板与追踪整点均为常量，解析失败按 0 处理
func toMinutes(hhmm string) int {
	m, _ := ParseClock(hhmm)
	return m
}

// minutesToClock 分钟数转 "HH:MM"
func minutesToClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// DateKey 日期转 ISO 字符串（标记与覆写均以此为键）
func DateKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// ParseDateKey 解析 ISO 日期字符串
func ParseDateKey(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的日期格式 %q", s)
	}
	return d, nil
}

// coversHour 模板/班次区间 [start, end) 是否包含某整点
func coversHour(start, end, hour string) bool {
	t := toMinutes(hour)
	return toMinutes(start) <= t && t < toMinutes(end)
}
