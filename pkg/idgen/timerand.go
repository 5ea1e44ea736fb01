package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// timeRandGenerator 时间戳 + 随机后缀的字符串 ID 生成器
// 格式：<毫秒时间戳>-<hex 随机串>，同一进程内永不重复
type timeRandGenerator struct {
	prefix      string
	suffixBytes int
}

// NewTimeRand 创建字符串 ID 生成器
// prefix 可为空；suffixBytes 为随机后缀的字节数（最少 4）
func NewTimeRand(prefix string, suffixBytes int) StringGenerator {
	if suffixBytes < 4 {
		suffixBytes = 4
	}
	return &timeRandGenerator{prefix: prefix, suffixBytes: suffixBytes}
}

func (g *timeRandGenerator) Next() string {
	buf := make([]byte, g.suffixBytes)
	_, _ = rand.Read(buf)

	id := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + hex.EncodeToString(buf)
	if g.prefix != "" {
		return g.prefix + "-" + id
	}
	return id
}
