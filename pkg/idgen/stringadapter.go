package idgen

import "strconv"

// numericStringGenerator 把数值生成器适配为字符串生成器
type numericStringGenerator struct {
	gen      Generator
	prefix   string
	fallback StringGenerator
}

// NewNumericString 基于数值生成器创建字符串 ID 生成器
// 数值生成失败时退化为时间戳随机串，保证永远能返回 ID
func NewNumericString(g Generator, prefix string) StringGenerator {
	return &numericStringGenerator{
		gen:      g,
		prefix:   prefix,
		fallback: NewTimeRand(prefix, 4),
	}
}

func (g *numericStringGenerator) Next() string {
	id, err := g.gen.NextID()
	if err != nil {
		return g.fallback.Next()
	}
	if g.prefix != "" {
		return g.prefix + "-" + strconv.FormatInt(id, 10)
	}
	return strconv.FormatInt(id, 10)
}
