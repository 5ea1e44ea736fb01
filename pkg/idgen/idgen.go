package idgen

// Generator 数值 ID 生成器接口
type Generator interface {
	// NextID 生成下一个唯一ID
	NextID() (int64, error)
}

// StringGenerator 字符串 ID 生成器接口
// 用于需要不透明字符串标识的场景（如连接标识）
type StringGenerator interface {
	// Next 生成下一个唯一字符串 ID
	Next() string
}
