// Package protocol 定义中继服务的线上消息格式。
// 所有帧都是 JSON 对象，按 type 字段区分种类，data 载荷逐种类校验。
package protocol

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// Kind 帧种类
type Kind string

const (
	KindJoin     Kind = "join"
	KindCommand  Kind = "command"
	KindResponse Kind = "response"
	KindPing     Kind = "ping"
	KindStatus   Kind = "status"
	KindTyping   Kind = "typing"
)

// DefaultSessionKey join 帧未携带会话键时的默认值
const DefaultSessionKey = "050518"

// Valid 报告该种类是否为协议已知种类
func (k Kind) Valid() bool {
	switch k {
	case KindJoin, KindCommand, KindResponse, KindPing, KindStatus, KindTyping:
		return true
	}
	return false
}

// Envelope 线上帧
// 除 type/sessionId/data 外的字段均为可选
type Envelope struct {
	Type      Kind            `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	From      string          `json:"from,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"` // epoch millis
}

// 载荷类型

// JoinData join 帧载荷，type 为客户端类型（pc / iphone / unknown）
type JoinData struct {
	Type string `json:"type"`
}

// TypingData typing 帧载荷
type TypingData struct {
	IsTyping bool   `json:"isTyping"`
	From     string `json:"from,omitempty"`
}

// ConnectedStatus 连接建立时服务端下发的 status 载荷
type ConnectedStatus struct {
	Connected bool   `json:"connected"`
	ClientID  string `json:"clientId"`
	Message   string `json:"message"`
}

// JoinedStatus 有成员加入会话时广播的 status 载荷
type JoinedStatus struct {
	Event      string `json:"event"`
	ClientType string `json:"clientType"`
	Online     int    `json:"online"`
}

// AckStatus 命令入账后回执给发送方的 status 载荷
type AckStatus struct {
	Received  bool   `json:"received"`
	CommandID string `json:"commandId"`
}

var (
	// ErrMalformedFrame 帧本身不是合法 JSON 对象
	ErrMalformedFrame = errors.New("protocol: malformed frame")

	// ErrPayloadShape data 载荷与声明的种类不匹配
	ErrPayloadShape = errors.New("protocol: payload does not match kind")
)

// Decode 解析一个入站帧
// 只校验信封结构，种类是否已知由分发层判断
func Decode(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.WithDetail(ErrMalformedFrame, err.Error())
	}
	if env.Type == "" {
		return nil, errors.WithDetail(ErrMalformedFrame, "missing type field")
	}
	return &env, nil
}

// JoinPayload 解析 join 载荷，data 缺失时返回零值（客户端类型未知）
func (e *Envelope) JoinPayload() (JoinData, error) {
	var d JoinData
	if len(e.Data) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return d, errors.WithDetail(ErrPayloadShape, err.Error())
	}
	return d, nil
}

// ObjectPayload 解析 command / response 的自由对象载荷
// 载荷必须是 JSON 对象，其余形状不做约束
func (e *Envelope) ObjectPayload() (map[string]any, error) {
	if len(e.Data) == 0 {
		return map[string]any{}, nil
	}
	var d map[string]any
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return nil, errors.WithDetail(ErrPayloadShape, err.Error())
	}
	return d, nil
}

// TypingPayload 解析 typing 载荷
func (e *Envelope) TypingPayload() (TypingData, error) {
	var d TypingData
	if len(e.Data) == 0 {
		return d, errors.WithDetail(ErrPayloadShape, "typing frame requires data")
	}
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return d, errors.WithDetail(ErrPayloadShape, err.Error())
	}
	return d, nil
}

// NewEnvelope 构造一个出站帧，data 会被序列化进 data 字段
// 时间戳由调用方传入，便于测试时使用模拟时钟
func NewEnvelope(kind Kind, sessionKey string, data any, now time.Time) (*Envelope, error) {
	env := &Envelope{
		Type:      kind,
		SessionID: sessionKey,
		Timestamp: now.UnixMilli(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, errors.Wrap(err, "protocol: marshal payload")
		}
		env.Data = raw
	}
	return env, nil
}

// Encode 序列化帧
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}
