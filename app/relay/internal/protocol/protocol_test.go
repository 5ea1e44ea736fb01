package protocol

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		kind    Kind
	}{
		{"join", `{"type":"join","sessionId":"s1","data":{"type":"pc"}}`, false, KindJoin},
		{"command", `{"type":"command","sessionId":"s1","data":{"command":"lock"}}`, false, KindCommand},
		{"ping without data", `{"type":"ping"}`, false, KindPing},
		{"unknown kind decodes", `{"type":"banana"}`, false, Kind("banana")},
		{"not json", `{{{`, true, ""},
		{"missing type", `{"sessionId":"s1"}`, true, ""},
		{"json array", `[1,2,3]`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedFrame))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, env.Type)
		})
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindJoin, KindCommand, KindResponse, KindPing, KindStatus, KindTyping} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, Kind("banana").Valid())
	assert.False(t, Kind("").Valid())
}

func TestJoinPayload(t *testing.T) {
	env, err := Decode([]byte(`{"type":"join","data":{"type":"iphone"}}`))
	require.NoError(t, err)

	d, err := env.JoinPayload()
	require.NoError(t, err)
	assert.Equal(t, "iphone", d.Type)

	// data 缺失退化为未知客户端类型
	env, err = Decode([]byte(`{"type":"join"}`))
	require.NoError(t, err)
	d, err = env.JoinPayload()
	require.NoError(t, err)
	assert.Empty(t, d.Type)

	// data 形状不符
	env, err = Decode([]byte(`{"type":"join","data":[1]}`))
	require.NoError(t, err)
	_, err = env.JoinPayload()
	assert.True(t, errors.Is(err, ErrPayloadShape))
}

func TestObjectPayload(t *testing.T) {
	env, err := Decode([]byte(`{"type":"command","data":{"command":"start","args":[1,2]}}`))
	require.NoError(t, err)

	d, err := env.ObjectPayload()
	require.NoError(t, err)
	assert.Equal(t, "start", d["command"])

	env, err = Decode([]byte(`{"type":"command","data":"not-an-object"}`))
	require.NoError(t, err)
	_, err = env.ObjectPayload()
	assert.True(t, errors.Is(err, ErrPayloadShape))
}

func TestTypingPayload(t *testing.T) {
	env, err := Decode([]byte(`{"type":"typing","data":{"isTyping":true,"from":"mobile"}}`))
	require.NoError(t, err)

	d, err := env.TypingPayload()
	require.NoError(t, err)
	assert.True(t, d.IsTyping)
	assert.Equal(t, "mobile", d.From)

	env, err = Decode([]byte(`{"type":"typing"}`))
	require.NoError(t, err)
	_, err = env.TypingPayload()
	assert.True(t, errors.Is(err, ErrPayloadShape))
}

func TestNewEnvelopeEncode(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	env, err := NewEnvelope(KindStatus, "s1", AckStatus{Received: true, CommandID: "c1"}, at)
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), env.Timestamp)

	raw, err := env.Encode()
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, KindStatus, decoded.Type)
	assert.Equal(t, "s1", decoded.SessionID)
	assert.JSONEq(t, `{"received":true,"commandId":"c1"}`, string(decoded.Data))
}
