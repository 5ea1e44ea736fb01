package session

import "github.com/cockroachdb/errors"

var (
	// ErrDuplicateIdentity 注册时连接标识已存在
	ErrDuplicateIdentity = errors.New("session: duplicate connection identity")

	// ErrPeerNotFound 连接不存在
	ErrPeerNotFound = errors.New("session: peer not found")
)
