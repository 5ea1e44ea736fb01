package session

// Role 连接角色
type Role int

const (
	// RoleUnknown 未识别角色，join 之前的初始状态
	RoleUnknown Role = iota
	// RoleDesktop 桌面端
	RoleDesktop
	// RoleMobile 移动端
	RoleMobile
)

// ParseClientType 将线上客户端类型映射为角色
// 未知类型一律归为 RoleUnknown，不报错
func ParseClientType(clientType string) Role {
	switch clientType {
	case "pc":
		return RoleDesktop
	case "iphone":
		return RoleMobile
	}
	return RoleUnknown
}

// String 返回角色名
func (r Role) String() string {
	switch r {
	case RoleDesktop:
		return "desktop"
	case RoleMobile:
		return "mobile"
	}
	return "unknown"
}

// ClientType 返回线上客户端类型表示
func (r Role) ClientType() string {
	switch r {
	case RoleDesktop:
		return "pc"
	case RoleMobile:
		return "iphone"
	}
	return "unknown"
}
