package idgen

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sony/sonyflake"
)

// 命令 ID 的纪元起点，早于服务上线即可，之后不能再改
var flakeEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// flakeGenerator Sonyflake 数值 ID 生成器
// 单进程部署下 machineID 区分的是同一主机上的多个实例
type flakeGenerator struct {
	sf *sonyflake.Sonyflake
}

// NewSonyflake 创建基于 Sonyflake 的 ID 生成器
// machineID 取值范围 0-65535，由配置指定
func NewSonyflake(machineID uint16) (Generator, error) {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: flakeEpoch,
		MachineID: func() (uint16, error) {
			return machineID, nil
		},
	})
	if sf == nil {
		return nil, errors.New("idgen: failed to create sonyflake generator")
	}
	return &flakeGenerator{sf: sf}, nil
}

func (g *flakeGenerator) NextID() (int64, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return 0, errors.Wrap(err, "idgen: generate id")
	}
	return int64(id), nil
}
