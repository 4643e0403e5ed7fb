package errors

import (
	"errors"
	"fmt"

	"shiftboard/backend/pkg/clock"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// RoomCapacityError 房间容量冲突。
// 由班次替换事务在容量校验失败时返回，触发整批回滚。
// 错误信息需指明房间、星期与时间段（对外契约）。
type RoomCapacityError struct {
	RoomName string
	Day      string
	StartMin int
	EndMin   int
	Capacity int
}

func (e *RoomCapacityError) Error() string {
	return fmt.Sprintf("房间 %s 在 %s %s-%s 已达容量上限 %d",
		e.RoomName, e.Day, clock.Format(e.StartMin), clock.Format(e.EndMin), e.Capacity)
}

// IsRoomCapacity 判断 err 是否为容量冲突错误
func IsRoomCapacity(err error) bool {
	var target *RoomCapacityError
	return errors.As(err, &target)
}
