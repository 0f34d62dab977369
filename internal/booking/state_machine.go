package booking

import "fmt"

// Status (车辆, 观察者) 对的订车状态。
type Status string

const (
	StatusUnknown       Status = "unknown"        // 尚未核对服务端状态
	StatusNotBooked     Status = "not_booked"     // 已核对：本人未订过这辆车
	StatusAlreadyBooked Status = "already_booked" // 已核对：本人已订过（幂等挡板）
	StatusSubmitting    Status = "submitting"     // 订单已提交，等待服务端确认
	StatusConfirmed     Status = "confirmed"      // 服务端已确认
	StatusFailed        Status = "failed"         // 提交失败，可重试
)

// AllowTransition 定义订车状态机的允许流转关系。
// 订单没有取消流程，所以 already_booked / confirmed 都是终态。
var AllowTransition = map[Status][]Status{
	StatusUnknown:       {StatusNotBooked, StatusAlreadyBooked},
	StatusNotBooked:     {StatusAlreadyBooked, StatusSubmitting},
	StatusAlreadyBooked: {},
	StatusSubmitting:    {StatusConfirmed, StatusFailed},
	// 失败后可以重试提交，也可以重新核对服务端状态
	StatusFailed:    {StatusSubmitting, StatusNotBooked, StatusAlreadyBooked},
	StatusConfirmed: {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Transition 校验并返回流转后的状态。
func Transition(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("invalid booking status transition: %s -> %s", from, to)
	}
	return to, nil
}
