package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/WheelShare/WheelShare/internal/api"
	"github.com/WheelShare/WheelShare/internal/vehicle"
)

// vehicleGetter 车辆单条读取（由 vehicle.Service 满足）。
type vehicleGetter interface {
	Get(ctx context.Context, id string) (*vehicle.Vehicle, error)
}

// Reconciler 把乐观 UI 和服务端权威状态之间的缝隙收拢到一处：
// 先核对（车辆当前记录 + 本人已有订单），确认可订才提交，
// 提交成功后才翻转本地幂等挡板——从不提前翻转。
//
// 挡板只能挡住同一观察者的重复提交；服务端没有原子的
// Available→Booked 预订操作，两个不同用户仍可能同时订成功，
// 这是沿用自线上行为的已知限制。
type Reconciler struct {
	mu       sync.Mutex
	vehicles vehicleGetter
	bookings *Service
	ids      identityReader

	vehicleID string
	vehicle   *vehicle.Vehicle
	state     Status
	booked    bool // 幂等挡板：本人是否已订过这辆车
	now       func() time.Time
}

// NewReconciler 为一个 (车辆, 观察者) 对创建对账器。
func NewReconciler(vehicleID string, vehicles vehicleGetter, bookings *Service, ids identityReader) *Reconciler {
	return &Reconciler{
		vehicles:  vehicles,
		bookings:  bookings,
		ids:       ids,
		vehicleID: vehicleID,
		state:     StatusUnknown,
		now:       time.Now,
	}
}

// Load 进入详情视图时的两次独立读取：
// 1) 车辆当前记录；2) 本人已有订单（匿名时跳过）。
// 任一订单的 vehicleId 等于当前车辆即置挡板。
func (r *Reconciler) Load(ctx context.Context) error {
	if r == nil || r.vehicles == nil {
		return fmt.Errorf("reconciler not initialized")
	}

	v, err := r.vehicles.Get(ctx, r.vehicleID)
	if err != nil {
		return err
	}

	booked := false
	if id, ok := r.ids.Current(); ok {
		mine, err := r.bookings.bookingsFor(ctx, id.Email)
		if err != nil {
			return err
		}
		for _, b := range mine {
			if b.VehicleID == r.vehicleID {
				booked = true
				break
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicle = v
	r.booked = booked
	to := StatusNotBooked
	if booked {
		to = StatusAlreadyBooked
	}
	next, err := Transition(r.state, to)
	if err != nil {
		return err
	}
	r.state = next
	return nil
}

// State 当前状态。
func (r *Reconciler) State() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Vehicle 最近一次核对到的车辆记录（未 Load 时为 nil）。
func (r *Reconciler) Vehicle() *vehicle.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vehicle
}

// CanBook 订车入口是否可用：有会话、车辆 Available、挡板未置位。
func (r *Reconciler) CanBook() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids.Current(); !ok {
		return false
	}
	return r.vehicle != nil &&
		r.vehicle.Availability == vehicle.Available &&
		!r.booked &&
		CanTransition(r.state, StatusSubmitting)
}

// Book 提交订单。所有挡板在触网之前本地判定：
// - 匿名         → *api.ValidationError，不发请求
// - 挡板已置位   → *api.ValidationError，不发请求
// - 车辆不可租   → *api.ValidationError，不发请求
// 失败后状态转入 failed，挡板保持 false，可以原样重试。
func (r *Reconciler) Book(ctx context.Context) (*Booking, error) {
	if r == nil || r.bookings == nil {
		return nil, fmt.Errorf("reconciler not initialized")
	}

	id, ok := r.ids.Current()
	if !ok {
		return nil, &api.ValidationError{Reason: "sign in to book a vehicle"}
	}

	r.mu.Lock()
	if r.vehicle == nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("vehicle not loaded")
	}
	if r.booked {
		r.mu.Unlock()
		return nil, &api.ValidationError{Reason: "you have already booked this vehicle"}
	}
	if r.vehicle.Availability != vehicle.Available {
		r.mu.Unlock()
		return nil, &api.ValidationError{Reason: "vehicle is not available"}
	}
	next, err := Transition(r.state, StatusSubmitting)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.state = next

	// 下单载荷使用车辆记录的当前快照值（冗余字段在下单时固化）
	userName := id.DisplayName
	if userName == "" {
		userName = id.Email
	}
	payload := Booking{
		VehicleID:   r.vehicleID,
		VehicleName: r.vehicle.VehicleName,
		PricePerDay: r.vehicle.PricePerDay,
		UserEmail:   id.Email,
		UserName:    userName,
		BookingDate: r.now().UTC(),
	}
	r.mu.Unlock()

	created, err := r.bookings.submit(ctx, payload)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		// 任何错误路径都不得翻转挡板，保持可重试
		r.state, _ = Transition(r.state, StatusFailed)
		return nil, err
	}
	r.state, _ = Transition(r.state, StatusConfirmed)
	r.booked = true
	return created, nil
}
