package booking

import "time"

// Booking 订车记录（字段名与远端 API 的 JSON 载荷一一对应）。
// vehicleName / pricePerDay 是下单时从车辆记录复制的快照值，之后不回读。
// 记录创建后不再变更；取消不在本客户端范围内。
type Booking struct {
	ID          string    `json:"_id,omitempty"`
	VehicleID   string    `json:"vehicleId"`
	VehicleName string    `json:"vehicleName"`
	PricePerDay float64   `json:"pricePerDay"`
	UserEmail   string    `json:"userEmail"`
	UserName    string    `json:"userName"`
	BookingDate time.Time `json:"bookingDate"`
}
