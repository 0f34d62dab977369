package booking

import (
	"context"
	"fmt"
	"net/url"

	"github.com/WheelShare/WheelShare/internal/api"
	"github.com/WheelShare/WheelShare/internal/session"
)

// identityReader 会话的只读视图；写入只发生在 session.Boundary。
type identityReader interface {
	Current() (session.Identity, bool)
}

// Service 订车领域的远端读写。下单本身走 Reconciler，
// 这里只提供历史查询和底层提交。
type Service struct {
	client *api.Client
	ids    identityReader
}

// NewService 创建订车服务。
func NewService(client *api.Client, ids identityReader) *Service {
	return &Service{client: client, ids: ids}
}

// MyBookings 拉取当前用户的订车历史。
func (s *Service) MyBookings(ctx context.Context) ([]Booking, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id, ok := s.ids.Current()
	if !ok {
		return nil, &api.ValidationError{Reason: "sign in to view your bookings"}
	}
	return s.bookingsFor(ctx, id.Email)
}

func (s *Service) bookingsFor(ctx context.Context, email string) ([]Booking, error) {
	var out []Booking
	if err := s.client.Get(ctx, "/my-bookings/"+url.PathEscape(email), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// submit 提交订单。不做任何本地挡板——挡板属于 Reconciler。
func (s *Service) submit(ctx context.Context, b Booking) (*Booking, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	var out Booking
	if err := s.client.Post(ctx, "/bookings", b, &out); err != nil {
		return nil, err
	}
	if out.VehicleID == "" {
		out = b
	}
	return &out, nil
}
