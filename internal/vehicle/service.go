package vehicle

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/WheelShare/WheelShare/internal/api"
	"github.com/WheelShare/WheelShare/internal/session"
)

// identityReader 会话的只读视图；写入只发生在 session.Boundary。
type identityReader interface {
	Current() (session.Identity, bool)
}

// Service 车辆领域用例：远端 API 之上的读与车主写操作。
type Service struct {
	client *api.Client
	ids    identityReader
	now    func() time.Time
}

// NewService 创建车辆服务。
func NewService(client *api.Client, ids identityReader) *Service {
	return &Service{client: client, ids: ids, now: time.Now}
}

// List 拉取全部车辆。
func (s *Service) List(ctx context.Context) ([]Vehicle, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	var out []Vehicle
	if err := s.client.Get(ctx, "/vehicles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest 拉取最新上架的车辆（首页轮播）。
func (s *Service) Latest(ctx context.Context) ([]Vehicle, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	var out []Vehicle
	if err := s.client.Get(ctx, "/vehicles/latest", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get 按 ID 拉取单辆车。
func (s *Service) Get(ctx context.Context, id string) (*Vehicle, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &api.ValidationError{Field: "id", Reason: "vehicle id is required"}
	}
	var out Vehicle
	if err := s.client.Get(ctx, "/vehicles/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine 拉取当前用户名下的车辆。
func (s *Service) Mine(ctx context.Context) ([]Vehicle, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id, ok := s.ids.Current()
	if !ok {
		return nil, &api.ValidationError{Reason: "sign in to view your vehicles"}
	}
	var out []Vehicle
	if err := s.client.Get(ctx, "/my-vehicles/"+url.PathEscape(id.Email), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create 上架一辆车。草稿先本地校验；车主邮箱和创建时间由服务补齐。
func (s *Service) Create(ctx context.Context, draft Draft) (*Vehicle, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id, ok := s.ids.Current()
	if !ok {
		return nil, &api.ValidationError{Reason: "sign in to add a vehicle"}
	}
	if draft.Owner == "" {
		draft.Owner = id.DisplayName
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	payload := draft.build(id.Email, s.now().UTC())
	var out Vehicle
	if err := s.client.Post(ctx, "/vehicles", payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out = payload
	}
	return &out, nil
}

// Update 整体替换一辆车。只有车主本人可以改；创建时间保持原值。
func (s *Service) Update(ctx context.Context, vehicleID string, draft Draft) (*Vehicle, error) {
	current, err := s.ownedVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	payload := draft.build(current.UserEmail, current.CreatedAt)
	if err := s.client.Put(ctx, "/vehicles/"+url.PathEscape(vehicleID), payload, nil); err != nil {
		return nil, err
	}
	payload.ID = current.ID
	return &payload, nil
}

// Delete 下架一辆车。只有车主本人可以删。
func (s *Service) Delete(ctx context.Context, vehicleID string) error {
	if _, err := s.ownedVehicle(ctx, vehicleID); err != nil {
		return err
	}
	return s.client.Delete(ctx, "/vehicles/"+url.PathEscape(vehicleID), nil)
}

// ownedVehicle 读取车辆并校验当前用户就是车主。
func (s *Service) ownedVehicle(ctx context.Context, vehicleID string) (*Vehicle, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id, ok := s.ids.Current()
	if !ok {
		return nil, &api.ValidationError{Reason: "sign in to manage vehicles"}
	}
	v, err := s.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(v.UserEmail, id.Email) {
		return nil, &api.ValidationError{Reason: "only the owner can modify this vehicle"}
	}
	return v, nil
}
