// Package store 本地离线缓存：最近一次成功拉取的车辆列表和本人订单快照，
// 断网时 CLI 仍能浏览。缓存永远是副本，权威状态在远端 API。
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/WheelShare/WheelShare/internal/booking"
	"github.com/WheelShare/WheelShare/internal/vehicle"
)

// CachedVehicle vehicles 快照表的 GORM 模型。
type CachedVehicle struct {
	ID           string `gorm:"primaryKey;size:64"`
	VehicleName  string `gorm:"size:128;not null"`
	Owner        string `gorm:"size:128"`
	Category     string `gorm:"size:32;index"`
	PricePerDay  float64
	Location     string `gorm:"size:255"`
	Availability string `gorm:"size:16"`
	Description  string
	CoverImage   string `gorm:"size:512"`
	UserEmail    string `gorm:"size:128;index"`
	CreatedAt    time.Time
	FetchedAt    time.Time `gorm:"index"` // 快照落库时间
}

// CachedBooking bookings 快照表的 GORM 模型。
type CachedBooking struct {
	ID          string `gorm:"primaryKey;size:64"`
	VehicleID   string `gorm:"size:64;index"`
	VehicleName string `gorm:"size:128"`
	PricePerDay float64
	UserEmail   string `gorm:"size:128;index"`
	UserName    string `gorm:"size:128"`
	BookingDate time.Time
	FetchedAt   time.Time `gorm:"index"`
}

// Store sqlite 缓存。
type Store struct {
	db *gorm.DB
}

// Open 打开（必要时创建）缓存文件并建表。
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is empty")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}
	if err := db.AutoMigrate(&CachedVehicle{}, &CachedBooking{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveVehicles 整体替换车辆快照。
func (s *Store) SaveVehicles(ctx context.Context, vehicles []vehicle.Vehicle) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store db is nil")
	}
	now := time.Now()
	rows := make([]CachedVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, CachedVehicle{
			ID:           v.ID,
			VehicleName:  v.VehicleName,
			Owner:        v.Owner,
			Category:     string(v.Category),
			PricePerDay:  v.PricePerDay,
			Location:     v.Location,
			Availability: string(v.Availability),
			Description:  v.Description,
			CoverImage:   v.CoverImage,
			UserEmail:    v.UserEmail,
			CreatedAt:    v.CreatedAt,
			FetchedAt:    now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&CachedVehicle{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Vehicles 读取车辆快照（按落库前的创建时间倒序）。
func (s *Store) Vehicles(ctx context.Context) ([]vehicle.Vehicle, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var rows []CachedVehicle
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]vehicle.Vehicle, 0, len(rows))
	for _, r := range rows {
		out = append(out, vehicle.Vehicle{
			ID:           r.ID,
			VehicleName:  r.VehicleName,
			Owner:        r.Owner,
			Category:     vehicle.Category(r.Category),
			PricePerDay:  r.PricePerDay,
			Location:     r.Location,
			Availability: vehicle.Availability(r.Availability),
			Description:  r.Description,
			CoverImage:   r.CoverImage,
			UserEmail:    r.UserEmail,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out, nil
}

// SaveBookings 整体替换某个用户的订单快照。
func (s *Store) SaveBookings(ctx context.Context, email string, bookings []booking.Booking) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store db is nil")
	}
	now := time.Now()
	rows := make([]CachedBooking, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, CachedBooking{
			ID:          b.ID,
			VehicleID:   b.VehicleID,
			VehicleName: b.VehicleName,
			PricePerDay: b.PricePerDay,
			UserEmail:   b.UserEmail,
			UserName:    b.UserName,
			BookingDate: b.BookingDate,
			FetchedAt:   now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_email = ?", email).Delete(&CachedBooking{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Bookings 读取某个用户的订单快照。
func (s *Store) Bookings(ctx context.Context, email string) ([]booking.Booking, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var rows []CachedBooking
	err := s.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("booking_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]booking.Booking, 0, len(rows))
	for _, r := range rows {
		out = append(out, booking.Booking{
			ID:          r.ID,
			VehicleID:   r.VehicleID,
			VehicleName: r.VehicleName,
			PricePerDay: r.PricePerDay,
			UserEmail:   r.UserEmail,
			UserName:    r.UserName,
			BookingDate: r.BookingDate,
		})
	}
	return out, nil
}
