package vehicle

import (
	"net/url"
	"strings"
	"time"

	"github.com/WheelShare/WheelShare/internal/api"
)

// Availability 车辆可租状态（线上只有两个值）。
type Availability string

const (
	Available Availability = "Available" // 可租
	Booked    Availability = "Booked"    // 已被租出
)

// Valid 判断是否是合法的状态值。
func (a Availability) Valid() bool {
	return a == Available || a == Booked
}

// Category 车辆类目（固定枚举）。
type Category string

const (
	CategorySedan      Category = "Sedan"
	CategorySUV        Category = "SUV"
	CategoryElectric   Category = "Electric"
	CategoryVan        Category = "Van"
	CategoryMotorcycle Category = "Motorcycle"
)

// Categories 全部类目，按表单展示顺序。
var Categories = []Category{
	CategorySedan,
	CategorySUV,
	CategoryElectric,
	CategoryVan,
	CategoryMotorcycle,
}

// Valid 判断是否是已知类目。
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Vehicle 车辆记录（字段名与远端 API 的 JSON 载荷一一对应）。
// 只有 userEmail 对应的车主可以修改/删除。
type Vehicle struct {
	ID           string       `json:"_id,omitempty"`
	VehicleName  string       `json:"vehicleName"`
	Owner        string       `json:"owner"`
	Category     Category     `json:"category"`
	PricePerDay  float64      `json:"pricePerDay"`
	Location     string       `json:"location"`
	Availability Availability `json:"availability"`
	Description  string       `json:"description"`
	CoverImage   string       `json:"coverImage"`
	UserEmail    string       `json:"userEmail"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Draft 新增/编辑车辆的表单记录：字段显式命名，不用开放的 key/value 表。
type Draft struct {
	VehicleName  string
	Owner        string
	Category     Category
	PricePerDay  float64
	Location     string
	Availability Availability
	Description  string
	CoverImage   string
}

// Validate 本地校验草稿；失败返回 *api.ValidationError，从不触网。
func (d Draft) Validate() error {
	if strings.TrimSpace(d.VehicleName) == "" {
		return &api.ValidationError{Field: "vehicleName", Reason: "vehicle name is required"}
	}
	if strings.TrimSpace(d.Owner) == "" {
		return &api.ValidationError{Field: "owner", Reason: "owner name is required"}
	}
	if !d.Category.Valid() {
		return &api.ValidationError{Field: "category", Reason: "unknown category"}
	}
	if d.PricePerDay <= 0 {
		return &api.ValidationError{Field: "pricePerDay", Reason: "price per day must be positive"}
	}
	if strings.TrimSpace(d.Location) == "" {
		return &api.ValidationError{Field: "location", Reason: "location is required"}
	}
	if !d.Availability.Valid() {
		return &api.ValidationError{Field: "availability", Reason: "availability must be Available or Booked"}
	}
	if d.CoverImage != "" {
		if _, err := url.ParseRequestURI(d.CoverImage); err != nil {
			return &api.ValidationError{Field: "coverImage", Reason: "cover image must be a valid URL"}
		}
	}
	return nil
}

// build 由草稿生成上行载荷；车主邮箱与创建时间由调用方补齐。
func (d Draft) build(userEmail string, createdAt time.Time) Vehicle {
	return Vehicle{
		VehicleName:  strings.TrimSpace(d.VehicleName),
		Owner:        strings.TrimSpace(d.Owner),
		Category:     d.Category,
		PricePerDay:  d.PricePerDay,
		Location:     strings.TrimSpace(d.Location),
		Availability: d.Availability,
		Description:  strings.TrimSpace(d.Description),
		CoverImage:   strings.TrimSpace(d.CoverImage),
		UserEmail:    userEmail,
		CreatedAt:    createdAt,
	}
}
