package kakaomap

import "time"

// Place는 'places' 테이블 스키마입니다. (카카오맵 표시용 여행지)
type Place struct {
	ID          uint64    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Category    string    `json:"category" db:"category"`
	Lat         float64   `json:"lat" db:"lat"`
	Lng         float64   `json:"lng" db:"lng"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	PlaceURL    *string   `json:"place_url,omitempty" db:"place_url"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	DistanceKm *float64 `json:"distance_km,omitempty" db:"-"`
}

// PlaceRequest는 관리자 장소 등록/수정 요청입니다.
type PlaceRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Address     string  `json:"address" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=30"`
	Lat         float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64 `json:"lng" validate:"gte=-180,lte=180"`
	Phone       string  `json:"phone" validate:"max=30"`
	PlaceURL    string  `json:"place_url" validate:"omitempty,url,max=300"`
	Description string  `json:"description" validate:"max=1000"`
}
