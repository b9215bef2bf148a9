package kakaomap

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tripmate/internal/respond"
)

const (
	earthRadiusKm   = 6371.0
	defaultRadiusKm = 3.0
	maxRadiusKm     = 20.0
	kmPerDegreeLat  = 111.32
)

// Service는 장소 조회/관리 로직을 담당합니다.
type Service struct {
	store *Store
}

// NewService는 새 Service를 생성합니다.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// haversineKm는 두 좌표 사이 대원 거리(km)입니다.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// boundingBox는 중심에서 radiusKm를 덮는 위경도 사각 범위입니다.
func boundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusKm / kmPerDegreeLat
	cos := math.Cos(lat * math.Pi / 180)
	dLng := 180.0
	if cos > 1e-6 {
		dLng = math.Min(radiusKm/(kmPerDegreeLat*cos), 180)
	}
	return math.Max(lat-dLat, -90), math.Min(lat+dLat, 90), math.Max(lng-dLng, -180), math.Min(lng+dLng, 180)
}

func validCoord(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: 좌표 범위를 벗어났습니다 (lat: %.6f, lng: %.6f)", respond.ErrBadRequest, lat, lng)
	}
	return nil
}

func (s *Service) List(category, keyword string) ([]Place, error) {
	return s.store.ListPlaces(strings.TrimSpace(category), strings.TrimSpace(keyword))
}

func (s *Service) Get(id uint64) (*Place, error) {
	p, err := s.store.GetPlace(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("장소(ID: %d): %w", id, respond.ErrNotFound)
	}
	return p, nil
}

// Nearby는 반경(기본 3km, 최대 20km) 안의 장소를 가까운 순으로 반환합니다.
// SQL로 사각 범위를 먼저 거른 뒤 haversine 거리로 다시 거릅니다.
func (s *Service) Nearby(lat, lng, radiusKm float64) ([]Place, error) {
	if err := validCoord(lat, lng); err != nil {
		return nil, err
	}
	if radiusKm <= 0 || math.IsNaN(radiusKm) {
		radiusKm = defaultRadiusKm
	}
	if radiusKm > maxRadiusKm {
		radiusKm = maxRadiusKm
	}

	minLat, maxLat, minLng, maxLng := boundingBox(lat, lng, radiusKm)
	candidates, err := s.store.ListInBox(minLat, maxLat, minLng, maxLng)
	if err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(candidates))
	for _, p := range candidates {
		d := haversineKm(lat, lng, p.Lat, p.Lng)
		if d > radiusKm {
			continue
		}
		d = math.Round(d*1000) / 1000
		p.DistanceKm = &d
		places = append(places, p)
	}
	sort.SliceStable(places, func(i, j int) bool {
		return *places[i].DistanceKm < *places[j].DistanceKm
	})
	return places, nil
}

func toModel(req PlaceRequest) (*Place, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.Category = strings.TrimSpace(req.Category)
	if err := respond.Validate(req); err != nil {
		return nil, err
	}
	if err := validCoord(req.Lat, req.Lng); err != nil {
		return nil, err
	}

	p := &Place{
		Name:     req.Name,
		Address:  req.Address,
		Category: req.Category,
		Lat:      req.Lat,
		Lng:      req.Lng,
	}
	if req.Phone != "" {
		p.Phone = &req.Phone
	}
	if req.PlaceURL != "" {
		p.PlaceURL = &req.PlaceURL
	}
	if req.Description != "" {
		p.Description = &req.Description
	}
	return p, nil
}

func (s *Service) Create(req PlaceRequest) (uint64, error) {
	p, err := toModel(req)
	if err != nil {
		return 0, err
	}
	return s.store.CreatePlace(p)
}

func (s *Service) Update(id uint64, req PlaceRequest) error {
	p, err := toModel(req)
	if err != nil {
		return err
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	p.ID = id
	return s.store.UpdatePlace(p)
}

func (s *Service) Delete(id uint64) error {
	deleted, err := s.store.DeletePlace(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("장소(ID: %d): %w", id, respond.ErrNotFound)
	}
	return nil
}
