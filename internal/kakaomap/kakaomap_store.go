package kakaomap

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/database"
)

const placeColumns = `
	id, name, address, category, lat, lng, phone, place_url, description, created_at, updated_at`

// Store는 장소 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListPlaces는 분류/키워드(이름, 주소)로 장소를 조회합니다.
func (s *Store) ListPlaces(category, keyword string) ([]Place, error) {
	query := "SELECT" + placeColumns + " FROM places WHERE 1 = 1"
	var args []interface{}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	if keyword != "" {
		query += " AND (name LIKE ? OR address LIKE ?)"
		like := database.ContainsPattern(keyword)
		args = append(args, like, like)
	}
	query += " ORDER BY name ASC"

	places := []Place{}
	if err := s.db.Select(&places, query, args...); err != nil {
		log.Errorf("ListPlaces DB 에러: %v", err)
		return nil, err
	}
	return places, nil
}

// ListInBox는 위경도 사각 범위 안의 장소입니다.
func (s *Store) ListInBox(minLat, maxLat, minLng, maxLng float64) ([]Place, error) {
	places := []Place{}
	query := "SELECT" + placeColumns + " FROM places WHERE lat BETWEEN ? AND ? AND lng BETWEEN ? AND ?"
	if err := s.db.Select(&places, query, minLat, maxLat, minLng, maxLng); err != nil {
		log.Errorf("ListInBox DB 에러: %v", err)
		return nil, err
	}
	return places, nil
}

// GetPlace는 ID로 장소를 조회합니다. (없으면 nil, nil)
func (s *Store) GetPlace(id uint64) (*Place, error) {
	var p Place
	if err := s.db.Get(&p, "SELECT"+placeColumns+" FROM places WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("GetPlace DB 에러: %v", err)
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePlace(p *Place) (uint64, error) {
	result, err := s.db.NamedExec(`
		INSERT INTO places (name, address, category, lat, lng, phone, place_url, description)
		VALUES (:name, :address, :category, :lat, :lng, :phone, :place_url, :description)`, p)
	if err != nil {
		log.Errorf("CreatePlace DB 에러: %v", err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdatePlace는 장소를 수정합니다.
func (s *Store) UpdatePlace(p *Place) error {
	_, err := s.db.NamedExec(`
		UPDATE places
		SET
			name = :name,
			address = :address,
			category = :category,
			lat = :lat,
			lng = :lng,
			phone = :phone,
			place_url = :place_url,
			description = :description
		WHERE id = :id`, p)
	if err != nil {
		log.Errorf("UpdatePlace DB 에러: %v", err)
		return err
	}
	return nil
}

// DeletePlace는 장소를 삭제합니다. 삭제된 행이 없으면 false.
func (s *Store) DeletePlace(id uint64) (bool, error) {
	result, err := s.db.Exec("DELETE FROM places WHERE id = ?", id)
	if err != nil {
		log.Errorf("DeletePlace DB 에러: %v", err)
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}
