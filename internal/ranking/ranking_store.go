package ranking

import (
	"strings"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// Store는 관광지 순위 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListRankings는 순위순 전체 목록입니다.
func (s *Store) ListRankings() ([]Ranking, error) {
	rankings := []Ranking{}
	query := `
		SELECT id, rank_no, area_code, area_name, spot_name, category, visit_count, base_ym, updated_at
		FROM tour_rankings
		ORDER BY rank_no ASC`
	if err := s.db.Select(&rankings, query); err != nil {
		log.Errorf("ListRankings DB 에러: %v", err)
		return nil, err
	}
	return rankings, nil
}

// ReplaceRankings는 테이블 내용을 한 트랜잭션에서 통째로 교체합니다.
func (s *Store) ReplaceRankings(rankings []Ranking) error {
	tx, err := s.db.Beginx()
	if err != nil {
		log.Errorf("ReplaceRankings 트랜잭션 시작 실패: %v", err)
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM tour_rankings"); err != nil {
		log.Errorf("ReplaceRankings DELETE 실패: %v", err)
		return err
	}

	if len(rankings) > 0 {
		query := "INSERT INTO tour_rankings (rank_no, area_code, area_name, spot_name, category, visit_count, base_ym) VALUES "
		var args []interface{}
		var valueStrings []string
		for _, r := range rankings {
			valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, r.RankNo, r.AreaCode, r.AreaName, r.SpotName, r.Category, r.VisitCount, r.BaseYm)
		}
		if _, err = tx.Exec(query+strings.Join(valueStrings, ","), args...); err != nil {
			log.Errorf("ReplaceRankings Bulk INSERT 실패: %v", err)
			return err
		}
	}
	return tx.Commit()
}
