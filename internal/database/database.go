package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// MySQL 에러 코드
const (
	ErrMySQLDuplicateEntry = 1062
)

type DBI struct {
	User     string
	Password string
	Endpoint string
	Port     int
	Database string
}

// DSN은 sqlx 접속 문자열입니다. (parseTime=true, charset=utf8mb4)
func (i DBI) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		i.User, i.Password, i.Endpoint, i.Port, i.Database)
}

// MigrationDSN은 여러 문장으로 된 마이그레이션 파일을 실행하기 위한 접속 문자열입니다.
func (i DBI) MigrationDSN() string {
	return i.DSN() + "&multiStatements=true"
}

func CreateConnection(i DBI) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", i.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern은 LIKE 와일드카드(%, _)와 이스케이프 문자를 처리한 '%검색어%' 패턴입니다.
func ContainsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// IsDuplicate는 UNIQUE 제약 위반(1062) 여부를 확인합니다.
func IsDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == ErrMySQLDuplicateEntry
}

// Migrate는 dir의 마이그레이션을 최신 버전까지 적용합니다. (변경 없음은 성공)
func Migrate(i DBI, dir string) error {
	db, err := sql.Open("mysql", i.MigrationDSN())
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("mysql.WithInstance: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, i.Database, driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("migrate.NewWithDatabaseInstance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warnf("마이그레이션 종료 중 에러: source=%v, database=%v", srcErr, dbErr)
		}
	}()

	log.Infof("마이그레이션 적용 중... (%s)", dir)
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("적용할 마이그레이션이 없습니다.")
			return nil
		}
		return fmt.Errorf("마이그레이션 실패: %w", err)
	}
	log.Info("마이그레이션 완료")
	return nil
}
