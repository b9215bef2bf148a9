package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/sizzlei/confloader"
)

// Config는 tripmate 서버 전체 설정입니다.
type Config struct {
	Server     Server
	Repository Repository
	Session    Session
	JWT        JWT
	Upload     Upload
	Slack      Slack
	Ranking    Ranking
}

type Server struct {
	Port            string        `env:"SERVER_PORT" env-default:"3000"`
	AllowOrigins    string        `env:"ALLOW_ORIGINS" env-default:"http://localhost:5173"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Repository는 MySQL 접속 정보입니다.
type Repository struct {
	User     string `env:"DB_USER" env-default:"tripmate"`
	Password string `env:"DB_PASSWORD"`
	Endpoint string `env:"DB_ENDPOINT" env-default:"127.0.0.1"`
	Port     int    `env:"DB_PORT" env-default:"3306"`
	Database string `env:"DB_DATABASE" env-default:"tripmate"`

	// golang-migrate 파일 디렉터리 (시작 시 적용)
	Migrations string `env:"DB_MIGRATIONS" env-default:"./migrations"`
}

type Session struct {
	Expiration time.Duration `env:"SESSION_EXPIRATION" env-default:"30m"`
	CookieName string        `env:"SESSION_COOKIE" env-default:"tripmate_session"`
	Table      string        `env:"SESSION_TABLE" env-default:"fiber_sessions"`
	Secure     bool          `env:"SESSION_SECURE" env-default:"false"`
}

type JWT struct {
	Secret    string        `env:"JWT_SECRET" env-default:"change-me"`
	AccessTTL time.Duration `env:"JWT_ACCESS_TTL" env-default:"2h"`
}

// Upload는 이미지 저장소 설정입니다. (Driver: local | minio)
type Upload struct {
	Driver      string `env:"UPLOAD_DRIVER" env-default:"local"`
	Dir         string `env:"UPLOAD_DIR" env-default:"./pic"`
	MaxBytes    int64  `env:"UPLOAD_MAX_BYTES" env-default:"10485760"`
	MinioHost   string `env:"MINIO_HOST" env-default:"localhost:9000"`
	MinioUser   string `env:"MINIO_USER" env-default:"minioadmin"`
	MinioPass   string `env:"MINIO_PASSWORD" env-default:"minioadmin"`
	MinioBucket string `env:"MINIO_BUCKET" env-default:"tripmate-pic"`
	MinioSecure bool   `env:"MINIO_SECURE" env-default:"false"`
}

// Slack은 관리자 알림 설정입니다. (BotToken이 비어 있으면 알림 비활성)
type Slack struct {
	BotToken  string `env:"SLACK_BOT_TOKEN"`
	ChannelID string `env:"SLACK_CHANNEL_ID"`
}

// Ranking은 관광 순위 갱신 작업 설정입니다.
type Ranking struct {
	APIURL     string        `env:"RANKING_API_URL" env-default:"https://apis.data.go.kr/B551011/DataLabService/locgoRegnVisitrDDList"`
	ServiceKey string        `env:"RANKING_SERVICE_KEY"`
	Cron       string        `env:"RANKING_CRON" env-default:"0 4 * * 1"`
	Timeout    time.Duration `env:"RANKING_TIMEOUT" env-default:"10s"`
}

// Load는 (선택) .env 파일을 읽은 뒤 환경 변수를 구조체로 매핑합니다.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Warnf("환경 변수 파일(%s) 로드 실패: %v", envFile, err)
		}
	}

	conf := &Config{}
	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("cleanenv.ReadEnv: %w", err)
	}
	return conf, nil
}

// OverlayParamStore는 AWS Parameter Store의 값으로 민감 설정을 덮어씁니다.
func (c *Config) OverlayParamStore(region, key string) error {
	loaded, err := confloader.AWSParamLoader(region, key)
	if err != nil {
		return fmt.Errorf("파라미터 스토어(%s) 로드 실패: %w", key, err)
	}

	c.applyRepository(loaded.Keyload("repository"))
	c.applyJWT(loaded.Keyload("jwt"))
	c.applySlack(loaded.Keyload("slack"))
	return nil
}

func (c *Config) applyRepository(m map[string]interface{}) {
	if len(m) == 0 {
		return
	}
	c.Repository.User = stringOr(m["User"], c.Repository.User)
	c.Repository.Password = stringOr(m["Password"], c.Repository.Password)
	c.Repository.Endpoint = stringOr(m["Endpoint"], c.Repository.Endpoint)
	c.Repository.Port = intOr(m["Port"], c.Repository.Port)
	c.Repository.Database = stringOr(m["Database"], c.Repository.Database)
}

func (c *Config) applyJWT(m map[string]interface{}) {
	c.JWT.Secret = stringOr(m["Secret"], c.JWT.Secret)
}

func (c *Config) applySlack(m map[string]interface{}) {
	c.Slack.BotToken = stringOr(m["BotToken"], c.Slack.BotToken)
	c.Slack.ChannelID = stringOr(m["ChannelID"], c.Slack.ChannelID)
}

func stringOr(v interface{}, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// (YAML은 int, JSON은 float64로 디코딩됨)
func intOr(v interface{}, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}
