package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Checklist ChecklistConfig `yaml:"checklist"`
	Quota     QuotaConfig     `yaml:"quota"`
	Session   SessionConfig   `yaml:"session"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Database  DatabaseConfig  `yaml:"database"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Admin     AdminConfig     `yaml:"admin"`
	Timezone  string          `yaml:"timezone"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type TelegramConfig struct {
	Token       string `yaml:"token"`
	PollTimeout int    `yaml:"poll_timeout"`
}

// ChecklistConfig selects one of the built-in question sets or supplies a
// custom one. Threshold/risk indices override the variant defaults when set.
type ChecklistConfig struct {
	Variant       string   `yaml:"variant"` // standard10 | extended16
	Questions     []string `yaml:"questions"`
	RiskCritical  []int    `yaml:"risk_critical"`
	PassThreshold int      `yaml:"pass_threshold"`
	MistakeCodes  []Code   `yaml:"mistake_codes"`
}

type Code struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

type QuotaConfig struct {
	MaxPerDay int `yaml:"max_per_day"`
}

type SessionConfig struct {
	TTLHours int `yaml:"ttl_hours"` // 0 disables expiry
}

// TTL converts the configured hours to a duration.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

type LedgerConfig struct {
	Backend   string `yaml:"backend"` // excel | mysql
	ExcelPath string `yaml:"excel_path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type ReminderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Spec    string `yaml:"spec"` // cron expression
	Text    string `yaml:"text"`
}

type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	JWTSecret    string `yaml:"jwt_secret"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:    ServerConfig{Port: 9872},
		Log:       LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Telegram:  TelegramConfig{PollTimeout: 30},
		Checklist: ChecklistConfig{Variant: "extended16"},
		Quota:     QuotaConfig{MaxPerDay: 3},
		Session:   SessionConfig{TTLHours: 12},
		Ledger:    LedgerConfig{Backend: "excel", ExcelPath: "data/journal.xlsx"},
		Database:  DatabaseConfig{Port: 3306, Name: "trade_gate"},
		Reminder:  ReminderConfig{Enabled: true, Spec: "10 9 * * *", Text: "Checklist time! Send /start [ticker] to begin."},
		Timezone:  "Asia/Seoul",
	}

	paths := []string{"etc/config-dev.yaml", "/etc/trade-gate/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Telegram.Token, "TELEGRAM_TOKEN")
	envOverride(&c.Ledger.Backend, "LEDGER_BACKEND")
	envOverride(&c.Ledger.ExcelPath, "LEDGER_EXCEL_PATH")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Admin.JWTSecret, "JWT_SECRET")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverride(&c.Timezone, "TZ_NAME")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")
	envOverrideInt(&c.Quota.MaxPerDay, "QUOTA_MAX_PER_DAY")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Location resolves the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
