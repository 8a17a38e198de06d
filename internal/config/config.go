package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port           int    `yaml:"port"`
	LogLevel       string `yaml:"log_level"`
	LogJSON        bool   `yaml:"log_json"`
	SecureCookies  bool   `yaml:"secure_cookies"`
	AllowedOrigin  string `yaml:"allowed_origin"`
	ThreadsPerPage int    `yaml:"threads_per_page"` // caller-facing feed page size

	// write cooldowns, seconds between allowed writes per user
	ThreadCooldown int `yaml:"thread_cooldown"`
	ReplyCooldown  int `yaml:"reply_cooldown"`
	ReportCooldown int `yaml:"report_cooldown"`
	ReportBurst    int `yaml:"report_burst"` // max reports inside one cooldown window
}

type Private struct {
	Pg              Pg     `yaml:"pg"`
	S3              S3     `yaml:"s3"`
	JwtKey          string `yaml:"jwt_key"`           // shared secret with the auth provider
	IngestTokenHash string `yaml:"ingest_token_hash"` // bcrypt hash of the newsletter ingest token
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.Port == 0 {
		c.Public.Port = 8080
	}
	if c.Public.ThreadsPerPage == 0 {
		c.Public.ThreadsPerPage = 10
	}
	if c.Public.ThreadCooldown == 0 {
		c.Public.ThreadCooldown = 60
	}
	if c.Public.ReplyCooldown == 0 {
		c.Public.ReplyCooldown = 5
	}
	if c.Public.ReportCooldown == 0 {
		c.Public.ReportCooldown = 30
	}
	if c.Public.ReportBurst == 0 {
		c.Public.ReportBurst = 3
	}
}
