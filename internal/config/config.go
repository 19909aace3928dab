package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	defaultHost       = "127.0.0.1"
	defaultPort       = 3000
	defaultSqliteFile = "matchrating.sqlite"
	defaultLogLevel   = "info"
	defaultExpiration = "720h"
)

type TgBot struct {
	Enabled          bool   `toml:"enabled"`
	TelegramApiToken string `toml:"telegram_apitoken"`
	Debug            bool   `toml:"debug"`
}

type Auth struct {
	// Secret signs viewer tokens. Empty disables the authentication requirement for writes.
	Secret     string `toml:"secret"`
	Expiration string `toml:"expiration"`
}

type Server struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	PublicURL  string `toml:"public_url"`
	SqliteFile string `toml:"sqlite_file"`
	Debug      bool   `toml:"debug_mode"`
	LogLevel   string `toml:"log_level"`
	CertFile   string `toml:"cert_file"`
	KeyFile    string `toml:"key_file"`
	Auth       Auth   `toml:"auth"`
}

type Config struct {
	TgBot  TgBot
	Server Server
}

// New reads both toml files. Values from the environment (and a .env file, if present)
// take precedence for secrets.
func New(serverFile, botFile string) (Config, error) {
	for _, path := range []string{".env", "../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	var tgBotCfg TgBot
	_, err := toml.DecodeFile(botFile, &tgBotCfg)
	if err != nil {
		return Config{}, err
	}
	token := os.Getenv("TELEGRAM_APITOKEN")
	if token != "" {
		tgBotCfg.TelegramApiToken = token
	}

	var serverCfg Server
	_, err = toml.DecodeFile(serverFile, &serverCfg)
	if err != nil {
		return Config{}, err
	}
	secret := os.Getenv("MATCHRATING_AUTH_SECRET")
	if secret != "" {
		serverCfg.Auth.Secret = secret
	}
	serverCfg.setDefaults()

	return Config{
		TgBot:  tgBotCfg,
		Server: serverCfg,
	}, nil
}

func (s *Server) setDefaults() {
	if s.Host == "" {
		s.Host = defaultHost
	}
	if s.Port == 0 {
		s.Port = defaultPort
	}
	if s.SqliteFile == "" {
		s.SqliteFile = defaultSqliteFile
	}
	if s.LogLevel == "" {
		s.LogLevel = defaultLogLevel
	}
	if s.Auth.Expiration == "" {
		s.Auth.Expiration = defaultExpiration
	}
}

func (s Server) TLSEnabled() bool {
	return s.CertFile != "" && s.KeyFile != ""
}
