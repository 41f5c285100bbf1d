package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the application configuration, loaded once at startup.
var Conf *Config

type Config struct {
	Env      string // DEV (default), TEST, QA, PROD
	Debug    bool
	TestMode bool
	AppName  string
	Build    string
	WorkDir  string

	// SecretKey signs the session cookie.
	SecretKey string

	Server struct {
		Host            string
		Port            string
		ShutdownTimeout time.Duration
	}

	// WebBaseURL is the public URL this app is reachable at (used in emails).
	WebBaseURL string

	// API is the remote findtutor REST API all durable state lives behind.
	API struct {
		BaseURL string
		Timeout time.Duration
	}

	// Search tuning: the teacher snapshot is refreshed at most once per
	// RefreshInterval (the old UI debounced keystrokes at 500ms).
	Search struct {
		RefreshInterval time.Duration
	}

	SendgridApiKey   string
	RollbarToken     string
	defaultFromEmail string
}

func (c *Config) Address() string { return c.Server.Host + ":" + c.Server.Port }

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}

// NewConfig loads the configuration from the environment;
// an optional config/.env.<env> file is loaded first if present.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "FindTutor")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "h1u+q0r)wnb$+57=dz&ozxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", "8080")
	v.SetDefault("serverShutdownTimeout", 20*time.Second)
	v.SetDefault("webBaseUrl", "http://localhost:8080")
	v.SetDefault("apiBaseUrl", "http://145.223.21.62:5000/api")
	v.SetDefault("apiTimeout", 30*time.Second)
	v.SetDefault("searchRefreshInterval", 500*time.Millisecond)
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		WorkDir:          wd,
		SecretKey:        v.GetString("secretKey"),
		WebBaseURL:       strings.TrimRight(v.GetString("webBaseUrl"), "/"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Port = v.GetString("serverPort")
	conf.Server.ShutdownTimeout = v.GetDuration("serverShutdownTimeout")
	conf.API.BaseURL = strings.TrimRight(v.GetString("apiBaseUrl"), "/")
	conf.API.Timeout = v.GetDuration("apiTimeout")
	conf.Search.RefreshInterval = v.GetDuration("searchRefreshInterval")
	return conf
}

func init() {
	Conf = NewConfig()
}
