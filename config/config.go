package config

import (
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// AppConfig is the root configuration container for the accounts service.
type AppConfig struct {
	Name         string       `json:"name" yaml:"name"`
	Env          string       `json:"env" yaml:"env"`
	Server       Server       `json:"server" yaml:"server"`
	Persistence  Persistence  `json:"persistence" yaml:"persistence"`
	Verification Verification `json:"verification" yaml:"verification"`
	MailQueue    MailQueue    `json:"mail_queue" yaml:"mail_queue"`
	Auth         Auth         `json:"auth" yaml:"auth"`
}

type Server struct {
	Address string `json:"address" yaml:"address"`
	Debug   bool   `json:"debug" yaml:"debug"`
}

type Persistence struct {
	Driver                string `json:"driver" yaml:"driver"`
	DSN                   string `json:"dsn" yaml:"dsn"`
	Debug                 bool   `json:"debug" yaml:"debug"`
	PingTimeoutExpression string `json:"ping_timeout" yaml:"ping_timeout"`
}

type Verification struct {
	ProviderURL    string `json:"provider_url" yaml:"provider_url"`
	APIKey         string `json:"api_key" yaml:"api_key"`
	RequestTimeout string `json:"request_timeout" yaml:"request_timeout"`
}

type MailQueue struct {
	Address  string `json:"address" yaml:"address"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Stream   string `json:"stream" yaml:"stream"`
	ResetURL string `json:"reset_url" yaml:"reset_url"`
}

type Auth struct {
	SigningKey      string `json:"signing_key" yaml:"signing_key"`
	TokenExpiration string `json:"token_expiration" yaml:"token_expiration"`
	Issuer          string `json:"issuer" yaml:"issuer"`
	Audience        string `json:"audience" yaml:"audience"`
	ResetWindow     string `json:"reset_window" yaml:"reset_window"`
}

// Validate fails fast on settings the service cannot run without.
func (a AppConfig) Validate() error {
	if a.Persistence.DSN == "" {
		return goerrors.New("persistence.dsn is required", goerrors.CategoryValidation)
	}

	if a.Verification.ProviderURL == "" {
		return goerrors.New("verification.provider_url is required", goerrors.CategoryValidation)
	}

	if a.Auth.SigningKey == "" {
		return goerrors.New("auth.signing_key is required", goerrors.CategoryValidation)
	}

	return nil
}

func (a AppConfig) GetName() string {
	if a.Name == "" {
		return "accounts"
	}
	return a.Name
}

func (a AppConfig) GetServer() Server {
	return a.Server
}

func (a AppConfig) GetPersistence() Persistence {
	return a.Persistence
}

func (a AppConfig) GetVerification() Verification {
	return a.Verification
}

func (a AppConfig) GetMailQueue() MailQueue {
	return a.MailQueue
}

func (a AppConfig) GetAuth() Auth {
	return a.Auth
}

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8577"
	}
	return s.Address
}

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string {
	return p.DSN
}

func (p Persistence) GetServer() string {
	return ""
}

func (p Persistence) GetOtelIdentifier() string {
	return ""
}

func (p Persistence) GetDebug() bool {
	return p.Debug
}

func (p Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return time.Second * 5
	}

	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

func (v Verification) GetProviderURL() string {
	return v.ProviderURL
}

func (v Verification) GetAPIKey() string {
	return v.APIKey
}

func (v Verification) GetRequestTimeout() time.Duration {
	if v.RequestTimeout == "" {
		return time.Second * 15
	}

	dur, err := time.ParseDuration(v.RequestTimeout)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", v.RequestTimeout),
		)
	}
	return dur
}

func (m MailQueue) GetAddress() string {
	if m.Address == "" {
		return "localhost:6379"
	}
	return m.Address
}

func (m MailQueue) GetPassword() string {
	return m.Password
}

func (m MailQueue) GetDB() int {
	return m.DB
}

func (m MailQueue) GetStream() string {
	return m.Stream
}

func (m MailQueue) GetResetURL() string {
	return m.ResetURL
}

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

func (a Auth) GetTokenExpiration() time.Duration {
	if a.TokenExpiration == "" {
		return time.Hour * 24
	}

	dur, err := time.ParseDuration(a.TokenExpiration)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", a.TokenExpiration),
		)
	}
	return dur
}

func (a Auth) GetIssuer() string {
	if a.Issuer == "" {
		return "accounts"
	}
	return a.Issuer
}

func (a Auth) GetAudience() []string {
	if a.Audience == "" {
		return nil
	}
	return []string{a.Audience}
}

func (a Auth) GetResetWindow() string {
	if a.ResetWindow == "" {
		return "24h"
	}
	return a.ResetWindow
}
