package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	AppName    = "AI Meeting Notes"
	AppVersion = "1.0.0"
)

const (
	DefaultPort              = 3001
	DefaultProvider          = "compatible"
	DefaultCompatibleBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel             = "deepseek/deepseek-r1:free"
	DefaultSMTPPort          = 587
	DefaultBodyLimit         = "4M"
	DefaultCORSOrigin        = "*"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

// AIConfig selects and authenticates the summarization provider.
type AIConfig struct {
	Provider string // openai, anthropic, compatible, gemini
	APIKey   string
	BaseURL  string
	Model    string
	Title    string // sent as X-Title to OpenAI-compatible gateways
	Referer  string // sent as HTTP-Referer to OpenAI-compatible gateways
	ProxyURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type Config struct {
	Addr          string
	PublicBaseURL string
	CORSOrigins   []string
	BodyLimit     string
	StaticDir     string
	LogLevel      string
	LogFormat     string
	AI            AIConfig
	SMTP          SMTPConfig
}

// Load reads the configuration from the environment once at startup.
func Load() Config {
	port := getEnvInt("PORT", DefaultPort)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":" + strconv.Itoa(port)
	}

	publicBaseURL := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:" + strconv.Itoa(port)
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = detectStaticDir()
	}

	provider := strings.ToLower(getEnv("AI_PROVIDER", DefaultProvider))
	baseURL := firstEnv("AI_BASE_URL", "OPENROUTER_BASE_URL")
	if baseURL == "" && provider == DefaultProvider {
		baseURL = DefaultCompatibleBaseURL
	}
	model := firstEnv("AI_MODEL", "OPENROUTER_MODEL")
	if model == "" {
		model = DefaultModel
	}

	smtpUser := os.Getenv("SMTP_USER")
	from := firstEnv("EMAIL_FROM", "EMAIL_USER")
	if from == "" {
		from = smtpUser
	}

	return Config{
		Addr:          addr,
		PublicBaseURL: publicBaseURL,
		CORSOrigins:   parseOrigins(getEnv("CORS_ORIGIN", DefaultCORSOrigin)),
		BodyLimit:     DefaultBodyLimit,
		StaticDir:     filepath.Clean(staticDir),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:     getEnv("LOG_FORMAT", DefaultLogFormat),
		AI: AIConfig{
			Provider: provider,
			APIKey:   firstEnv("AI_API_KEY", "OPENROUTER_API_KEY"),
			BaseURL:  baseURL,
			Model:    model,
			Title:    getEnv("APP_TITLE", AppName),
			Referer:  publicBaseURL,
			ProxyURL: os.Getenv("OUTBOUND_PROXY"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", DefaultSMTPPort),
			User:     smtpUser,
			Password: os.Getenv("SMTP_PASS"),
			From:     from,
		},
	}
}

func parseOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{DefaultCORSOrigin}
	}
	return origins
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// firstEnv returns the first non-empty variable; later keys are legacy names.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func detectStaticDir() string {
	candidates := []string{
		"./frontend/dist",
		"../frontend/dist",
	}
	for _, candidate := range candidates {
		indexPath := filepath.Join(candidate, "index.html")
		if info, err := os.Stat(indexPath); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return "./frontend/dist"
}
