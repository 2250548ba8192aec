package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	AI      AIConfig
	Storage StorageConfig
	Session SessionConfig
	Catalog CatalogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Log:     logCfg,
		AI:      ai,
		Storage: storage,
		Session: session,
		Catalog: catalog,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

func loadLogConfig() (LogConfig, error) {
	level := strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value %q", level)
	}

	development, err := parseBoolEnv("LOG_DEVELOPMENT", false)
	if err != nil {
		return LogConfig{}, err
	}

	return LogConfig{Level: level, Development: development}, nil
}

// AI providers.
const (
	ProviderMock   = "mock"
	ProviderArk    = "ark"
	ProviderOpenAI = "openai"
)

// AIConfig 描述回复生成与翻译服务的配置。
type AIConfig struct {
	Provider           string
	Ark                ArkConfig
	OpenAI             OpenAIConfig
	GenerationTimeout  time.Duration
	TranslationTimeout time.Duration
}

// ArkConfig 描述 Ark 大模型相关配置。
type ArkConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// OpenAIConfig describes the OpenAI Responses backend.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Enabled reports whether an API key and model are configured.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	generationTimeout, err := parseDurationEnv("AI_GENERATION_TIMEOUT", 30*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	translationTimeout, err := parseDurationEnv("AI_TRANSLATION_TIMEOUT", 15*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	ark := ArkConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}

	openAI := OpenAIConfig{
		APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		BaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
	}

	provider := strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER")))
	switch provider {
	case "":
		// 未显式指定时按凭证自动选择。
		switch {
		case ark.Enabled():
			provider = ProviderArk
		case openAI.Enabled():
			provider = ProviderOpenAI
		default:
			provider = ProviderMock
		}
	case ProviderMock, ProviderArk, ProviderOpenAI:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q", provider)
	}

	return AIConfig{
		Provider:           provider,
		Ark:                ark,
		OpenAI:             openAI,
		GenerationTimeout:  generationTimeout,
		TranslationTimeout: translationTimeout,
	}, nil
}

// Storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// StorageConfig selects and configures the durable store.
type StorageConfig struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

func loadStorageConfig() (StorageConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageFile))
	switch backend {
	case StorageMemory, StorageFile, StorageSQLite, StorageRedis:
	default:
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_BACKEND value %q", backend)
	}

	redisDB := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return StorageConfig{}, err
	} else if override != nil {
		redisDB = *override
	}

	cfg := StorageConfig{
		Backend:       backend,
		Path:          getEnvOrDefault("STORAGE_PATH", ".solace"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		KeyPrefix:     getEnvOrDefault("STORAGE_KEY_PREFIX", "solace."),
	}
	return cfg, nil
}

// SessionConfig holds conversation defaults.
type SessionConfig struct {
	DefaultLanguage    string
	PersistenceEnabled bool
	EscalationDelay    time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	persistence, err := parseBoolEnv("SESSION_PERSISTENCE_ENABLED", true)
	if err != nil {
		return SessionConfig{}, err
	}

	delay, err := parseDurationEnv("ESCALATION_DELAY", time.Second)
	if err != nil {
		return SessionConfig{}, err
	}
	if delay < 0 {
		return SessionConfig{}, fmt.Errorf("invalid ESCALATION_DELAY value %q: must not be negative", delay)
	}

	return SessionConfig{
		DefaultLanguage:    getEnvOrDefault("SESSION_DEFAULT_LANGUAGE", "en"),
		PersistenceEnabled: persistence,
		EscalationDelay:    delay,
	}, nil
}

// CatalogConfig describes where extra articles are loaded from at startup.
type CatalogConfig struct {
	File        string
	FeedURLs    []string
	FeedTimeout time.Duration
}

func loadCatalogConfig() (CatalogConfig, error) {
	timeout, err := parseDurationEnv("CATALOG_FEED_TIMEOUT", 10*time.Second)
	if err != nil {
		return CatalogConfig{}, err
	}

	var feeds []string
	for _, raw := range strings.Split(os.Getenv("CATALOG_FEED_URLS"), ",") {
		if u := strings.TrimSpace(raw); u != "" {
			feeds = append(feeds, u)
		}
	}

	return CatalogConfig{
		File:        strings.TrimSpace(os.Getenv("CATALOG_FILE")),
		FeedURLs:    feeds,
		FeedTimeout: timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
