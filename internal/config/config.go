package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Environment string         `yaml:"environment" mapstructure:"environment"`
	Server      ServerConfig   `yaml:"server" mapstructure:"server"`
	Log         LogConfig      `yaml:"log" mapstructure:"log"`
	Store       StoreConfig    `yaml:"store" mapstructure:"store"`
	Cache       CacheConfig    `yaml:"cache" mapstructure:"cache"`
	AI          AIConfig       `yaml:"ai" mapstructure:"ai"`
	NLP         NLPConfig      `yaml:"nlp" mapstructure:"nlp"`
	Telegram    TelegramConfig `yaml:"telegram" mapstructure:"telegram"`
	FAQ         []FAQEntry     `yaml:"faq" mapstructure:"faq"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int   `yaml:"port" mapstructure:"port"`
	MaxBodyBytes    int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	ShutdownTimeout int   `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the catalog database.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	SeedFile    string `yaml:"seed_file" mapstructure:"seed_file"`
}

// CacheConfig configures the response cache backend.
type CacheConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Password string `yaml:"password" mapstructure:"password"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// AIConfig selects and configures the generative provider.
type AIConfig struct {
	Provider          string          `yaml:"provider" mapstructure:"provider"`
	DefaultProvider   string          `yaml:"default_provider" mapstructure:"default_provider"`
	AssistantName     string          `yaml:"assistant_name" mapstructure:"assistant_name"`
	MockResponsesFile string          `yaml:"mock_responses_file" mapstructure:"mock_responses_file"`
	RequestTimeout    int             `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
	OpenAI            ProviderConfig  `yaml:"openai" mapstructure:"openai"`
	DeepSeek          ProviderConfig  `yaml:"deepseek" mapstructure:"deepseek"`
	Gemini            ProviderConfig  `yaml:"gemini" mapstructure:"gemini"`
	Anthropic         ProviderConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Status            StatusEndpoints `yaml:"status" mapstructure:"status"`
}

// ProviderConfig holds credentials and endpoint for one provider.
type ProviderConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// StatusEndpoints are the account status URLs polled by /check_token_status.
type StatusEndpoints struct {
	OpenAIURL   string `yaml:"openai_url" mapstructure:"openai_url"`
	DeepSeekURL string `yaml:"deepseek_url" mapstructure:"deepseek_url"`
}

// NLPConfig configures the keyword extractor.
type NLPConfig struct {
	LexiconPath string `yaml:"lexicon_path" mapstructure:"lexicon_path"`
}

// TelegramConfig configures the optional Telegram bridge.
type TelegramConfig struct {
	Token          string  `yaml:"token" mapstructure:"token"`
	SendsPerSecond float64 `yaml:"sends_per_second" mapstructure:"sends_per_second"`
	SendBurst      int     `yaml:"send_burst" mapstructure:"send_burst"`
}

// FAQEntry maps a trigger phrase to a canned answer.
type FAQEntry struct {
	Trigger string `yaml:"trigger" mapstructure:"trigger"`
	Answer  string `yaml:"answer" mapstructure:"answer"`
}

// Env names kept from the original deployment scripts.
var legacyEnv = map[string][]string{
	"environment":          {"ENVIRONMENT"},
	"server.port":          {"PORT"},
	"store.database_url":   {"DATABASE_URL"},
	"cache.host":           {"REDIS_HOST"},
	"cache.port":           {"REDIS_PORT"},
	"cache.db":             {"REDIS_DB"},
	"cache.password":       {"REDIS_PASSWORD"},
	"ai.provider":          {"IA_PROVIDER", "AI_PROVIDER"},
	"ai.assistant_name":    {"ASSISTANT_NAME"},
	"ai.openai.api_key":    {"OPENAI_API_KEY"},
	"ai.deepseek.api_key":  {"DEEPSEEK_API_KEY"},
	"ai.gemini.api_key":    {"GEMINI_API_KEY"},
	"ai.anthropic.api_key": {"ANTHROPIC_API_KEY"},
	"telegram.token":       {"TELEGRAM_BOT_TOKEN"},
}

// Load reads configuration from .env, an optional lojabot.yaml and the environment.
func Load() (*Config, error) {
	// .env is optional; real env vars take precedence.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("lojabot")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("LOJABOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		args := append([]string{key, "LOJABOT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	if len(cfg.FAQ) == 0 {
		cfg.FAQ = DefaultFAQ()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "database.db")
	v.SetDefault("store.seed_file", "dados_empresa.json")
	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.prefix", "lojabot:chat:")
	v.SetDefault("ai.provider", "mock")
	v.SetDefault("ai.default_provider", "deepseek")
	v.SetDefault("ai.assistant_name", "Assistente Virtual")
	v.SetDefault("ai.mock_responses_file", "config/mock_responses.json")
	v.SetDefault("ai.request_timeout_secs", 60)
	v.SetDefault("ai.openai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.openai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.deepseek.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.deepseek.model", "deepseek/deepseek-chat")
	v.SetDefault("ai.gemini.model", "gemini-1.5-flash")
	v.SetDefault("ai.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("ai.anthropic.max_tokens", 512)
	v.SetDefault("ai.status.openai_url", "https://openrouter.ai/api/v1/auth/key")
	v.SetDefault("ai.status.deepseek_url", "https://api.deepseek.com/v1/status")
	v.SetDefault("telegram.sends_per_second", 25)
	v.SetDefault("telegram.send_burst", 5)
}

// DefaultFAQ returns the built-in trigger table, checked in order.
func DefaultFAQ() []FAQEntry {
	const exchange = "Nossa política de troca permite devoluções em até 30 dias. Para mais detalhes, acesse nosso site."
	const delivery = "Sim, fazemos entregas para o Rio de Janeiro. Consulte o frete na finalização da compra."
	return []FAQEntry{
		{Trigger: "politica de troca", Answer: exchange},
		{Trigger: "trocas", Answer: exchange},
		{Trigger: "devoluções", Answer: exchange},
		{Trigger: "entrega rj", Answer: delivery},
		{Trigger: "entregas rio de janeiro", Answer: delivery},
	}
}

// InitLogger creates a zap logger from LogConfig and sets it as the global logger.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}
