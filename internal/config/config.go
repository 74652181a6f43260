package config

// #region imports
import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/danielpatrickdp/intent-responder/internal/classifier"
	"github.com/danielpatrickdp/intent-responder/internal/gate"
	"github.com/danielpatrickdp/intent-responder/internal/learned"
	"github.com/danielpatrickdp/intent-responder/internal/resolver"
)

// #endregion imports

// EnvPrefix namespaces environment overrides, e.g. RESPONDER_LEARNED_BACKEND.
const EnvPrefix = "RESPONDER"

// #region viper
// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every key so env overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	tc := classifier.DefaultTrainConfig()
	msgs := resolver.DefaultMessages()

	v.SetDefault("corpus_path", "intents.json")
	v.SetDefault("db_path", "responder.db")
	v.SetDefault("learned.backend", learned.BackendJSON)
	v.SetDefault("learned.path", "learned_knowledge.json")
	v.SetDefault("threshold", gate.DefaultThreshold)
	v.SetDefault("system_intents", gate.DefaultSystemIntents())
	v.SetDefault("debug", false)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("grpc_addr", ":9090")
	v.SetDefault("trainer.max_iter", tc.MaxIter)
	v.SetDefault("trainer.c", tc.C)
	v.SetDefault("trainer.learning_rate", tc.LearningRate)
	v.SetDefault("trainer.tolerance", tc.Tolerance)
	v.SetDefault("messages.uncertain", msgs.Uncertain)
	v.SetDefault("messages.fallback", msgs.Fallback)
	v.SetDefault("messages.learned", "")
}

// #endregion viper

// #region load
// LoadDotEnv loads .env files that exist. Variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads cfgFile, or ./responder.yaml when cfgFile is empty, into v and
// returns the validated result. A missing default file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("responder")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// #endregion load

// #region validate
// Validate rejects settings the components would refuse later anyway.
func (c *Config) Validate() error {
	if c.CorpusPath == "" {
		return errors.New("config: corpus_path is required")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("config: threshold %.3f outside [0,1]", c.Threshold)
	}
	switch c.Learned.Backend {
	case learned.BackendJSON:
		if c.Learned.Path == "" {
			return errors.New("config: learned.path is required for the json backend")
		}
	case learned.BackendSQLite:
		if c.DBPath == "" {
			return errors.New("config: db_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("config: unknown learned.backend %q", c.Learned.Backend)
	}
	if c.Trainer.MaxIter < 0 {
		return fmt.Errorf("config: trainer.max_iter %d is negative", c.Trainer.MaxIter)
	}
	if c.Trainer.C <= 0 || c.Trainer.LearningRate <= 0 {
		return errors.New("config: trainer.c and trainer.learning_rate must be positive")
	}
	return nil
}

// #endregion validate

// #region component-settings
// GateConfig unions the configured system intents with those the corpus marks.
func (c *Config) GateConfig(corpusSystemTags []string) gate.GateConfig {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range append(append([]string{}, c.SystemIntents...), corpusSystemTags...) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return gate.GateConfig{Threshold: c.Threshold, SystemIntents: tags}
}

// TrainOptions converts the trainer section into classifier options.
func (c *Config) TrainOptions() []classifier.Option {
	return []classifier.Option{
		classifier.WithMaxIter(c.Trainer.MaxIter),
		classifier.WithC(c.Trainer.C),
		classifier.WithLearningRate(c.Trainer.LearningRate),
		classifier.WithTolerance(c.Trainer.Tolerance),
	}
}

// ResolverMessages returns the uncertain and fallback replies.
func (c *Config) ResolverMessages() resolver.Messages {
	return resolver.Messages{Uncertain: c.Messages.Uncertain, Fallback: c.Messages.Fallback}
}

// #endregion component-settings
