package config

// #region config
// Config is the resolved runtime configuration.
type Config struct {
	CorpusPath    string         `mapstructure:"corpus_path"`
	DBPath        string         `mapstructure:"db_path"`
	Learned       LearnedConfig  `mapstructure:"learned"`
	Threshold     float64        `mapstructure:"threshold"`
	SystemIntents []string       `mapstructure:"system_intents"`
	Debug         bool           `mapstructure:"debug"`
	HTTPAddr      string         `mapstructure:"http_addr"`
	GRPCAddr      string         `mapstructure:"grpc_addr"`
	Trainer       TrainerConfig  `mapstructure:"trainer"`
	Messages      MessagesConfig `mapstructure:"messages"`
}

// LearnedConfig selects the learned-knowledge backend.
type LearnedConfig struct {
	Backend string `mapstructure:"backend"` // json | sqlite
	Path    string `mapstructure:"path"`    // json file, ignored for sqlite
}

// TrainerConfig mirrors classifier.TrainConfig.
type TrainerConfig struct {
	MaxIter      int     `mapstructure:"max_iter"`
	C            float64 `mapstructure:"c"`
	LearningRate float64 `mapstructure:"learning_rate"`
	Tolerance    float64 `mapstructure:"tolerance"`
}

// MessagesConfig overrides fixed replies. Empty keeps the built-in text.
type MessagesConfig struct {
	Uncertain string `mapstructure:"uncertain"`
	Fallback  string `mapstructure:"fallback"`
	Learned   string `mapstructure:"learned"`
}

// #endregion config
