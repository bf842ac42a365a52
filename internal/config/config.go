package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type ScorerConfig struct {
	Command string            `mapstructure:"command"`
	Args    []string          `mapstructure:"args"`
	Env     map[string]string `mapstructure:"env"`
}

type HarnessConfig struct {
	TrainingLog string       `mapstructure:"training_log"`
	TestingLog  string       `mapstructure:"testing_log"`
	EvalTarget  string       `mapstructure:"eval_target"`
	Scorer      ScorerConfig `mapstructure:"scorer"`
}

const EnvPrefix = "STSHARNESS"

func SetDefaults(v *viper.Viper) {
	v.SetDefault("training_log", "training.log")
	v.SetDefault("testing_log", "testing.log")
	v.SetDefault("eval_target", "eval.t7")
	v.SetDefault("scorer.command", "stsrun")
	v.SetDefault("scorer.args", []string{"training/sts.epd", ".", "10000000000", "0.1", "0"})
	v.SetDefault("scorer.env", map[string]string{"OMP_NUM_THREADS": "14"})
}

// LoadHarness reads the harness settings. cfgPath may be empty,
// environment variables STSHARNESS_<KEY> override the file.
func LoadHarness(v *viper.Viper, cfgPath string) (*HarnessConfig, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg HarnessConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	// viper folds map keys to lower case, environment names are upper case
	var env = make(map[string]string, len(cfg.Scorer.Env))
	for key, value := range cfg.Scorer.Env {
		env[strings.ToUpper(key)] = value
	}
	cfg.Scorer.Env = env
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HarnessConfig) Validate() error {
	if c.TrainingLog == "" {
		return errors.New("training_log is required")
	}
	if c.TestingLog == "" {
		return errors.New("testing_log is required")
	}
	if c.EvalTarget == "" {
		return errors.New("eval_target is required")
	}
	if c.Scorer.Command == "" {
		return errors.New("scorer.command is required")
	}
	return nil
}
