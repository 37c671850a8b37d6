package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/limaJavier/roomscheduler/pkg/schedule"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every environment override, e.g. ROOMSCHED_SERVER_ADDRESS
const EnvPrefix = "ROOMSCHED"

type Config struct {
	Days     int      `mapstructure:"days"`
	Blocks   []string `mapstructure:"blocks"`
	Strategy string   `mapstructure:"strategy"`
	TieBreak string   `mapstructure:"tieBreak"`
	Catalog  string   `mapstructure:"catalog"`
	Server   Server   `mapstructure:"server"`
	Log      Log      `mapstructure:"log"`
}

type Server struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load merges, by increasing precedence, the defaults, the optional file, the optional .env file lying next to
// it (or in the working directory) and the environment
func Load(file string) (Config, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("days", 5)
	conf.SetDefault("blocks", lo.Map(model.DefaultBlocks, func(block model.Block, _ int) string {
		return fmt.Sprintf("%d-%d", block.Start, block.End)
	}))
	conf.SetDefault("strategy", string(schedule.StrategyGreedy))
	conf.SetDefault("tieBreak", string(schedule.TieBreakCatalog))
	conf.SetDefault("catalog", "")
	conf.SetDefault("server.address", ":8080")
	conf.SetDefault("server.shutdownTimeout", 10*time.Second)
	conf.SetDefault("log.level", "info")
	conf.SetDefault("log.development", false)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := ".env"
	if file != "" {
		dotEnvPath = filepath.Join(filepath.Dir(file), ".env")
	}
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return Config{}, fmt.Errorf("cannot load %v: %w", dotEnvPath, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	conf.SetEnvPrefix(EnvPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()

	if file != "" {
		conf.SetConfigFile(file)
		if err := conf.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cannot read configuration %v: %w", file, err)
		}
	}

	var config Config
	if err := conf.Unmarshal(&config); err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

func (config Config) Validate() error {
	if _, err := config.Grid(); err != nil {
		return err
	} else if _, err := schedule.ParseStrategy(config.Strategy); err != nil {
		return err
	} else if _, err := schedule.ParseTieBreak(config.TieBreak); err != nil {
		return err
	}
	return nil
}

func (config Config) Grid() (model.Grid, error) {
	blocks := make([]model.Block, 0, len(config.Blocks))
	for _, value := range config.Blocks {
		block, err := model.ParseBlock(value)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return model.NewGrid(config.Days, blocks)
}

func (config Config) Timetabler() (schedule.Timetabler, error) {
	strategy, err := schedule.ParseStrategy(config.Strategy)
	if err != nil {
		return nil, err
	}
	tieBreak, err := schedule.ParseTieBreak(config.TieBreak)
	if err != nil {
		return nil, err
	}
	return schedule.NewTimetabler(strategy, tieBreak)
}

func (config Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(config.Log.Level)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if config.Log.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = level
	return zapConfig.Build()
}
