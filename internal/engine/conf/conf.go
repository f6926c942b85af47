package conf

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/go-pancake/pancake/pkg/cache"
	"github.com/go-pancake/pancake/pkg/database"
	httpx "github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/log"
)

/**
 * @file: conf.go
 * @description: application configuration, toml format with hot reload
 */

type AppConfig struct {
	Log       log.Conf
	Http      httpx.Http
	Database  database.Database
	Redis     cache.Redis
	Snowflake Snowflake
}

// Snowflake ID 生成器配置
type Snowflake struct {
	WorkerId int64 `mapstructure:"workerId"`
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load conf file
func LoadConfigFile(confDir string) (AppConfig, error) {

	config := viper.New()
	config.SetConfigFile(confDir)
	config.AddConfigPath("./conf.d")
	config.SetConfigName("config")
	config.SetConfigType("toml")
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("The configuration changes, re-analyze the configuration file: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}
	fmt.Printf("[Init] config file path: %s\n", confDir)

	return cfg, nil
}

func GetString(key string) string {
	return viper.GetString(key)
}
