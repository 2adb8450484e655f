package toml

import (
	"fmt"

	"github.com/spf13/viper"
)

type TomlConfig struct {
	AppName     string
	Environment string
	Log         LogConfig
	Mysql       MysqlConfig
	Redis       RedisConfig
	Server      ServerConfig
	Stats       StatsConfig
	Import      ImportConfig
}

type LogConfig struct {
	Path  string
	Level string
}

type MysqlConfig struct {
	Host     string
	User     string
	Password string
	DbName   string
	Port     int64
}

type RedisConfig struct {
	Urls     []string
	Password string
}

type ServerConfig struct {
	Port        int
	CorsOrigins []string
}

type StatsConfig struct {
	DefaultLimit int
	MaxLimit     int
	CacheTTLSecs int
}

type ImportConfig struct {
	Directory    string
	Schedule     string
	Batchsize    int
	Numworkers   int
	Jobqueuesize int
	Concurrency  int
}

var c TomlConfig // c is type TomlConfig

func init() {
	//viper is used as a configuration solution for Go Applications
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println(err)
	}
	setDefaults()
	viper.Unmarshal(&c) // from low level format to object (json) structure
}

// setDefaults keeps the service runnable without a full config file.
// The stats defaults mirror what the front-end expects (25 rows per page).
func setDefaults() {
	viper.SetDefault("Server.Port", 5000)
	viper.SetDefault("Stats.DefaultLimit", 25)
	viper.SetDefault("Stats.MaxLimit", 1000)
	viper.SetDefault("Stats.CacheTTLSecs", 300)
	viper.SetDefault("Import.Directory", "./import")
	viper.SetDefault("Import.Schedule", "@every 1m")
	viper.SetDefault("Import.Batchsize", 1000)
	viper.SetDefault("Import.Numworkers", 2)
	viper.SetDefault("Import.Jobqueuesize", 16)
	viper.SetDefault("Import.Concurrency", 4)
}

func GetConfig() TomlConfig {
	return c
}
