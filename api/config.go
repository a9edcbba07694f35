package api

import (
	"sync"
	"time"

	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	LedgerConfig
	ServerConfig
}

type StorageConfig struct {
	TableNameElections   string
	TableNameCandidates  string
	TableNamePoliticians string
}

type LedgerConfig struct {
	SubmitTimeout time.Duration
}

type ServerConfig struct {
	Port int
}

var settingsOnce sync.Once

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			TableNameElections:   viper.GetString("storage.TableNameElections"),
			TableNameCandidates:  viper.GetString("storage.TableNameCandidates"),
			TableNamePoliticians: viper.GetString("storage.TableNamePoliticians"),
		},
		LedgerConfig: LedgerConfig{
			SubmitTimeout: time.Duration(getIntOrDefault("ledger.SubmitTimeoutSeconds", 10)) * time.Second,
		},
		ServerConfig: ServerConfig{
			Port: viper.GetInt("server.port"),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
