package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/events"
)

const (
	homeKey     = "home"
	genesisKey  = "genesis"
	chainIDKey  = "chain_id"
	debugKey    = "debug"
	nodeKey     = "node"
	dbDirKey    = "db.dir"
	inMemoryKey = "db.in_memory"
	httpAddrKey = "http.addr"
	httpRateKey = "http.rate"
	logLevelKey = "log.level"
	logFmtKey   = "log.format"
	redisKey    = "events.redis.addr"
	channelKey  = "events.redis.channel"
	postgresKey = "events.postgres.dsn"
	wsKey       = "events.websocket"
	queueKey    = "events.queue"

	envPrefix = "SWAPD"
)

var defaultHome = filepath.Join(os.ExpandEnv("$HOME"), ".swapd")

// Config is the resolved daemon configuration.
type Config struct {
	Home     string
	Genesis  string
	ChainID  string
	Debug    bool
	Node     string
	DBDir    string
	InMemory bool
	HTTPAddr string
	HTTPRate int
	LogLevel string
	LogFmt   string
	Redis    string
	Channel  string
	Postgres string
	Stream   bool
	Queue    int
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(homeKey, defaultHome)
	v.SetDefault(nodeKey, "http://localhost:8080")
	v.SetDefault(httpAddrKey, "localhost:8080")
	v.SetDefault(httpRateKey, 50)
	v.SetDefault(logLevelKey, "info")
	v.SetDefault(logFmtKey, "plain")
	v.SetDefault(channelKey, events.DefaultRedisChannel)
	v.SetDefault(wsKey, true)
	v.SetDefault(queueKey, events.DefaultQueueSize)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readConfigFile merges swapd.(toml|yaml|json) from the home directory, if
// there is one.
func readConfigFile(v *viper.Viper) error {
	v.SetConfigName("swapd")
	v.AddConfigPath(v.GetString(homeKey))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.Wrapf(errors.ErrInput, "config file: %s", err)
	}
	return nil
}

func loadConfig(v *viper.Viper) Config {
	home := v.GetString(homeKey)
	c := Config{
		Home:     home,
		Genesis:  v.GetString(genesisKey),
		ChainID:  v.GetString(chainIDKey),
		Debug:    v.GetBool(debugKey),
		Node:     v.GetString(nodeKey),
		DBDir:    v.GetString(dbDirKey),
		InMemory: v.GetBool(inMemoryKey),
		HTTPAddr: v.GetString(httpAddrKey),
		HTTPRate: v.GetInt(httpRateKey),
		LogLevel: v.GetString(logLevelKey),
		LogFmt:   v.GetString(logFmtKey),
		Redis:    v.GetString(redisKey),
		Channel:  v.GetString(channelKey),
		Postgres: v.GetString(postgresKey),
		Stream:   v.GetBool(wsKey),
		Queue:    v.GetInt(queueKey),
	}
	if c.Genesis == "" {
		c.Genesis = filepath.Join(home, "config", "genesis.json")
	}
	if c.DBDir == "" {
		c.DBDir = filepath.Join(home, "data")
	}
	return c
}

func (c Config) keyFile(name string) string {
	return filepath.Join(c.Home, "keys", name+".key")
}

func newLogger(out io.Writer, format, level string) (log.Logger, error) {
	var logger log.Logger
	switch format {
	case "", "plain":
		logger = log.NewTMLogger(log.NewSyncWriter(out))
	case "json":
		logger = log.NewTMJSONLogger(log.NewSyncWriter(out))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown log format %q", format)
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt).With("module", "swapd"), nil
}
