package config

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/confirm"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/kafkasink"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/otellib"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/api"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/chain"
)

// ServerListen for specifying host & port
type ServerListen struct {
	Host string `mapstructure:"host"`
	Port uint16 `mapstructure:"port"`
}

// ServerConfig for configure HTTP & gRPC host & port
type ServerConfig struct {
	GRPC ServerListen `mapstructure:"grpc"`
	HTTP ServerListen `mapstructure:"http"`
}

// String for host:port
func (s ServerListen) String() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ListenString for listen to 0.0.0.0
func (s ServerListen) ListenString() string {
	return fmt.Sprintf(":%d", s.Port)
}

// LedgerConfig is the node and campaign configuration, amounts are decimal strings
type LedgerConfig struct {
	DataDir string `mapstructure:"data_dir"`

	FactoryAddress string `mapstructure:"factory_address"`
	Admin          string `mapstructure:"admin"`
	Verifier       string `mapstructure:"verifier"`
	TokenWallet    string `mapstructure:"token_wallet"`
	ForwardTag     string `mapstructure:"forward_tag"`

	MaxAffiliates      uint32 `mapstructure:"max_affiliates"`
	RequiredGasBuffer  string `mapstructure:"required_gas_buffer"`
	TokenTransferFee   string `mapstructure:"token_transfer_fee"`
	BotActionCodeLimit uint32 `mapstructure:"bot_action_code_limit"`
	TokenDecimals      int32  `mapstructure:"token_decimals"`

	QueueSize int `mapstructure:"queue_size"`
}

// NodeConfig converts to the chain node config
func (c LedgerConfig) NodeConfig() (chain.Config, error) {
	gasBuffer, err := model.ParseAmount(c.RequiredGasBuffer, model.NativeDecimals)
	if err != nil {
		return chain.Config{}, fmt.Errorf("required_gas_buffer: %w", err)
	}
	fee, err := model.ParseAmount(c.TokenTransferFee, model.NativeDecimals)
	if err != nil {
		return chain.Config{}, fmt.Errorf("token_transfer_fee: %w", err)
	}

	return chain.Config{
		FactoryAddress:     model.Address(c.FactoryAddress),
		Admin:              model.Address(c.Admin),
		Verifier:           model.Address(c.Verifier),
		TokenWallet:        model.Address(c.TokenWallet),
		ForwardTag:         c.ForwardTag,
		MaxAffiliates:      c.MaxAffiliates,
		RequiredGasBuffer:  gasBuffer,
		TokenTransferFee:   fee,
		BotActionCodeLimit: model.ActionCode(c.BotActionCodeLimit),
		QueueSize:          c.QueueSize,
	}, nil
}

// IngestConfig converts directly to ingest.Config, this package must not import ingest
type IngestConfig struct {
	Name      string        `mapstructure:"name"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`

	Accounts []string `mapstructure:"accounts"`

	LeaseKey string        `mapstructure:"lease_key"`
	LeaseTTL time.Duration `mapstructure:"lease_ttl"`

	MemTableSize int `mapstructure:"mem_table_size"`
}

// NodeClientConfig is used by commands talking to a remote node
type NodeClientConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the config of the whole application
type Config struct {
	Env          string               `mapstructure:"env"`
	Server       ServerConfig         `mapstructure:"server"`
	IngestServer ServerConfig         `mapstructure:"ingest_server"`
	Log          LogConfig            `mapstructure:"log"`
	MySQL        MySQLConfig          `mapstructure:"mysql"`
	Memcache     MemcacheConfig       `mapstructure:"memcache"`
	Kafka        kafkasink.Config     `mapstructure:"kafka"`
	Jaeger       otellib.JaegerConfig `mapstructure:"jaeger"`

	Ledger  LedgerConfig     `mapstructure:"ledger"`
	API     api.Config       `mapstructure:"api"`
	Node    NodeClientConfig `mapstructure:"node"`
	Confirm confirm.Config   `mapstructure:"confirm"`
	Ingest  IngestConfig     `mapstructure:"ingest"`
}

func setDefaults(vip *viper.Viper) {
	nodeConf := chain.DefaultConfig()
	vip.SetDefault("env", "local")

	vip.SetDefault("server.grpc.host", "localhost")
	vip.SetDefault("server.grpc.port", 10080)
	vip.SetDefault("server.http.host", "localhost")
	vip.SetDefault("server.http.port", 10090)
	vip.SetDefault("ingest_server.grpc.host", "localhost")
	vip.SetDefault("ingest_server.grpc.port", 10081)
	vip.SetDefault("ingest_server.http.host", "localhost")
	vip.SetDefault("ingest_server.http.port", 10091)

	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.format", "json")

	vip.SetDefault("ledger.data_dir", "data/ledger")
	vip.SetDefault("ledger.factory_address", string(nodeConf.FactoryAddress))
	vip.SetDefault("ledger.forward_tag", nodeConf.ForwardTag)
	vip.SetDefault("ledger.max_affiliates", nodeConf.MaxAffiliates)
	vip.SetDefault("ledger.required_gas_buffer", nodeConf.RequiredGasBuffer.Format(model.NativeDecimals))
	vip.SetDefault("ledger.token_transfer_fee", nodeConf.TokenTransferFee.Format(model.NativeDecimals))
	vip.SetDefault("ledger.bot_action_code_limit", uint32(nodeConf.BotActionCodeLimit))
	vip.SetDefault("ledger.token_decimals", model.DefaultTokenDecimals)
	vip.SetDefault("ledger.queue_size", nodeConf.QueueSize)

	apiConf := api.DefaultConfig()
	vip.SetDefault("api.submit_rate", apiConf.SubmitRate)
	vip.SetDefault("api.submit_burst", apiConf.SubmitBurst)
	vip.SetDefault("api.default_limit", apiConf.DefaultLimit)
	vip.SetDefault("api.max_limit", apiConf.MaxLimit)

	vip.SetDefault("node.url", "http://localhost:10090")
	vip.SetDefault("node.timeout", 10*time.Second)

	confirmConf := confirm.DefaultConfig()
	vip.SetDefault("confirm.interval", confirmConf.Interval)
	vip.SetDefault("confirm.attempts", confirmConf.Attempts)
	vip.SetDefault("confirm.history_limit", confirmConf.HistoryLimit)

	vip.SetDefault("ingest.name", "default")
	vip.SetDefault("ingest.interval", time.Second)
	vip.SetDefault("ingest.batch_size", 100)
	vip.SetDefault("ingest.lease_key", "ingest-lease")
	vip.SetDefault("ingest.lease_ttl", 15*time.Second)
	vip.SetDefault("ingest.mem_table_size", 4*1024*1024)
}

func loadConfig(configFile string) Config {
	vip := viper.New()
	setDefaults(vip)

	vip.SetConfigFile(configFile)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	err := vip.ReadInConfig()
	if err != nil {
		panic(err)
	}

	var conf Config
	err = vip.Unmarshal(&conf)
	if err != nil {
		panic(err)
	}
	return conf
}

// Load config from config.yml in the working directory
func Load() Config {
	return loadConfig("config.yml")
}

// LoadTestConfig load config for testing
func LoadTestConfig(rootDir string) Config {
	return loadConfig(path.Join(rootDir, "config.test.yml"))
}
