package main

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	bValidator "github.com/x-xyz/marketclient/base/validator"
	"github.com/x-xyz/marketclient/domain"
	wallet "github.com/x-xyz/marketclient/stores/wallet/repository"
)

const envPrefix = "MARKETCLIENT"

type NetworkConfig struct {
	RpcUrl         string        `mapstructure:"rpcUrl" validate:"required,url"`
	CurrencySymbol string        `mapstructure:"currencySymbol" validate:"required"`
	Decimals       int32         `mapstructure:"decimals" validate:"min=0,max=36"`
	Throttle       int           `mapstructure:"throttle" validate:"min=0"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type ContractConfig struct {
	Marketplace string `mapstructure:"marketplace" validate:"required,address"`
	// Asset restricts listings to one asset contract, empty keeps every contract
	Asset string `mapstructure:"asset" validate:"omitempty,address"`
}

type MarketplaceConfig struct {
	SaleIdentifier string `mapstructure:"saleIdentifier" validate:"omitempty,oneof=asset listing"`
}

type MetadataConfig struct {
	Policy      string        `mapstructure:"policy" validate:"omitempty,oneof=exclude placeholder"`
	Retries     int           `mapstructure:"retries" validate:"min=0,max=10"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IpfsGateway string        `mapstructure:"ipfsGateway" validate:"omitempty,url"`
	IpfsNodeApi string        `mapstructure:"ipfsNodeApi"`
	ArGateway   string        `mapstructure:"arGateway" validate:"omitempty,url"`
	CacheTtl    time.Duration `mapstructure:"cacheTtl"`
	CacheSizeMb int           `mapstructure:"cacheSizeMb" validate:"min=0"`
	// Headers are sent with every http metadata request
	Headers map[string]string `mapstructure:"headers"`
}

type RedisConfig struct {
	Uri            string  `mapstructure:"uri"`
	Password       string  `mapstructure:"password"`
	PoolMultiplier float64 `mapstructure:"poolMultiplier" validate:"min=0"`
}

type WalletConfig struct {
	Provider         string `mapstructure:"provider" validate:"required,oneof=keystore external"`
	KeystoreDir      string `mapstructure:"keystoreDir" validate:"required_if=Provider keystore"`
	Account          string `mapstructure:"account" validate:"omitempty,address"`
	ExternalEndpoint string `mapstructure:"externalEndpoint" validate:"required_if=Provider external"`
	ConfirmSign      bool   `mapstructure:"confirmSign"`
}

type PurchaseConfig struct {
	GasLimit      uint64        `mapstructure:"gasLimit"`
	Confirmations uint64        `mapstructure:"confirmations"`
	Timeout       time.Duration `mapstructure:"timeout"`
	PollInterval  time.Duration `mapstructure:"pollInterval"`
}

type RefreshConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency" validate:"min=0,max=128"`
	// OnStart loads the first snapshot in the background at boot
	OnStart bool `mapstructure:"onStart"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type Config struct {
	Debug       bool              `mapstructure:"debug"`
	Network     NetworkConfig     `mapstructure:"network"`
	Contract    ContractConfig    `mapstructure:"contract"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Metadata    MetadataConfig    `mapstructure:"metadata"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Wallet      WalletConfig      `mapstructure:"wallet"`
	Purchase    PurchaseConfig    `mapstructure:"purchase"`
	Refresh     RefreshConfig     `mapstructure:"refresh"`
	Server      ServerConfig      `mapstructure:"server"`
}

func (c *Config) MarketplaceAddress() common.Address {
	return common.HexToAddress(c.Contract.Marketplace)
}

func (c *Config) AssetAddress() common.Address {
	if c.Contract.Asset == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.Contract.Asset)
}

func (c *Config) WalletAccount() common.Address {
	if c.Wallet.Account == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.Wallet.Account)
}

func (c *Config) MetadataPolicy() domain.MetadataPolicy {
	return domain.MetadataPolicy(c.Metadata.Policy)
}

func (c *Config) SaleIdentifier() domain.SaleIdentifier {
	return domain.SaleIdentifier(c.Marketplace.SaleIdentifier)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("network.currencySymbol", "MATIC")
	v.SetDefault("network.decimals", 18)
	v.SetDefault("network.throttle", 16)
	v.SetDefault("network.timeout", 15*time.Second)
	v.SetDefault("marketplace.saleIdentifier", string(domain.SaleIdentifierAsset))
	v.SetDefault("metadata.policy", string(domain.MetadataPolicyExclude))
	v.SetDefault("metadata.retries", 0)
	v.SetDefault("metadata.timeout", 10*time.Second)
	v.SetDefault("metadata.ipfsGateway", "https://ipfs.io/ipfs")
	v.SetDefault("metadata.arGateway", "https://arweave.net")
	v.SetDefault("metadata.cacheTtl", time.Hour)
	v.SetDefault("metadata.cacheSizeMb", 32)
	v.SetDefault("wallet.provider", wallet.ProviderKeystore)
	v.SetDefault("purchase.confirmations", 1)
	v.SetDefault("purchase.timeout", 2*time.Minute)
	v.SetDefault("purchase.pollInterval", time.Second)
	v.SetDefault("refresh.timeout", time.Minute)
	v.SetDefault("refresh.concurrency", 8)
	v.SetDefault("refresh.onStart", true)
	v.SetDefault("server.address", ":8080")
}

// loadConfig reads the yaml file named by --config, env vars prefixed with MARKETCLIENT_ win
func loadConfig(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("marketclient", pflag.ContinueOnError)
	path := flags.String("config", "infra/configs/marketclient/config.yaml", "path of the yaml config file")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	// metrics reads datadog_host and env_name from the global instance
	v := viper.GetViper()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetConfigFile(*path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, xerrors.Errorf("read config %s: %w", *path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, xerrors.Errorf("unmarshal config: %w", err)
	}
	if err := bValidator.New().Struct(cfg); err != nil {
		return nil, xerrors.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
