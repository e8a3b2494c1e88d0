package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"
)

// Defaults for the arbitrage engine. Tolerance and slippage are relative
// fractions of the sqrtPriceX96 values, not of the spot price.
const (
	DefaultSqrtPriceTolerance = 25e-4 // > 50 bps in price
	DefaultSqrtPriceSlippage  = 0.005
	DefaultSecondsToDeadline  = 600
	DefaultGasEstimate        = 250000
	DefaultFeeBuffer          = 0.125
	DefaultConfirmations      = 1

	// Worst-case gas the submitted transaction may consume. Deliberately
	// distinct from GasEstimate, which only sizes the fee budget.
	DefaultGasCeiling = 100000

	// Fixed gas price used for fee budgeting: 10 Gwei. The price is not
	// queried live; the budget stays deterministic across blocks.
	DefaultGasPriceWei = 10_000_000_000

	DefaultFlashbotsRelay = "https://relay.flashbots.net"
)

// Config is the immutable process configuration, read once at startup and
// passed into the engine's constructor. It is never re-read per cycle.
type Config struct {
	// Chain and network settings
	RPCEndpoint    string `yaml:"rpc_endpoint"`
	WSEndpoint     string `yaml:"ws_endpoint"`
	FlashbotsRelay string `yaml:"flashbots_relay"`

	// Contract wiring
	ArbitrageurAddress common.Address `yaml:"arbitrageur_address"`
	PoolAddress        common.Address `yaml:"pool_address"`

	// Trigger and trade parameters
	SqrtPriceTolerance float64  `yaml:"sqrt_price_tolerance"`
	SqrtPriceSlippage  float64  `yaml:"sqrt_price_slippage"`
	AmountOutMinWei    *big.Int `yaml:"-"`
	SecondsToDeadline  uint64   `yaml:"seconds_til_deadline"`

	// Transaction cost model
	GasEstimate uint64   `yaml:"gas_estimate"`
	GasCeiling  uint64   `yaml:"gas_ceiling"`
	GasPriceWei *big.Int `yaml:"-"`
	FeeBuffer   float64  `yaml:"fee_buffer"`

	// Submission policy
	TxPrivate     bool   `yaml:"tx_private"`
	Confirmations uint64 `yaml:"required_confirmations"`
}

type yamlConfig struct {
	RPCEndpoint        string  `yaml:"rpc_endpoint"`
	WSEndpoint         string  `yaml:"ws_endpoint"`
	FlashbotsRelay     string  `yaml:"flashbots_relay"`
	ArbitrageurAddress string  `yaml:"arbitrageur_address"`
	PoolAddress        string  `yaml:"pool_address"`
	SqrtPriceTolerance float64 `yaml:"sqrt_price_tolerance"`
	SqrtPriceSlippage  float64 `yaml:"sqrt_price_slippage"`
	AmountOutMinETH    float64 `yaml:"amount_out_min_eth"`
	SecondsToDeadline  uint64  `yaml:"seconds_til_deadline"`
	GasEstimate        uint64  `yaml:"gas_estimate"`
	GasCeiling         uint64  `yaml:"gas_ceiling"`
	FeeBuffer          float64 `yaml:"fee_buffer"`
	TxPrivate          bool    `yaml:"tx_private"`
	Confirmations      uint64  `yaml:"required_confirmations"`
}

// DefaultConfig returns a Config with all engine defaults applied and no
// network or contract wiring.
func DefaultConfig() *Config {
	return &Config{
		FlashbotsRelay:     DefaultFlashbotsRelay,
		SqrtPriceTolerance: DefaultSqrtPriceTolerance,
		SqrtPriceSlippage:  DefaultSqrtPriceSlippage,
		AmountOutMinWei:    big.NewInt(0),
		SecondsToDeadline:  DefaultSecondsToDeadline,
		GasEstimate:        DefaultGasEstimate,
		GasCeiling:         DefaultGasCeiling,
		GasPriceWei:        big.NewInt(DefaultGasPriceWei),
		FeeBuffer:          DefaultFeeBuffer,
		TxPrivate:          false,
		Confirmations:      DefaultConfirmations,
	}
}

// LoadConfig builds the process configuration: defaults, then the optional
// YAML config file, then environment variable overrides, then validation.
func LoadConfig(cfgFile string) (*Config, error) {
	cfg := DefaultConfig()

	if cfgFile != "" {
		if err := cfg.applyFile(cfgFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	if yc.RPCEndpoint != "" {
		c.RPCEndpoint = yc.RPCEndpoint
	}
	if yc.WSEndpoint != "" {
		c.WSEndpoint = yc.WSEndpoint
	}
	if yc.FlashbotsRelay != "" {
		c.FlashbotsRelay = yc.FlashbotsRelay
	}
	if yc.ArbitrageurAddress != "" {
		c.ArbitrageurAddress = common.HexToAddress(yc.ArbitrageurAddress)
	}
	if yc.PoolAddress != "" {
		c.PoolAddress = common.HexToAddress(yc.PoolAddress)
	}
	if yc.SqrtPriceTolerance != 0 {
		c.SqrtPriceTolerance = yc.SqrtPriceTolerance
	}
	if yc.SqrtPriceSlippage != 0 {
		c.SqrtPriceSlippage = yc.SqrtPriceSlippage
	}
	if yc.AmountOutMinETH != 0 {
		c.AmountOutMinWei = ethToWei(yc.AmountOutMinETH)
	}
	if yc.SecondsToDeadline != 0 {
		c.SecondsToDeadline = yc.SecondsToDeadline
	}
	if yc.GasEstimate != 0 {
		c.GasEstimate = yc.GasEstimate
	}
	if yc.GasCeiling != 0 {
		c.GasCeiling = yc.GasCeiling
	}
	if yc.FeeBuffer != 0 {
		c.FeeBuffer = yc.FeeBuffer
	}
	if yc.TxPrivate {
		c.TxPrivate = true
	}
	if yc.Confirmations != 0 {
		c.Confirmations = yc.Confirmations
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvRPCEndpoint); v != "" {
		c.RPCEndpoint = v
	}
	if v := os.Getenv(EnvWSEndpoint); v != "" {
		c.WSEndpoint = v
	}
	if v := os.Getenv(EnvFlashbotsRelay); v != "" {
		c.FlashbotsRelay = v
	}
	if v := os.Getenv(EnvArbitrageurAddr); v != "" {
		c.ArbitrageurAddress = common.HexToAddress(v)
	}
	if v := os.Getenv(EnvPoolAddr); v != "" {
		c.PoolAddress = common.HexToAddress(v)
	}

	var err error
	if c.SqrtPriceTolerance, err = getEnvFloat(EnvSqrtPriceTol, c.SqrtPriceTolerance); err != nil {
		return err
	}
	if c.SqrtPriceSlippage, err = getEnvFloat(EnvSqrtPriceSlippage, c.SqrtPriceSlippage); err != nil {
		return err
	}
	if v := os.Getenv(EnvAmountOutMinETH); v != "" {
		eth, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAmountOutMinETH, err)
		}
		c.AmountOutMinWei = ethToWei(eth)
	}
	if c.SecondsToDeadline, err = getEnvUint(EnvSecondsToDeadline, c.SecondsToDeadline); err != nil {
		return err
	}
	if c.GasEstimate, err = getEnvUint(EnvArbGasEstimate, c.GasEstimate); err != nil {
		return err
	}
	if c.FeeBuffer, err = getEnvFloat(EnvTxnFeeBuffer, c.FeeBuffer); err != nil {
		return err
	}
	if c.TxPrivate, err = getEnvBool(EnvTxnPrivate, c.TxPrivate); err != nil {
		return err
	}
	if c.Confirmations, err = getEnvUint(EnvTxnConfirmations, c.Confirmations); err != nil {
		return err
	}
	return nil
}

// Validate checks the loaded configuration, collecting every violation.
func (c *Config) Validate() error {
	var errors []string

	if c.RPCEndpoint == "" {
		errors = append(errors, "rpc_endpoint must be specified")
	}
	if c.WSEndpoint == "" {
		errors = append(errors, "ws_endpoint must be specified")
	}
	if c.ArbitrageurAddress == (common.Address{}) {
		errors = append(errors, "arbitrageur_address must be specified")
	}
	if c.PoolAddress == (common.Address{}) {
		errors = append(errors, "pool_address must be specified")
	}
	if c.SqrtPriceTolerance < 0 {
		errors = append(errors, "sqrt_price_tolerance must not be negative")
	}
	if c.SqrtPriceSlippage < 0 {
		errors = append(errors, "sqrt_price_slippage must not be negative")
	}
	if c.AmountOutMinWei == nil || c.AmountOutMinWei.Sign() < 0 {
		errors = append(errors, "amount_out_min must not be negative")
	}
	if c.GasEstimate == 0 {
		errors = append(errors, "gas_estimate must be positive")
	}
	if c.GasCeiling == 0 {
		errors = append(errors, "gas_ceiling must be positive")
	}
	if c.GasPriceWei == nil || c.GasPriceWei.Sign() <= 0 {
		errors = append(errors, "gas_price must be positive")
	}
	if c.FeeBuffer < 0 {
		errors = append(errors, "fee_buffer must not be negative")
	}
	if c.Confirmations == 0 {
		errors = append(errors, "required_confirmations must be positive")
	}
	if c.TxPrivate && c.FlashbotsRelay == "" {
		errors = append(errors, "flashbots_relay must be specified when tx_private is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

func ethToWei(eth float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(eth), big.NewFloat(1e18)).Int(nil)
	return wei
}
