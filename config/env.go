package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables
const (
	EnvRPCEndpoint       = "RPC_ENDPOINT"
	EnvWSEndpoint        = "WS_ENDPOINT"
	EnvPrivateKey        = "PRIVATE_KEY"
	EnvArbitrageurAddr   = "CONTRACT_ADDRESS_PAIR_ARBITRAGEUR"
	EnvPoolAddr          = "CONTRACT_ADDRESS_MARGV1_POOL"
	EnvSqrtPriceTol      = "SQRT_PRICE_TOLERANCE"
	EnvSqrtPriceSlippage = "SQRT_PRICE_SLIPPAGE"
	EnvAmountOutMinETH   = "AMOUNT_OUT_MIN_ETH"
	EnvSecondsToDeadline = "SECONDS_TIL_DEADLINE"
	EnvArbGasEstimate    = "ARB_GAS_ESTIMATE"
	EnvTxnFeeBuffer      = "TXN_FEE_BUFFER"
	EnvTxnPrivate        = "TXN_PRIVATE"
	EnvTxnConfirmations  = "TXN_REQUIRED_CONFIRMATIONS"
	EnvFlashbotsRelay    = "FLASHBOTS_RELAY"
)

// LoadEnv loads environment variables from .env file
func LoadEnv() error {
	return godotenv.Load()
}

// GetEnvWithDefault gets an environment variable with a default value
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetRequiredEnv gets an environment variable or errors if it is unset
func GetRequiredEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s not set", key)
	}
	return value, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return u, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
