package env

import (
	"errors"
	"os"
)

// Environment is the Solana cluster the application targets.
type Environment string

const (
	// EnvironmentMainnet is the main Solana cluster.
	EnvironmentMainnet Environment = "mainnet-beta"

	// EnvironmentTestnet is the Solana test cluster.
	EnvironmentTestnet Environment = "testnet"

	// EnvironmentDevnet is the Solana development cluster.
	EnvironmentDevnet Environment = "devnet"

	// EnvironmentLocalnet is a locally run validator.
	EnvironmentLocalnet Environment = "localnet"
)

var (
	// ErrBadEnvironmentVariableSet occurs when the MINTGATE_ENVIRONMENT
	// environment variable is set to an invalid value.
	ErrBadEnvironmentVariableSet = errors.New("environment variable MINTGATE_ENVIRONMENT was not 'mainnet-beta', 'testnet', 'devnet', or 'localnet'")
)

// FromEnvVariable will try to retrieve the environment variable
// MINTGATE_ENVIRONMENT. If the value is not a known cluster, it will
// return an error.
func FromEnvVariable() (Environment, error) {
	env := Environment(os.Getenv("MINTGATE_ENVIRONMENT"))
	if !env.IsValid() {
		return "", ErrBadEnvironmentVariableSet
	}
	return env, nil
}

// IsValid returns true if the Environment is valid.
func (env Environment) IsValid() bool {
	switch env {
	case EnvironmentMainnet, EnvironmentTestnet, EnvironmentDevnet, EnvironmentLocalnet:
		return true
	default:
		return false
	}
}

// RPCEndpoint returns the default JSON RPC endpoint for the cluster.
func (env Environment) RPCEndpoint() string {
	switch env {
	case EnvironmentMainnet:
		return "https://api.mainnet-beta.solana.com"
	case EnvironmentTestnet:
		return "https://api.testnet.solana.com"
	case EnvironmentDevnet:
		return "https://api.devnet.solana.com"
	case EnvironmentLocalnet:
		return "http://localhost:8899"
	default:
		return ""
	}
}
