// Package shared holds configuration and helpers used by every wallet
// package: network normalization, operator credentials loaded from the
// environment or a .env file, the YAML wallet config, key parsing, amount
// unit conversion and EVM address helpers.
//
// # Environment Variables
//
// Operator credentials are read from HEDERA_ACCOUNT_ID and HEDERA_PRIVATE_KEY.
// Network-scoped variants (for example TESTNET_HEDERA_ACCOUNT_ID) take
// precedence for their network. HEDERA_NETWORK selects the network.
package shared
