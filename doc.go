// Package walletfacades provides wallet facades for the Hedera network.
// Each facade reads the current wallet state, shows the user what is about
// to happen, and only then signs and submits a transaction.
//
// # Facades
//
//   - Consensus topics: create topics and submit messages
//   - Tokens: associate and dissociate fungible tokens and NFTs
//   - Transfers: HBAR, fungible token and NFT transfers in one transaction
//   - Atomic swaps: scheduled multi-party swaps with an optional service fee
//   - Staking: stake HBAR to a node or account, and unstake
//
// # Packages
//
// pkg/facade holds the facades themselves. pkg/command builds and executes
// Hedera transactions, pkg/mirror reads the mirror node, pkg/state keeps
// the local wallet database and pkg/dialog renders confirmation panels.
// cmd/hwallet is a command line wallet built on top of them.
//
// # Installation
//
//	go get github.com/hashgraph-online/wallet-facades-go@latest
package walletfacades
