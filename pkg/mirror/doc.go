// Package mirror is a small client for the Hedera mirror node REST API. The
// wallet facades use it to describe pending operations: account balances and
// staking, token metadata, consensus nodes, scheduled transactions and
// topics.
//
// A 404 from the mirror node is reported as ErrNotFound so callers can tell a
// missing entity from a transport failure.
package mirror
