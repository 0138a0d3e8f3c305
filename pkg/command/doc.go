// Package command builds and executes the Hedera transactions behind every
// wallet operation. Builders are pure and can be inspected before anything is
// sent; Runner executes them with a client from a ClientFactory.
package command
