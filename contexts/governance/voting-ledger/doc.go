// Package votingledger implements the token-weighted election engine inside
// the governance context.
//
// The module owns the vote credit ledger (registration, allowances, transfers,
// burns) and the election lifecycle (create, nominate, start, end, vote). Both
// share one unit of work so a vote moves credits and bumps the tally
// atomically. Every committed change appends a sequenced event to an outbox
// drained by the relay worker.
package votingledger
