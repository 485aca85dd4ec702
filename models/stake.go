package models

// Stake is the amount reserved from an account's balances for one game
// session. Both legs are non-negative and at least one is positive. A stake
// is owned by its session until settlement consumes it.
type Stake struct {
	Tokens  int64
	Credits int64
}

// Total returns the combined staked amount across both currencies
func (s Stake) Total() int64 {
	return s.Tokens + s.Credits
}
