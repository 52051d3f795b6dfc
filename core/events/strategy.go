package events

// StrategyEvent is emitted when the planning manager chooses a
// strategy. Action can be "oracle_attempt", "oracle_rejected", or
// "deterministic_fallback".
type StrategyEvent struct {
	Operation string
	Action    string
	Err       error
}
