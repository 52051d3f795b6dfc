// Package events defines the planning related events emitted on the
// event bus.
//
// Available event types:
//   - PlanEvent: a planning call completed
//   - StrategyEvent: oracle selection and fallback information
package events
