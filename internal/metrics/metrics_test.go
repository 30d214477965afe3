// file: internal/metrics/metrics_test.go
// version: 1.0.0
// guid: 2b8e6d04-7c1a-4593-b6f2-9a0d4e7c3b58

package metrics

import (
	"testing"
	"time"
)

func TestRegisterIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestIncSearch(t *testing.T) {
	IncSearch(OutcomeMatched)
	IncSearch(OutcomeEmpty)
	IncSearch(OutcomeSuggested)
}

func TestObserveSearchDuration(t *testing.T) {
	ObserveSearchDuration(250 * time.Microsecond)
}

func TestIncRegistryReload(t *testing.T) {
	IncRegistryReload()
}

func TestSetEntities(t *testing.T) {
	SetEntities(42)
}

func TestUpdateRuntime(t *testing.T) {
	UpdateRuntime()
}
