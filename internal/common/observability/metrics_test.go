package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	obs := New("observability-test")
	defer obs.Shutdown()

	require.NotNil(t, obs.simulationRecovery)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "completed")
		obs.RecordJobDuration(ctx, 125*time.Millisecond, "completed")
		obs.RecordSimulationRecovery(ctx, 5310, "medium")
	})
}

// Handlers carry the recorder as an optional dependency, so a nil receiver
// must be a no-op.
func TestRecordersNilReceiver(t *testing.T) {
	var obs *Observability

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "completed")
		obs.RecordJobDuration(ctx, time.Second, "failed")
		obs.RecordSimulationRecovery(ctx, 0, "low")
		obs.Shutdown()
	})
}
