package track

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("recap", reg)
	require.NotNil(t, m)

	m.recordPoll(pollerList)
	m.recordPoll(pollerStatus)
	m.recordCadence(cadenceActive)
	m.recordTerminalStop()
	m.recordChatRollback()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.recordPoll(pollerList)
		m.recordCadence(cadenceIdle)
		m.recordTerminalStop()
		m.recordChatRollback()
	})
}
