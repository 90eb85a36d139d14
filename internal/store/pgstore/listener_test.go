package pgstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSignalAllWakesEveryCollection(t *testing.T) {
	l := newListener(nil, zap.NewNop())
	lines := make(chan struct{}, 1)
	downtime := make(chan struct{}, 1)
	l.watchers["production_lines"] = map[int]chan struct{}{0: lines}
	l.watchers["downtime"] = map[int]chan struct{}{1: downtime}

	l.signalAll()
	// a full buffer must not block
	l.signalAll()

	assert.Len(t, lines, 1)
	assert.Len(t, downtime, 1)
}

func TestSignalOnlyWakesChangedCollection(t *testing.T) {
	l := newListener(nil, zap.NewNop())
	lines := make(chan struct{}, 1)
	downtime := make(chan struct{}, 1)
	l.watchers["production_lines"] = map[int]chan struct{}{0: lines}
	l.watchers["downtime"] = map[int]chan struct{}{1: downtime}

	l.signal("downtime")

	assert.Len(t, lines, 0)
	assert.Len(t, downtime, 1)
}
