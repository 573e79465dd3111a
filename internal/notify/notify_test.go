package notify

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-reservation/internal/model"
)

func TestRecorder_Drain(t *testing.T) {
	var r Recorder
	r.Notify(context.Background(), "v1", Info("Login Successful", "Welcome back!"))
	r.Notify(context.Background(), "v1", Error("Booking Failed", "Museum not found"))

	assert.Equal(t, 2, r.Len())
	got := r.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, model.NotificationInfo, got[0].Kind)
	assert.Equal(t, model.NotificationError, got[1].Kind)
	assert.Empty(t, r.Drain())
}

func TestMulti_FansOutAndSkipsNil(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, nil, &b}

	m.Notify(context.Background(), "v1", Info("t", "d"))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestLog_LevelsByKind(t *testing.T) {
	logger, hook := test.NewNullLogger()
	l := Log{Logger: logger}

	l.Notify(context.Background(), "v1", Error("Payment Failed", "declined"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "v1", hook.LastEntry().Data["visit"])
	assert.Equal(t, "declined", hook.LastEntry().Message)

	l.Notify(context.Background(), "v1", Info("Payment Successful!", "ok"))
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}
