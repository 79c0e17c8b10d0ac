package collector

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestSleepMonitor() *SleepMonitor {
	return &SleepMonitor{
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
		log:  zerolog.Nop(),
	}
}

func startRun(m *SleepMonitor, ch <-chan *dbus.Signal) <-chan struct{} {
	exited := make(chan struct{})
	go func() {
		m.run(ch)
		close(exited)
	}()
	return exited
}

func TestSleepMonitor_WakesOnResume(t *testing.T) {
	m := newTestSleepMonitor()
	ch := make(chan *dbus.Signal)
	exited := startRun(m, ch)
	defer func() {
		m.Close()
		<-exited
	}()

	ch <- &dbus.Signal{Name: prepareForSleep, Body: []interface{}{false}}

	select {
	case <-m.Wake():
	case <-time.After(time.Second):
		t.Fatal("no wake after resume signal")
	}
}

func TestSleepMonitor_IgnoresOtherSignals(t *testing.T) {
	m := newTestSleepMonitor()
	ch := make(chan *dbus.Signal)
	exited := startRun(m, ch)

	ch <- &dbus.Signal{Name: prepareForSleep, Body: []interface{}{true}}
	ch <- &dbus.Signal{Name: "org.freedesktop.login1.Manager.SessionNew", Body: []interface{}{false}}
	ch <- &dbus.Signal{Name: prepareForSleep, Body: []interface{}{"false"}}
	ch <- &dbus.Signal{Name: prepareForSleep}
	ch <- nil

	// ch is unbuffered, so run has handled every send above once Close
	// makes it return.
	m.Close()
	<-exited

	select {
	case <-m.Wake():
		t.Fatal("woke without a resume signal")
	default:
	}
}

func TestSleepMonitor_WakeDoesNotBlock(t *testing.T) {
	m := newTestSleepMonitor()
	ch := make(chan *dbus.Signal)
	exited := startRun(m, ch)

	for i := 0; i < 3; i++ {
		ch <- &dbus.Signal{Name: prepareForSleep, Body: []interface{}{false}}
	}
	m.Close()
	<-exited

	assert.Len(t, m.wake, 1)
}

func TestSleepMonitor_RunReturnsWhenChannelCloses(t *testing.T) {
	m := newTestSleepMonitor()
	ch := make(chan *dbus.Signal)
	exited := startRun(m, ch)

	close(ch)

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("run did not return")
	}
}
