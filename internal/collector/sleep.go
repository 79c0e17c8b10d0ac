package collector

import (
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// SleepMonitor listens for systemd-logind PrepareForSleep signals. A battery
// can drain or charge a lot while the machine sleeps, so the daemon and the
// GUI use the wake channel to take a fresh sample right after resume instead
// of waiting out the rest of their interval.
type SleepMonitor struct {
	conn *dbus.Conn
	done chan struct{}
	wake chan struct{}
	log  zerolog.Logger
}

// NewSleepMonitor creates a new sleep monitor connected to the system bus.
func NewSleepMonitor(logger zerolog.Logger) (*SleepMonitor, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.login1.Manager"),
		dbus.WithMatchMember("PrepareForSleep"),
	)
	if err != nil {
		return nil, err
	}

	m := &SleepMonitor{
		conn: conn,
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
		log:  logger,
	}
	go m.listen()
	return m, nil
}

// Wake returns a channel that receives a value each time the system wakes from sleep.
func (m *SleepMonitor) Wake() <-chan struct{} {
	return m.wake
}

// Close stops the monitor.
func (m *SleepMonitor) Close() {
	close(m.done)
}

const prepareForSleep = "org.freedesktop.login1.Manager.PrepareForSleep"

func (m *SleepMonitor) listen() {
	ch := make(chan *dbus.Signal, 16)
	m.conn.Signal(ch)
	defer m.conn.RemoveSignal(ch)
	m.run(ch)
}

// run handles signals from ch until Close is called or ch is closed.
func (m *SleepMonitor) run(ch <-chan *dbus.Signal) {
	for {
		select {
		case sig, ok := <-ch:
			if !ok {
				return
			}
			if sig == nil || sig.Name != prepareForSleep || len(sig.Body) < 1 {
				continue
			}
			active, ok := sig.Body[0].(bool)
			if !ok {
				continue
			}
			if active {
				m.log.Info().Msg("system going to sleep")
				continue
			}
			m.log.Info().Msg("system woke up")
			select {
			case m.wake <- struct{}{}:
			default:
			}
		case <-m.done:
			return
		}
	}
}
