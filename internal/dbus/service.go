// Package dbus exposes a running battery-daemon on the session bus so the
// GUI can change its interval, ask for a sample, and read the latest record.
package dbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	godbus "github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

const (
	busName   = "io.github.cptspacemanspiff.BatteryTracker"
	objPath   = "/io/github/cptspacemanspiff/BatteryTracker"
	ifaceName = "io.github.cptspacemanspiff.BatteryTracker"
)

const introspectXML = `
<node>
  <interface name="` + ifaceName + `">
    <method name="GetInterval">
      <arg direction="out" type="u" name="seconds"/>
    </method>
    <method name="SetInterval">
      <arg direction="in" type="u" name="seconds"/>
    </method>
    <method name="SampleNow"/>
    <method name="GetLatest">
      <arg direction="out" type="s" name="json"/>
    </method>
  </interface>
` + introspect.IntrospectDataString + `
</node>`

// Controller is the part of the sampler the service drives.
type Controller interface {
	Interval() time.Duration
	SetInterval(time.Duration) error
	Nudge()
}

// LogLoader reads the record log.
type LogLoader interface {
	Load() (*storage.Result, error)
}

// Service exposes the daemon's sampler over D-Bus.
type Service struct {
	ctl    Controller
	loader LogLoader
}

// NewService creates a new D-Bus service.
func NewService(ctl Controller, loader LogLoader) *Service {
	return &Service{ctl: ctl, loader: loader}
}

// Export registers the service on the session bus.
func (s *Service) Export() (*godbus.Conn, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	if err := conn.Export(s, objPath, ifaceName); err != nil {
		return nil, fmt.Errorf("export service: %w", err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), objPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(busName, godbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request name: %w", err)
	}
	if reply != godbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("name %s already taken", busName)
	}

	return conn, nil
}

// GetInterval returns the sampling interval in seconds.
func (s *Service) GetInterval() (uint32, *godbus.Error) {
	return uint32(s.ctl.Interval() / time.Second), nil
}

// SetInterval changes the sampling interval from the next wait on.
func (s *Service) SetInterval(seconds uint32) *godbus.Error {
	if err := s.ctl.SetInterval(time.Duration(seconds) * time.Second); err != nil {
		return godbus.MakeFailedError(err)
	}
	return nil
}

// SampleNow takes a sample without waiting for the interval.
func (s *Service) SampleNow() *godbus.Error {
	s.ctl.Nudge()
	return nil
}

// GetLatest returns the most recent record as JSON, or "null" when the log
// has none yet.
func (s *Service) GetLatest() (string, *godbus.Error) {
	res, err := s.loader.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return "null", nil
	}
	if err != nil {
		return "", godbus.MakeFailedError(err)
	}
	data, err := json.Marshal(res.Info)
	if err != nil {
		return "", godbus.MakeFailedError(err)
	}
	return string(data), nil
}
