package dbus

import (
	"encoding/json"
	"fmt"
	"time"

	godbus "github.com/godbus/dbus/v5"

	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

// Client talks to a battery-daemon exported with Service.
type Client struct {
	obj godbus.BusObject
}

// NewClient connects to the session bus. It succeeds even when no daemon is
// running; calls then fail.
func NewClient() (*Client, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &Client{obj: conn.Object(busName, objPath)}, nil
}

func (c *Client) Interval() (time.Duration, error) {
	var secs uint32
	if err := c.obj.Call(ifaceName+".GetInterval", 0).Store(&secs); err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

func (c *Client) SetInterval(d time.Duration) error {
	return c.obj.Call(ifaceName+".SetInterval", 0, uint32(d/time.Second)).Err
}

func (c *Client) SampleNow() error {
	return c.obj.Call(ifaceName+".SampleNow", 0).Err
}

// Latest returns the daemon's most recent record, nil when there is none.
func (c *Client) Latest() (*storage.DeviceInfo, error) {
	var jsonStr string
	if err := c.obj.Call(ifaceName+".GetLatest", 0).Store(&jsonStr); err != nil {
		return nil, err
	}
	var info *storage.DeviceInfo
	if err := json.Unmarshal([]byte(jsonStr), &info); err != nil {
		return nil, err
	}
	return info, nil
}
