package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
)

// Devices manages the devices owned by a user.
type Devices struct {
	deviceStore model.DeviceStore
	logger      *logger.Logger

	bestEffortCreate bool
}

// DevicesOption configures a Devices service.
type DevicesOption func(*Devices)

// WithBestEffortCreate makes Register log and swallow every store failure
// instead of reporting it, matching the historical behavior of this layer.
// The default reports duplicate serials as a soft conflict like the rest of
// the stores; prefer it unless a caller depends on the old fire-and-forget
// contract.
func WithBestEffortCreate() DevicesOption {
	return func(d *Devices) {
		d.bestEffortCreate = true
	}
}

func NewDevices(deviceStore model.DeviceStore, logger *logger.Logger, opts ...DevicesOption) *Devices {
	d := &Devices{
		deviceStore: deviceStore,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds a device for the given user. It returns false without error
// when the serial is already registered (to any user); infrastructure
// failures propagate unless the service was built WithBestEffortCreate.
func (d *Devices) Register(ctx context.Context, userID int64, name, serial string) (bool, error) {
	device, err := d.deviceStore.Create(ctx, userID, name, serial)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			d.logger.Info("Device service: serial already registered",
				"serial", serial,
				"user_id", userID)
			return false, nil
		}
		if d.bestEffortCreate {
			d.logger.Error("Device service: dropping failed device registration",
				"serial", serial,
				"user_id", userID,
				"error", err.Error())
			return false, nil
		}
		d.logger.Error("Device service: failed to register device",
			"serial", serial,
			"user_id", userID,
			"error", err.Error())
		return false, fmt.Errorf("failed to register device: %w", err)
	}

	d.logger.Info("Device service: device registered",
		"device_id", device.ID,
		"serial", device.Serial,
		"user_id", userID)

	return true, nil
}

// List returns the devices owned by the user, possibly empty.
func (d *Devices) List(ctx context.Context, userID int64) ([]model.Device, error) {
	devices, err := d.deviceStore.GetByUserID(ctx, userID)
	if err != nil {
		d.logger.Error("Device service: failed to list devices",
			"user_id", userID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	d.logger.Debug("Device service: listed devices",
		"user_id", userID,
		"count", len(devices))

	return devices, nil
}
