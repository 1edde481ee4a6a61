package postgres

import (
	"context"
	"fmt"

	"github.com/homeward-labs/homegate-server/internal/model"
)

var _ model.DeviceStore = (*DeviceRepository)(nil)

type DeviceRepository struct {
	db *Connection
}

func NewDeviceRepository(db *Connection) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create inserts a device for the given owner. An already registered serial
// surfaces as model.ErrConflict regardless of which user owns it; an unknown
// owner as model.ErrNotFound.
func (r *DeviceRepository) Create(ctx context.Context, userID int64, name, serial string) (model.Device, error) {
	const query = `
        INSERT INTO devices (name, serial, user_id)
        VALUES ($1, $2, $3)
        RETURNING id, name, serial, user_id, created_at
    `

	var device model.Device
	err := r.db.QueryRow(ctx, query, name, serial, userID).Scan(
		&device.ID, &device.Name, &device.Serial, &device.UserID, &device.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Device{}, model.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return model.Device{}, model.ErrNotFound
		}
		return model.Device{}, fmt.Errorf("failed to create device: %w", err)
	}

	return device, nil
}

// GetByUserID lists the devices owned by a user, oldest first. A user with
// no devices gets an empty slice, not an error.
func (r *DeviceRepository) GetByUserID(ctx context.Context, userID int64) ([]model.Device, error) {
	const query = `
        SELECT id, name, serial, user_id, created_at
        FROM devices WHERE user_id = $1
        ORDER BY id
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get devices by user id: %w", err)
	}
	defer rows.Close()

	devices := make([]model.Device, 0)
	for rows.Next() {
		var device model.Device
		if err := rows.Scan(&device.ID, &device.Name, &device.Serial, &device.UserID, &device.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device row: %w", err)
		}
		devices = append(devices, device)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read device rows: %w", err)
	}

	return devices, nil
}
