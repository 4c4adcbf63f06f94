package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"focus-planner/internal/model"
)

// DeviceRepository handles CRUD for focus-timer devices.
type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, device *model.Device) error {
	if err := r.db.WithContext(ctx).Create(device).Error; err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, id uint) (*model.Device, error) {
	var device model.Device
	if err := r.db.WithContext(ctx).First(&device, id).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *DeviceRepository) ListAll(ctx context.Context) ([]model.Device, error) {
	var devices []model.Device
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// SetState updates the persisted state and the liveness stamp together.
func (r *DeviceRepository) SetState(ctx context.Context, id uint, state string, syncAt time.Time) error {
	updates := map[string]interface{}{
		"state":     state,
		"last_sync": syncAt,
	}
	if err := r.db.WithContext(ctx).Model(&model.Device{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("set device state: %w", err)
	}
	return nil
}

// Touch stamps last_sync without changing the state.
func (r *DeviceRepository) Touch(ctx context.Context, id uint, syncAt time.Time) error {
	if err := r.db.WithContext(ctx).Model(&model.Device{}).Where("id = ?", id).
		Update("last_sync", syncAt).Error; err != nil {
		return fmt.Errorf("touch device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) Save(ctx context.Context, device *model.Device) error {
	if err := r.db.WithContext(ctx).Save(device).Error; err != nil {
		return fmt.Errorf("save device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Device{}, id).Error; err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	return nil
}
