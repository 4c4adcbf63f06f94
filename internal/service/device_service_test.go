package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"focus-planner/internal/model"
	"focus-planner/internal/repository"
)

func newDeviceService(db *gorm.DB, at time.Time) *DeviceService {
	svc := NewDeviceService(repository.NewDeviceRepository(db), repository.NewUserRepository(db), nil)
	svc.now = func() time.Time { return at }
	return svc
}

func createDevice(t *testing.T, db *gorm.DB, userID uint, lastSync time.Time) *model.Device {
	t.Helper()
	device := model.Device{UserID: userID, ESPID: "esp-01", State: model.DeviceInactive, LastSync: lastSync}
	if err := repository.NewDeviceRepository(db).Create(context.Background(), &device); err != nil {
		t.Fatalf("create device: %v", err)
	}
	return &device
}

func TestStartUnknownDevice(t *testing.T) {
	db := newTestDB(t)
	svc := newDeviceService(db, time.Now())

	err := svc.Start(context.Background(), 12345, 1500, 300)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStartLivenessBoundary(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name     string
		lastSync time.Time
		online   bool
	}{
		{"exactly at window", now.Add(-livenessWindow), true},
		{"just past window", now.Add(-livenessWindow - time.Millisecond), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			user := createUser(t, db, "dev@example.com")
			device := createDevice(t, db, user.ID, tc.lastSync)
			svc := newDeviceService(db, now)

			err := svc.Start(context.Background(), device.ID, 1500, 300)
			if tc.online && err != nil {
				t.Fatalf("device at window edge must be online: %v", err)
			}
			if !tc.online && !errors.Is(err, ErrDeviceOffline) {
				t.Fatalf("want ErrDeviceOffline, got %v", err)
			}
		})
	}
}

func TestStartRequiresSessionLengths(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now)
	svc := newDeviceService(db, now)

	for _, args := range [][2]int{{0, 300}, {1500, 0}, {-1, -1}} {
		if err := svc.Start(context.Background(), device.ID, args[0], args[1]); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Start(%d, %d): want ErrInvalidInput, got %v", args[0], args[1], err)
		}
	}
}

func TestStartMarksDeviceActive(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now.Add(-2*time.Second))
	svc := newDeviceService(db, now)

	if err := svc.Start(context.Background(), device.ID, 1500, 300); err != nil {
		t.Fatalf("start: %v", err)
	}

	stored, err := repository.NewDeviceRepository(db).GetByID(context.Background(), device.ID)
	if err != nil {
		t.Fatalf("reload device: %v", err)
	}
	if stored.State != model.DeviceActive {
		t.Errorf("state = %q, want %q", stored.State, model.DeviceActive)
	}
	if stored.LastSync.Before(now.Add(-time.Second)) {
		t.Errorf("start must refresh last_sync, got %v", stored.LastSync)
	}
}

func TestFetchCommandDeliversAtMostOnce(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now)
	svc := newDeviceService(db, now)
	ctx := context.Background()

	if err := svc.Start(ctx, device.ID, 1500, 300); err != nil {
		t.Fatalf("start: %v", err)
	}

	first, err := svc.FetchCommand(ctx, device.ID)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.Type != CommandStart || first.Focus != 1500 || first.Break != 300 {
		t.Fatalf("first fetch = %+v, want start 1500/300", first)
	}

	second, err := svc.FetchCommand(ctx, device.ID)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if second.Type != CommandNone {
		t.Errorf("second fetch = %+v, want none", second)
	}
}

func TestFetchCommandCountsAsHeartbeat(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now.Add(-time.Hour))
	svc := newDeviceService(db, now)
	ctx := context.Background()

	// Stale device polls: the poll itself refreshes liveness.
	if _, err := svc.FetchCommand(ctx, device.ID); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if err := svc.Start(ctx, device.ID, 1500, 300); err != nil {
		t.Fatalf("start after poll must see the device online: %v", err)
	}
}

func TestStopQueuesStopCommand(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now)
	svc := newDeviceService(db, now)
	ctx := context.Background()

	if err := svc.Start(ctx, device.ID, 1500, 300); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.Stop(ctx, device.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	cmd, err := svc.FetchCommand(ctx, device.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if cmd.Type != CommandStop {
		t.Errorf("command = %+v, want stop; stop must overwrite the pending start", cmd)
	}

	stored, err := repository.NewDeviceRepository(db).GetByID(ctx, device.ID)
	if err != nil {
		t.Fatalf("reload device: %v", err)
	}
	if stored.State != model.DeviceInactive {
		t.Errorf("state = %q, want %q", stored.State, model.DeviceInactive)
	}
}

func TestReportStatusOfflineForcesGateClosed(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now)
	svc := newDeviceService(db, now)
	ctx := context.Background()

	if err := svc.ReportStatus(ctx, device.ID, "offline"); err != nil {
		t.Fatalf("report offline: %v", err)
	}

	stored, err := repository.NewDeviceRepository(db).GetByID(ctx, device.ID)
	if err != nil {
		t.Fatalf("reload device: %v", err)
	}
	if stored.State != model.DeviceInactive {
		t.Errorf("state = %q, want %q", stored.State, model.DeviceInactive)
	}
	if !stored.LastSync.Equal(time.Unix(0, 0)) {
		t.Errorf("last_sync = %v, want epoch", stored.LastSync)
	}

	if err := svc.Start(ctx, device.ID, 1500, 300); !errors.Is(err, ErrDeviceOffline) {
		t.Fatalf("start after offline report: want ErrDeviceOffline, got %v", err)
	}
}

func TestReportStatusRequiresValue(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now)
	svc := newDeviceService(db, now)

	if err := svc.ReportStatus(context.Background(), device.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestReportStatusBreakEndNotifiesOwner(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now)

	provider := &captureProvider{}
	svc := NewDeviceService(repository.NewDeviceRepository(db), repository.NewUserRepository(db), runQueue(t, provider))
	svc.now = func() time.Time { return now }

	if err := svc.ReportStatus(context.Background(), device.ID, "break_end"); err != nil {
		t.Fatalf("report break_end: %v", err)
	}

	sent := waitForSends(t, provider, 1)
	if sent[0].Payload["type"] != "break_end" {
		t.Errorf("payload type = %v, want break_end", sent[0].Payload["type"])
	}
}

func TestReportStatusOnlineRefreshesLiveness(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dev@example.com")
	now := time.Now()
	device := createDevice(t, db, user.ID, now.Add(-time.Hour))
	svc := newDeviceService(db, now)
	ctx := context.Background()

	if err := svc.ReportStatus(ctx, device.ID, "online"); err != nil {
		t.Fatalf("report online: %v", err)
	}
	if err := svc.Start(ctx, device.ID, 1500, 300); err != nil {
		t.Fatalf("start after online report: %v", err)
	}
}
