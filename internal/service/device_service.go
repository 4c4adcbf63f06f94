package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"focus-planner/internal/model"
	"focus-planner/internal/notify"
	"focus-planner/internal/repository"
)

// A device counts as online while its last sync is at most this old.
// The boundary is inclusive: exactly five seconds is still online.
const livenessWindow = 5 * time.Second

// Command mailbox slot types.
const (
	CommandNone  = "none"
	CommandStart = "start"
	CommandStop  = "stop"
)

// Command is the single pending instruction for a device. Focus and Break
// are session lengths in seconds, set only for start commands.
type Command struct {
	Type  string `json:"type"`
	Focus int    `json:"focus,omitempty"`
	Break int    `json:"break,omitempty"`
}

// commandMailbox keeps one in-memory slot per device. It is process-local:
// a restart loses pending commands, only state and last_sync are durable.
type commandMailbox struct {
	mu      sync.Mutex
	pending map[uint]Command
}

func newCommandMailbox() *commandMailbox {
	return &commandMailbox{pending: make(map[uint]Command)}
}

func (m *commandMailbox) put(deviceID uint, cmd Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[deviceID] = cmd
}

// take returns the pending command and clears the slot in one critical
// section, so exactly one reader observes a non-none command.
func (m *commandMailbox) take(deviceID uint) Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd, ok := m.pending[deviceID]
	if !ok || cmd.Type == CommandNone {
		return Command{Type: CommandNone}
	}
	m.pending[deviceID] = Command{Type: CommandNone}
	return cmd
}

// DeviceService gates focus-timer commands on device liveness and owns the
// per-device command mailbox.
type DeviceService struct {
	deviceRepo *repository.DeviceRepository
	userRepo   *repository.UserRepository
	queue      *notify.Queue
	mailbox    *commandMailbox
	now        func() time.Time
}

func NewDeviceService(deviceRepo *repository.DeviceRepository, userRepo *repository.UserRepository, queue *notify.Queue) *DeviceService {
	return &DeviceService{
		deviceRepo: deviceRepo,
		userRepo:   userRepo,
		queue:      queue,
		mailbox:    newCommandMailbox(),
		now:        time.Now,
	}
}

func (s *DeviceService) getDevice(ctx context.Context, deviceID uint) (*model.Device, error) {
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: device %d", ErrNotFound, deviceID)
	}
	if err != nil {
		return nil, err
	}
	return device, nil
}

func (s *DeviceService) isOnline(device *model.Device) bool {
	return s.now().Sub(device.LastSync) <= livenessWindow
}

// Start queues a start command with the given focus and break lengths
// (seconds). Rejected when the device is unknown, offline, or a length is
// missing.
func (s *DeviceService) Start(ctx context.Context, deviceID uint, focus, brk int) error {
	device, err := s.getDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if !s.isOnline(device) {
		return fmt.Errorf("%w: cannot send start", ErrDeviceOffline)
	}
	if focus <= 0 || brk <= 0 {
		return fmt.Errorf("%w: focus and break are required", ErrInvalidInput)
	}

	s.mailbox.put(deviceID, Command{Type: CommandStart, Focus: focus, Break: brk})

	if err := s.deviceRepo.SetState(ctx, deviceID, model.DeviceActive, s.now()); err != nil {
		return err
	}

	s.notifyOwner(ctx, device.UserID, func(user model.User) {
		s.queue.FocusSessionStarted(user)
	})
	return nil
}

// Stop queues a stop command. Rejected when the device is unknown or
// offline.
func (s *DeviceService) Stop(ctx context.Context, deviceID uint) error {
	device, err := s.getDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if !s.isOnline(device) {
		return fmt.Errorf("%w: cannot send stop", ErrDeviceOffline)
	}

	s.mailbox.put(deviceID, Command{Type: CommandStop})

	if err := s.deviceRepo.SetState(ctx, deviceID, model.DeviceInactive, s.now()); err != nil {
		return err
	}

	s.notifyOwner(ctx, device.UserID, func(user model.User) {
		s.queue.FocusSessionFinished(user)
	})
	return nil
}

// FetchCommand hands the pending command to the polling device and clears
// the slot, at most once per command. The poll itself counts as a liveness
// heartbeat.
func (s *DeviceService) FetchCommand(ctx context.Context, deviceID uint) (Command, error) {
	if _, err := s.getDevice(ctx, deviceID); err != nil {
		return Command{}, err
	}

	cmd := s.mailbox.take(deviceID)

	if err := s.deviceRepo.Touch(ctx, deviceID, s.now()); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// ReportStatus ingests a device-side status report. "offline" forces the
// persisted state to inactive with an epoch sync stamp, guaranteeing the
// next liveness check fails; "online" and "break_end" notify the owner;
// anything else is a plain heartbeat.
func (s *DeviceService) ReportStatus(ctx context.Context, deviceID uint, status string) error {
	device, err := s.getDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidInput)
	}

	if status == "offline" {
		if err := s.deviceRepo.SetState(ctx, deviceID, model.DeviceInactive, time.Unix(0, 0)); err != nil {
			return err
		}
		s.notifyOwner(ctx, device.UserID, func(user model.User) {
			s.queue.DeviceOffline(user, deviceID)
		})
		return nil
	}

	if err := s.deviceRepo.Touch(ctx, deviceID, s.now()); err != nil {
		return err
	}
	switch status {
	case "online":
		s.notifyOwner(ctx, device.UserID, func(user model.User) {
			s.queue.DeviceOnline(user, deviceID)
		})
	case "break_end":
		s.notifyOwner(ctx, device.UserID, func(user model.User) {
			s.queue.BreakFinished(user)
		})
	}
	return nil
}

func (s *DeviceService) notifyOwner(ctx context.Context, userID uint, send func(model.User)) {
	if s.queue == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("notify owner of device: %v", err)
		return
	}
	send(*user)
}
