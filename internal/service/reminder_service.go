package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"focus-planner/internal/model"
	"focus-planner/internal/notify"
	"focus-planner/internal/repository"
)

// ReminderService sweeps upcoming task deadlines and queues reminder pushes.
type ReminderService struct {
	taskRepo   *repository.TaskRepository
	statusRepo *repository.StatusRepository
	userRepo   *repository.UserRepository
	queue      *notify.Queue
	lookahead  time.Duration
	now        func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

// NewReminderService builds a sweeper that warns about deadlines falling
// within lookahead of the current time.
func NewReminderService(taskRepo *repository.TaskRepository, statusRepo *repository.StatusRepository, userRepo *repository.UserRepository, queue *notify.Queue, lookahead time.Duration) *ReminderService {
	if lookahead <= 0 {
		lookahead = time.Hour
	}
	return &ReminderService{
		taskRepo:   taskRepo,
		statusRepo: statusRepo,
		userRepo:   userRepo,
		queue:      queue,
		lookahead:  lookahead,
		now:        time.Now,
	}
}

// SendDueReminders queues a reminder for every unfinished task whose deadline
// entered the lookahead window since the previous sweep. The window slides
// with the sweeps, so each deadline is picked up once.
func (s *ReminderService) SendDueReminders(ctx context.Context) error {
	now := s.now()

	s.mu.Lock()
	from := s.lastSweep
	if from.IsZero() {
		from = now
	}
	s.lastSweep = now
	s.mu.Unlock()

	tasks, err := s.taskRepo.ListDueBetween(ctx, from.Add(s.lookahead), now.Add(s.lookahead))
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	doneID := s.doneStatusID(ctx)

	users := make(map[uint]*model.User)
	for _, task := range tasks {
		if doneID != nil && task.StatusID != nil && *task.StatusID == *doneID {
			continue
		}

		user, ok := users[task.UserID]
		if !ok {
			user, err = s.userRepo.GetByID(ctx, task.UserID)
			if err != nil {
				log.Printf("reminder for task %d: %v", task.ID, err)
				continue
			}
			users[task.UserID] = user
		}

		if s.queue != nil {
			s.queue.TaskReminder(*user, task)
		}
	}
	return nil
}

func (s *ReminderService) doneStatusID(ctx context.Context) *uint {
	statuses, err := s.statusRepo.ListAll(ctx)
	if err != nil {
		return nil
	}
	for _, status := range statuses {
		if strings.EqualFold(status.Name, doneStatusName) {
			id := status.ID
			return &id
		}
	}
	return nil
}
