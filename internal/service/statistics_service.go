package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"focus-planner/internal/model"
	"focus-planner/internal/notify"
	"focus-planner/internal/repository"
)

// Status name that marks a task as completed, compared case-insensitively.
const doneStatusName = "done"

// Bucket key for tasks without a category.
const uncategorizedKey = "uncategorized"

// KeywordClassifier splits categories into rest and work buckets by
// case-insensitive substring match on the category name. Rest is checked
// before work; the first matching list wins.
type KeywordClassifier struct {
	RestWords []string
	WorkWords []string
}

// DefaultClassifier returns the stock multilingual word lists.
func DefaultClassifier() KeywordClassifier {
	return KeywordClassifier{
		RestWords: []string{
			"відпочинок", "релакс", "хобі", "спорт", "дозвілля", "перерва",
			"отдых", "relax", "hobby", "break", "gym", "спортзал",
		},
		WorkWords: []string{
			"робота", "проєкт", "проект", "навчання", "учеба",
			"study", "курс", "work", "project", "office", "навч", "task",
		},
	}
}

func (c KeywordClassifier) isRest(name string) bool { return matchesAny(name, c.RestWords) }
func (c KeywordClassifier) isWork(name string) bool { return matchesAny(name, c.WorkWords) }

func matchesAny(name string, words []string) bool {
	for _, word := range words {
		if strings.Contains(name, word) {
			return true
		}
	}
	return false
}

// Analysis is the ephemeral part of a statistics result; it is returned to
// the caller but never persisted.
type Analysis struct {
	Progress        *int           `json:"progress"`
	MaxCategory     *string        `json:"max_category"`
	MinCategory     *string        `json:"min_category"`
	DetailedAdvice  string         `json:"detailed_advice"`
	TasksByCategory map[string]int `json:"tasks_by_category"`
	WorkTasks       int            `json:"work_tasks"`
	RestTasks       int            `json:"rest_tasks"`
}

// StatisticsResult pairs the snapshot with its ephemeral analysis.
type StatisticsResult struct {
	Snapshot model.Statistics `json:"stats"`
	Analysis Analysis         `json:"analysis"`
}

// StatisticsService recomputes productivity metrics and recommendation text
// from a user's task history.
type StatisticsService struct {
	taskRepo     *repository.TaskRepository
	statusRepo   *repository.StatusRepository
	categoryRepo *repository.CategoryRepository
	statsRepo    *repository.StatisticsRepository
	userRepo     *repository.UserRepository
	queue        *notify.Queue
	classifier   KeywordClassifier
}

func NewStatisticsService(
	taskRepo *repository.TaskRepository,
	statusRepo *repository.StatusRepository,
	categoryRepo *repository.CategoryRepository,
	statsRepo *repository.StatisticsRepository,
	userRepo *repository.UserRepository,
	queue *notify.Queue,
	classifier KeywordClassifier,
) *StatisticsService {
	return &StatisticsService{
		taskRepo:     taskRepo,
		statusRepo:   statusRepo,
		categoryRepo: categoryRepo,
		statsRepo:    statsRepo,
		userRepo:     userRepo,
		queue:        queue,
		classifier:   classifier,
	}
}

// Calculate derives metrics for the user without persisting anything.
// Only the progress field depends on previously stored snapshots.
func (s *StatisticsService) Calculate(ctx context.Context, userID uint, period string) (*StatisticsResult, error) {
	if period == "" {
		period = "current"
	}

	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	statuses, err := s.statusRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var doneStatusID *uint
	for _, status := range statuses {
		if strings.EqualFold(status.Name, doneStatusName) {
			id := status.ID
			doneStatusID = &id
			break
		}
	}

	var tracked []model.Task
	for _, task := range tasks {
		if task.StatusID != nil {
			tracked = append(tracked, task)
		}
	}

	completed := 0
	if doneStatusID != nil {
		for _, task := range tracked {
			if *task.StatusID == *doneStatusID {
				completed++
			}
		}
	}

	completedPercent := 0
	if len(tracked) > 0 {
		completedPercent = int(math.Round(float64(completed) / float64(len(tracked)) * 100))
	}
	overloadDays := len(tracked) / 5

	counts := s.countByCategory(ctx, userID, tasks)

	balance := categoryBalance(counts)
	workTasks, restTasks := s.classifyCounts(counts)
	maxCategory, minCategory := extremeCategories(counts)

	var progress *int
	previous, err := s.statsRepo.LatestByUser(ctx, userID)
	switch {
	case err == nil:
		delta := completedPercent - previous.CompletedPercent
		progress = &delta
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first snapshot, no progress to report
	default:
		return nil, err
	}

	snapshot := model.Statistics{
		UserID:          userID,
		Period:          period,
		CategoryBalance: balance,
	}
	analysis := Analysis{
		MaxCategory:     maxCategory,
		MinCategory:     minCategory,
		TasksByCategory: counts,
		WorkTasks:       workTasks,
		RestTasks:       restTasks,
	}

	// Without a single tracked status there is no productivity to analyse:
	// zeroed snapshot except the balance, no progress.
	if len(tracked) == 0 {
		snapshot.RecommendationText = "No task has a status set yet. Mark progress so the system can show real productivity."

		switch {
		case workTasks > 0 && restTasks == 0:
			analysis.DetailedAdvice = "All tasks are work or study. Add at least something for rest: sport, a hobby or breaks."
		case restTasks > 0 && workTasks == 0:
			analysis.DetailedAdvice = "The plan currently holds only personal tasks. If there are important work or study tasks, add them too."
		default:
			analysis.DetailedAdvice = "Add a few tasks with a status so the system can measure productivity."
		}

		return &StatisticsResult{Snapshot: snapshot, Analysis: analysis}, nil
	}

	snapshot.CompletedPercent = completedPercent
	snapshot.OverloadDays = overloadDays
	snapshot.RecommendationText = recommendation(completedPercent, overloadDays, balance, workTasks, restTasks)
	analysis.Progress = progress
	analysis.DetailedAdvice = detailedAdvice(progress, maxCategory, minCategory)

	return &StatisticsResult{Snapshot: snapshot, Analysis: analysis}, nil
}

// Recalculate derives metrics and persists them as the user's latest
// snapshot: the most recent row is updated in place when one exists,
// otherwise a new one is inserted.
func (s *StatisticsService) Recalculate(ctx context.Context, userID uint, period string) (*StatisticsResult, error) {
	result, err := s.Calculate(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	existing, err := s.statsRepo.LatestByUser(ctx, userID)
	switch {
	case err == nil:
		existing.Period = result.Snapshot.Period
		existing.CompletedPercent = result.Snapshot.CompletedPercent
		existing.OverloadDays = result.Snapshot.OverloadDays
		existing.CategoryBalance = result.Snapshot.CategoryBalance
		existing.RecommendationText = result.Snapshot.RecommendationText
		if err := s.statsRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		result.Snapshot = *existing
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.statsRepo.Create(ctx, &result.Snapshot); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if s.queue != nil && result.Snapshot.OverloadDays > 2 {
		if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
			s.queue.OverloadWarning(*user, result.Snapshot.OverloadDays)
		}
	}

	return result, nil
}

// SendDailySummaries recomputes every user's snapshot and queues a summary
// push. Per-user failures are logged and skipped.
func (s *StatisticsService) SendDailySummaries(ctx context.Context) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, user := range users {
		result, err := s.Recalculate(ctx, user.ID, "current")
		if errors.Is(err, ErrNoTasks) {
			continue
		}
		if err != nil {
			log.Printf("daily summary for user %d: %v", user.ID, err)
			continue
		}
		if s.queue != nil {
			s.queue.DailySummary(user, result.Snapshot)
		}
	}
	return nil
}

// countByCategory buckets every task of the user by category name; tasks
// without a category land in the uncategorized bucket. Same-named categories
// get an id suffix so each keeps its own bucket, and a dangling category
// reference keeps its own bucket so the counts stay honest.
func (s *StatisticsService) countByCategory(ctx context.Context, userID uint, tasks []model.Task) map[string]int {
	nameByID := make(map[uint]string)
	if categories, err := s.categoryRepo.ListByUser(ctx, userID); err == nil {
		nameCount := make(map[string]int)
		for _, category := range categories {
			nameCount[category.Name]++
		}
		for _, category := range categories {
			if nameCount[category.Name] > 1 {
				nameByID[category.ID] = fmt.Sprintf("%s (#%d)", category.Name, category.ID)
			} else {
				nameByID[category.ID] = category.Name
			}
		}
	}

	counts := make(map[string]int)
	for _, task := range tasks {
		key := uncategorizedKey
		if task.CategoryID != nil {
			if name, ok := nameByID[*task.CategoryID]; ok {
				key = name
			} else {
				key = fmt.Sprintf("#%d", *task.CategoryID)
			}
		}
		counts[key]++
	}
	return counts
}

// categoryBalance is max(0, 1 - stddev/mean) of the bucket sizes when at
// least two buckets exist, else 1.
func categoryBalance(counts map[string]int) float64 {
	if len(counts) < 2 {
		return 1
	}

	var sum float64
	for _, count := range counts {
		sum += float64(count)
	}
	mean := sum / float64(len(counts))

	var variance float64
	for _, count := range counts {
		diff := float64(count) - mean
		variance += diff * diff
	}
	deviation := math.Sqrt(variance / float64(len(counts)))

	return math.Max(0, 1-deviation/mean)
}

// classifyCounts accumulates work/rest task totals from category buckets.
// The uncategorized bucket and unnamed buckets never match a word list.
func (s *StatisticsService) classifyCounts(counts map[string]int) (workTasks, restTasks int) {
	for name, count := range counts {
		if name == uncategorizedKey {
			continue
		}
		lower := strings.ToLower(name)
		switch {
		case s.classifier.isRest(lower):
			restTasks += count
		case s.classifier.isWork(lower):
			workTasks += count
		}
	}
	return workTasks, restTasks
}

// extremeCategories finds the buckets with the most and the fewest tasks.
// When every bucket ties, both are nil. Names are scanned in sorted order so
// results are stable across runs.
func extremeCategories(counts map[string]int) (maxCategory, minCategory *string) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	maxName, minName := names[0], names[0]
	maxVal, minVal := counts[maxName], counts[minName]
	for _, name := range names[1:] {
		if counts[name] > maxVal {
			maxVal = counts[name]
			maxName = name
		}
		if counts[name] < minVal {
			minVal = counts[name]
			minName = name
		}
	}

	allEqual := true
	for _, name := range names {
		if counts[name] != maxVal {
			allEqual = false
			break
		}
	}
	if allEqual {
		return nil, nil
	}
	return &maxName, &minName
}

// recommendation walks a fixed decision ladder top to bottom, first match
// wins, then appends a work/rest ratio remark when the plan is lopsided.
func recommendation(completedPercent, overloadDays int, balance float64, workTasks, restTasks int) string {
	var text string
	switch {
	case completedPercent >= 75 && overloadDays <= 2 && balance >= 0.8:
		text = "Everything looks balanced: tasks get done and there is no overload."
	case completedPercent >= 60 && overloadDays > 2:
		text = "You are doing well, but sometimes take on too much. Try to spread the load more evenly."
	case completedPercent < 60:
		text = "Productivity is low so far. Start the day with the most important tasks."
	case balance < 0.6:
		text = "Planning is skewed: tasks are concentrated in one category."
	default:
		text = "Balance maintained."
	}

	if workTasks > 0 && restTasks == 0 {
		text += " Add at least a few tasks for rest."
	} else if restTasks > workTasks*2 {
		text += " Too much rest planned: if there are important tasks, schedule them too."
	}

	return text
}

func detailedAdvice(progress *int, maxCategory, minCategory *string) string {
	var advice string
	if progress != nil {
		if *progress > 0 {
			advice += fmt.Sprintf("Productivity went up by %d%%. ", *progress)
		}
		if *progress < 0 {
			advice += fmt.Sprintf("Productivity dropped by %d%%. ", -*progress)
		}
	}

	if maxCategory != nil && minCategory != nil {
		advice += fmt.Sprintf("Most tasks are in category %s, fewest in %s.", *maxCategory, *minCategory)
	} else {
		advice += "Every category holds the same number of tasks."
	}
	return advice
}
