package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

const monthlyReportMonths = 6

// ReportService computes aggregate task statistics. All aggregation happens
// in memory over the caller's role-scoped task set, so every report obeys
// the same visibility rules as task listings.
type ReportService struct {
	taskRepo ports.TaskRepository
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(taskRepo ports.TaskRepository, userRepo ports.UserRepository, logger *logger.Logger) *ReportService {
	return &ReportService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Stats returns the actor's dashboard aggregate.
func (s *ReportService) Stats(ctx context.Context, actor ports.Actor) (*ports.TaskStats, error) {
	tasks, err := s.taskRepo.List(ctx, ports.TaskScope(actor.ID, actor.Role))
	if err != nil {
		return nil, err
	}

	// Month membership is decided in UTC so that timestamps stored in other
	// locations land in the same bucket regardless of the server's zone.
	now := time.Now().UTC()
	stats := &ports.TaskStats{TotalTasks: len(tasks)}

	var completed []*entities.Task
	for _, t := range tasks {
		switch t.Status {
		case entities.TaskStatusCompleted:
			stats.CompletedTasks++
			completed = append(completed, t)
		case entities.TaskStatusPending, entities.TaskStatusInProgress:
			stats.PendingTasks++
		}
		created := t.CreatedAt.UTC()
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.TasksThisMonth++
		}
	}

	stats.CompletionRate = CompletionRate(len(tasks), stats.CompletedTasks)
	stats.AvgCompletionTime = AvgCompletionDays(completed)
	stats.CompletedOnTime = OnTimeRate(completed)
	stats.OverallEfficiency = OverallEfficiency(stats.CompletionRate, stats.CompletedOnTime)

	return stats, nil
}

// WorkerReports returns per-worker performance rows for the acting leader,
// covering only tasks that leader assigned. Sorted by completion rate,
// best first.
func (s *ReportService) WorkerReports(ctx context.Context, actor ports.Actor) ([]*ports.WorkerReport, error) {
	if !actor.IsLeader() {
		return nil, entities.ErrForbidden
	}

	workers, err := s.userRepo.ListByRole(ctx, entities.UserRoleWorker)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, ports.TaskScope(actor.ID, actor.Role))
	if err != nil {
		return nil, err
	}

	byWorker := make(map[uuid.UUID][]*entities.Task)
	for _, t := range tasks {
		byWorker[t.WorkerID] = append(byWorker[t.WorkerID], t)
	}

	reports := make([]*ports.WorkerReport, 0, len(workers))
	for _, w := range workers {
		workerTasks := byWorker[w.ID]

		var completed []*entities.Task
		for _, t := range workerTasks {
			if t.Status == entities.TaskStatusCompleted {
				completed = append(completed, t)
			}
		}

		reports = append(reports, &ports.WorkerReport{
			ID:                w.ID,
			Name:              w.Name,
			Email:             w.Email,
			TotalTasks:        len(workerTasks),
			CompletedTasks:    len(completed),
			CompletionRate:    CompletionRate(len(workerTasks), len(completed)),
			OnTimeRate:        OnTimeRate(completed),
			AvgCompletionTime: AvgCompletionDays(completed),
		})
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CompletionRate > reports[j].CompletionRate
	})

	return reports, nil
}

// MonthlyReport returns created/completed counts per calendar month for the
// trailing six months, oldest month first.
func (s *ReportService) MonthlyReport(ctx context.Context, actor ports.Actor) ([]ports.MonthlyBucket, error) {
	tasks, err := s.taskRepo.List(ctx, ports.TaskScope(actor.ID, actor.Role))
	if err != nil {
		return nil, err
	}

	// Buckets and task timestamps use the same location, otherwise a task
	// created near a month boundary can fall between two keys.
	now := time.Now().UTC()
	buckets := make([]ports.MonthlyBucket, monthlyReportMonths)
	index := make(map[string]int, monthlyReportMonths)

	for i := 0; i < monthlyReportMonths; i++ {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, i-(monthlyReportMonths-1), 0)
		key := m.Format("2006-01")
		buckets[i] = ports.MonthlyBucket{Month: m.Format("Jan")}
		index[key] = i
	}

	for _, t := range tasks {
		if i, ok := index[t.CreatedAt.UTC().Format("2006-01")]; ok {
			buckets[i].Created++
		}
		if t.Status == entities.TaskStatusCompleted {
			if i, ok := index[t.UpdatedAt.UTC().Format("2006-01")]; ok {
				buckets[i].Completed++
			}
		}
	}

	return buckets, nil
}

// CompletionRate returns completed/total as a whole percentage. An empty
// task set yields zero.
func CompletionRate(total, completed int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// AvgCompletionDays returns the mean of each completed task's whole-day
// completion time, rounded to the nearest day.
func AvgCompletionDays(completed []*entities.Task) int {
	if len(completed) == 0 {
		return 0
	}

	var sum int
	for _, t := range completed {
		sum += t.CompletionDays()
	}

	return int(math.Round(float64(sum) / float64(len(completed))))
}

// OnTimeRate returns the share of completed tasks finished at or before
// their deadline, as a whole percentage.
func OnTimeRate(completed []*entities.Task) int {
	if len(completed) == 0 {
		return 0
	}

	var onTime int
	for _, t := range completed {
		if t.CompletedOnTime() {
			onTime++
		}
	}

	return int(math.Round(float64(onTime) / float64(len(completed)) * 100))
}

// OverallEfficiency is the mean of the completion rate and the on-time rate.
func OverallEfficiency(completionRate, onTimeRate int) int {
	return int(math.Round(float64(completionRate+onTimeRate) / 2))
}
