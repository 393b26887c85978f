package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/The-Birdheads/life-os/cache"
	"github.com/The-Birdheads/life-os/db"
	"github.com/The-Birdheads/life-os/models"
	"github.com/The-Birdheads/life-os/utils"
	"go.uber.org/zap"
)

// WeekRow is one day of the weekly overview.
type WeekRow struct {
	Day         string `json:"day"`
	HabitDone   int    `json:"habit_done"`
	HabitTotal  int    `json:"habit_total"`
	TaskDone    int    `json:"task_done"`
	ActionDone  int    `json:"action_done"`
	Fulfillment *int   `json:"fulfillment"`
}

type WeekOverview struct {
	StartDay       string    `json:"start_day"`
	EndDay         string    `json:"end_day"`
	Rows           []WeekRow `json:"rows"`
	AvgFulfillment float64   `json:"avg_fulfillment"`
}

// CalculateWeekOverview aggregates the seven days ending at endDay. The
// three range scans (task entries, action entries, daily logs) hit
// disjoint tables, so they run in parallel goroutines and get joined over
// a channel; the first query error wins and the partial result is
// dropped. Results are cached for a short TTL and invalidated on writes.
func CalculateWeekOverview(userID, endDay string, logger *zap.Logger) (*WeekOverview, error) {
	cacheKey := fmt.Sprintf("cache:%s:week:%s", userID, endDay)
	var cached WeekOverview
	if err := cache.Get(cacheKey, &cached); err == nil {
		logger.Info("cache_hit", zap.String("key", cacheKey))
		return &cached, nil
	}

	days := utils.WeekRange(endDay)
	startDay := days[0]

	var tasks []models.Task
	if err := db.DB.Where("user_id = ?", userID).Find(&tasks).Error; err != nil {
		return nil, err
	}

	var (
		taskEntries   []models.TaskEntry
		actionEntries []models.ActionEntry
		dailyLogs     []models.DailyLog
	)

	errChan := make(chan error, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		errChan <- db.DB.Where("user_id = ? AND day >= ? AND day <= ?", userID, startDay, endDay).
			Find(&taskEntries).Error
	}()
	go func() {
		defer wg.Done()
		errChan <- db.DB.Where("user_id = ? AND day >= ? AND day <= ?", userID, startDay, endDay).
			Find(&actionEntries).Error
	}()
	go func() {
		defer wg.Done()
		errChan <- db.DB.Where("user_id = ? AND day >= ? AND day <= ?", userID, startDay, endDay).
			Find(&dailyLogs).Error
	}()

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			logger.Warn("week_query_failed", zap.Error(err))
			return nil, err
		}
	}

	taskByID := make(map[string]models.Task, len(tasks))
	habitTotal := 0
	for _, t := range tasks {
		taskByID[t.ID] = t
		if t.TaskType == models.TaskTypeHabit && t.IsActive {
			habitTotal++
		}
	}

	habitDone := make(map[string]int)
	oneoffDone := make(map[string]int)
	actionCount := make(map[string]int)
	fulfillment := make(map[string]*int)

	for _, e := range taskEntries {
		if e.Status != models.StatusDone {
			continue
		}
		t, ok := taskByID[e.TaskID]
		if !ok {
			continue
		}
		switch t.TaskType {
		case models.TaskTypeHabit:
			habitDone[e.Day]++
		case models.TaskTypeOneoff:
			oneoffDone[e.Day]++
		}
	}
	for _, e := range actionEntries {
		actionCount[e.Day]++
	}
	for _, l := range dailyLogs {
		fulfillment[l.Day] = l.Fulfillment
	}

	overview := &WeekOverview{
		StartDay: startDay,
		EndDay:   endDay,
		Rows:     make([]WeekRow, 0, len(days)),
	}

	sum, n := 0, 0
	for _, d := range days {
		row := WeekRow{
			Day:         d,
			HabitDone:   habitDone[d],
			HabitTotal:  habitTotal,
			TaskDone:    oneoffDone[d],
			ActionDone:  actionCount[d],
			Fulfillment: fulfillment[d],
		}
		if row.Fulfillment != nil {
			sum += *row.Fulfillment
			n++
		}
		overview.Rows = append(overview.Rows, row)
	}
	if n > 0 {
		overview.AvgFulfillment = float64(sum) / float64(n)
	}

	cache.Set(cacheKey, overview, 5*time.Minute)

	logger.Info("week_overview_calculated",
		zap.String("user_id", userID),
		zap.String("end_day", endDay),
		zap.Int("rated_days", n),
	)

	return overview, nil
}
