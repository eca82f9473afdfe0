package service

import (
	"fmt"
	"sync"
	"time"

	"homework_backend/internal/config"
	"homework_backend/internal/util"
)

type scheduleEntry struct {
	name string
	due  time.Time
}

// ScheduleService 根据当前日期从有序排期中选出进行中的作业。
// 配置热更新时整个排期可被替换。
type ScheduleService struct {
	mu      sync.RWMutex
	entries []scheduleEntry
}

func NewScheduleService(cfg *config.HomeworkConfig) (*ScheduleService, error) {
	s := &ScheduleService{}
	if err := s.Reload(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload 解析并替换排期，日期非法时保留旧排期并返回错误
func (s *ScheduleService) Reload(cfg *config.HomeworkConfig) error {
	if len(cfg.Schedule) == 0 {
		return fmt.Errorf("homework schedule is empty")
	}

	entries := make([]scheduleEntry, 0, len(cfg.Schedule))
	for _, e := range cfg.Schedule {
		due, err := time.ParseInLocation(util.DateFormat, e.Due, time.Local)
		if err != nil {
			return fmt.Errorf("homework %q: invalid due date %q: %w", e.Name, e.Due, err)
		}
		entries = append(entries, scheduleEntry{name: e.Name, due: due})
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Current 选出声明顺序中最后一个到期日已到的作业。
// 到期日按整天计算：当天任意时刻都算已到。都没到时退回第一个。
func (s *ScheduleService) Current(now time.Time) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	current := s.entries[0].name
	for _, e := range s.entries {
		if !e.due.After(today) {
			current = e.name
		}
	}
	return current
}

// ScheduleEntryView 排期展示条目
type ScheduleEntryView struct {
	Name    string `json:"name"`
	Due     string `json:"due"`
	Current bool   `json:"current"`
}

// Entries 排期视图，标记当前进行中的作业
func (s *ScheduleService) Entries(now time.Time) []ScheduleEntryView {
	current := s.Current(now)

	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]ScheduleEntryView, len(s.entries))
	for i, e := range s.entries {
		views[i] = ScheduleEntryView{
			Name:    e.name,
			Due:     e.due.Format(util.DateFormat),
			Current: e.name == current,
		}
	}
	return views
}
