package service

import (
	"sort"
	"sync"
	"time"
)

type Player struct {
	UserID    int64
	Username  string
	FirstName string
}

// DisplayName возвращает @username или имя
func (p Player) DisplayName() string {
	if p.Username != "" {
		return "@" + p.Username
	}
	return p.FirstName
}

type LeaderboardEntry struct {
	Player
	Answered   int
	Correct    int
	Streak     int
	BestStreak int
	Accuracy   int
	Date       string
}

type LeaderboardService interface {
	Record(player Player, correct bool) LeaderboardEntry
	GetTop(limit int) []LeaderboardEntry
	GetUserPosition(userID int64) (int, *LeaderboardEntry)
}

// MemoryLeaderboardService хранит результаты в памяти, при рестарте они теряются
type MemoryLeaderboardService struct {
	mu      sync.RWMutex
	entries map[int64]*LeaderboardEntry
	now     func() time.Time
}

func NewMemoryLeaderboardService() *MemoryLeaderboardService {
	return &MemoryLeaderboardService{
		entries: make(map[int64]*LeaderboardEntry),
		now:     time.Now,
	}
}

// Record учитывает один ответ игрока и возвращает обновлённую запись
func (ms *MemoryLeaderboardService) Record(player Player, correct bool) LeaderboardEntry {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, exists := ms.entries[player.UserID]
	if !exists {
		entry = &LeaderboardEntry{}
		ms.entries[player.UserID] = entry
	}
	// имя могло поменяться
	entry.Player = player

	entry.Answered++
	if correct {
		entry.Correct++
		entry.Streak++
		if entry.Streak > entry.BestStreak {
			entry.BestStreak = entry.Streak
		}
	} else {
		entry.Streak = 0
	}
	entry.Accuracy = (entry.Correct * 100) / entry.Answered
	entry.Date = ms.now().Format("02.01.2006 15:04")

	return *entry
}

func (ms *MemoryLeaderboardService) GetTop(limit int) []LeaderboardEntry {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	sorted := make([]LeaderboardEntry, 0, len(ms.entries))
	for _, entry := range ms.entries {
		sorted = append(sorted, *entry)
	}

	// Сортируем по лучшей серии, затем по точности и числу верных ответов
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.BestStreak != b.BestStreak {
			return a.BestStreak > b.BestStreak
		}
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		if a.Correct != b.Correct {
			return a.Correct > b.Correct
		}
		return a.UserID < b.UserID
	})

	if limit < 0 || limit > len(sorted) {
		limit = len(sorted)
	}

	return sorted[:limit]
}

func (ms *MemoryLeaderboardService) GetUserPosition(userID int64) (int, *LeaderboardEntry) {
	top := ms.GetTop(-1)
	for i, entry := range top {
		if entry.UserID == userID {
			return i + 1, &entry
		}
	}
	return -1, nil
}
