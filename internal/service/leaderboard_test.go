package service

import (
	"testing"
	"time"
)

func newTestLeaderboard() *MemoryLeaderboardService {
	ms := NewMemoryLeaderboardService()
	ms.now = func() time.Time { return time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC) }
	return ms
}

func TestRecord_TracksStreaks(t *testing.T) {
	ms := newTestLeaderboard()
	p := Player{UserID: 1, Username: "alice"}

	for _, correct := range []bool{true, true, true, false, true} {
		ms.Record(p, correct)
	}

	_, entry := ms.GetUserPosition(1)
	if entry == nil {
		t.Fatal("expected an entry")
	}
	if entry.Answered != 5 || entry.Correct != 4 {
		t.Errorf("answered/correct = %d/%d, want 5/4", entry.Answered, entry.Correct)
	}
	if entry.Streak != 1 || entry.BestStreak != 3 {
		t.Errorf("streak/best = %d/%d, want 1/3", entry.Streak, entry.BestStreak)
	}
	if entry.Accuracy != 80 {
		t.Errorf("accuracy = %d, want 80", entry.Accuracy)
	}
	if entry.Date != "15.10.2026 12:30" {
		t.Errorf("date = %q", entry.Date)
	}
}

func TestGetTop_Ordering(t *testing.T) {
	ms := newTestLeaderboard()
	alice := Player{UserID: 1, Username: "alice"}
	bob := Player{UserID: 2, FirstName: "Bob"}
	carol := Player{UserID: 3, Username: "carol"}

	ms.Record(alice, true)
	ms.Record(alice, true)

	ms.Record(bob, true)
	ms.Record(bob, true)
	ms.Record(bob, false)

	ms.Record(carol, true)

	top := ms.GetTop(10)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	// у alice и bob серия 2, но у alice точность выше
	want := []int64{1, 2, 3}
	for i, id := range want {
		if top[i].UserID != id {
			t.Errorf("position %d: got user %d, want %d", i+1, top[i].UserID, id)
		}
	}

	if len(ms.GetTop(2)) != 2 {
		t.Error("expected limit to be applied")
	}
	if pos, _ := ms.GetUserPosition(3); pos != 3 {
		t.Errorf("carol position = %d, want 3", pos)
	}
	if pos, entry := ms.GetUserPosition(42); pos != -1 || entry != nil {
		t.Error("expected unknown user to be missing")
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Player{Username: "alice", FirstName: "Alice"}).DisplayName(); got != "@alice" {
		t.Errorf("got %q", got)
	}
	if got := (Player{FirstName: "Bob"}).DisplayName(); got != "Bob" {
		t.Errorf("got %q", got)
	}
}
