package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"chat_id", 42, "bot_token", "123:abc", "dangling"})
	want := []interface{}{"chat_id", 42, "bot_token", "[REDACTED]", "dangling"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kv[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNop(t *testing.T) {
	l := Nop().With("session_id", "x")
	l.Info("hello", "token", "secret-value")
	l.Sync()
}
