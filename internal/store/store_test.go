package store

import (
	"testing"
	"time"

	"github.com/sadopc/tomato/internal/history"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(phase string, start time.Time, secs int) history.Record {
	return history.Record{
		Phase:           phase,
		DurationSeconds: secs,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(secs) * time.Second),
		PresetID:        "25_5",
		Completed:       true,
	}
}

func sameRecord(a, b history.Record) bool {
	return a.Phase == b.Phase && a.IsLongBreak == b.IsLongBreak &&
		a.DurationSeconds == b.DurationSeconds && a.PresetID == b.PresetID &&
		a.Completed == b.Completed && a.StartTime.Equal(b.StartTime) && a.EndTime.Equal(b.EndTime)
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/tomato.db"

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting(KeyTheme, "dark"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen; data must survive without re-seeding.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, _ := s2.GetSetting(KeyTheme)
	if v != "dark" {
		t.Fatalf("theme = %q after reopen, want dark", v)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		KeyPresetID:          "25_5",
		KeyTheme:             "system",
		KeySoundType:         "beep",
		KeySoundVolume:       "50",
		KeyLongBreakInterval: "4",
		KeyLongBreakMinutes:  "15",
		KeyWorkCompleted:     "0",
		KeyBreakCompleted:    "0",
		KeyConsecutiveWork:   "0",
	}
	for k, want := range defaults {
		got, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
		if got != want {
			t.Fatalf("setting %s = %q, want %q", k, got, want)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting(KeyTheme, "light")
	s.SetSetting(KeyTheme, "dark")

	v, _ := s.GetSetting(KeyTheme)
	if v != "dark" {
		t.Fatalf("expected dark, got %s", v)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nonexistent"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetIntFallback(t *testing.T) {
	s := newTestStore(t)
	if got := s.GetInt(KeyLongBreakInterval, 9); got != 4 {
		t.Fatalf("GetInt = %d, want 4", got)
	}
	if got := s.GetInt("missing", 9); got != 9 {
		t.Fatalf("missing key: GetInt = %d, want 9", got)
	}
	s.SetSetting(KeySoundVolume, "loud")
	if got := s.GetInt(KeySoundVolume, 50); got != 50 {
		t.Fatalf("non-numeric: GetInt = %d, want 50", got)
	}
	s.SetInt(KeySoundVolume, 80)
	if got := s.GetInt(KeySoundVolume, 50); got != 80 {
		t.Fatalf("GetInt after SetInt = %d, want 80", got)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 9 {
		t.Fatalf("expected 9 default settings, got %d", len(settings))
	}
	for i := 1; i < len(settings); i++ {
		if settings[i].Key < settings[i-1].Key {
			t.Fatal("settings should be sorted by key")
		}
	}
}

func TestSaveStats(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveStats(12, 11, 3); err != nil {
		t.Fatal(err)
	}
	if s.GetInt(KeyWorkCompleted, 0) != 12 || s.GetInt(KeyBreakCompleted, 0) != 11 || s.GetInt(KeyConsecutiveWork, 0) != 3 {
		t.Fatal("stats not saved")
	}
}

// ============================================================
// Sessions
// ============================================================

func TestAppendAndListSessions(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	work := sampleRecord(history.PhaseWork, start, 1500)
	brk := sampleRecord(history.PhaseBreak, start.Add(25*time.Minute), 900)
	brk.IsLongBreak = true

	if err := s.AppendSession(work); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendSession(brk); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
	if !sameRecord(got[0], work) {
		t.Fatalf("first session = %+v, want %+v", got[0], work)
	}
	if !sameRecord(got[1], brk) {
		t.Fatalf("second session = %+v, want %+v", got[1], brk)
	}
}

func TestAppendSessionStoresUTC(t *testing.T) {
	s := newTestStore(t)
	loc := time.FixedZone("UTC+2", 2*3600)
	start := time.Date(2026, 3, 2, 11, 0, 0, 0, loc)
	s.AppendSession(sampleRecord(history.PhaseWork, start, 60))

	got, _ := s.ListSessions()
	if !got[0].StartTime.Equal(start) {
		t.Fatalf("start = %v, want %v", got[0].StartTime, start)
	}
}

func TestAppendSessionRejectsUnknownPhase(t *testing.T) {
	s := newTestStore(t)
	bad := sampleRecord("nap", time.Now().UTC(), 60)
	if err := s.AppendSession(bad); err == nil {
		t.Fatal("expected error for unknown phase")
	}
	if n, _ := s.CountSessions(); n != 0 {
		t.Fatalf("expected rollback, got %d rows", n)
	}
}

func TestAppendSessionCapsHistory(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= history.DefaultLimit+5; i++ {
		if err := s.AppendSession(sampleRecord(history.PhaseWork, start.Add(time.Duration(i)*time.Minute), i)); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.CountSessions()
	if err != nil {
		t.Fatal(err)
	}
	if n != history.DefaultLimit {
		t.Fatalf("expected %d sessions, got %d", history.DefaultLimit, n)
	}
	got, _ := s.ListSessions()
	if got[0].DurationSeconds != 6 {
		t.Fatalf("oldest kept session should be #6, got #%d", got[0].DurationSeconds)
	}
}

func TestReplaceSessions(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s.AppendSession(sampleRecord(history.PhaseWork, start, 1500))

	var next []history.Record
	for i := 1; i <= history.DefaultLimit+2; i++ {
		next = append(next, sampleRecord(history.PhaseBreak, start, i))
	}
	if err := s.ReplaceSessions(next); err != nil {
		t.Fatal(err)
	}

	got, _ := s.ListSessions()
	if len(got) != history.DefaultLimit {
		t.Fatalf("expected %d sessions, got %d", history.DefaultLimit, len(got))
	}
	if got[0].Phase != history.PhaseBreak || got[0].DurationSeconds != 3 {
		t.Fatalf("unexpected first session %+v", got[0])
	}
}

func TestListSessionsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no sessions, got %d", len(got))
	}
}

func TestFindSessionsFilter(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i, phase := range []string{history.PhaseWork, history.PhaseBreak, history.PhaseWork, history.PhaseWork} {
		if err := s.AppendSession(sampleRecord(phase, base.AddDate(0, 0, i), 60)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.FindSessions(SessionFilter{Phase: history.PhaseWork})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 work sessions, got %d", len(got))
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 3)
	got, err = s.FindSessions(SessionFilter{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions in range, got %d", len(got))
	}
	if !got[0].StartTime.Equal(from) {
		t.Fatalf("range should include From, got %v", got[0].StartTime)
	}

	// Bounds in another zone are compared in UTC.
	local := from.In(time.FixedZone("UTC+5", 5*3600))
	got, err = s.FindSessions(SessionFilter{From: &local, Phase: history.PhaseWork})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 work sessions from day 1, got %d", len(got))
	}
}

func TestSessionsKeepSubSecondTimes(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	whole := sampleRecord(history.PhaseWork, start, 1500)
	frac := sampleRecord(history.PhaseBreak, start.Add(500*time.Millisecond), 300)
	frac.EndTime = frac.StartTime.Add(300*time.Second + 123456789*time.Nanosecond)
	for _, r := range []history.Record{whole, frac} {
		if err := s.AppendSession(r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !sameRecord(got[0], whole) || !sameRecord(got[1], frac) {
		t.Fatalf("sessions = %+v", got)
	}

	// A half-second bound must exclude the whole-second record.
	from := start.Add(250 * time.Millisecond)
	got, err = s.FindSessions(SessionFilter{From: &from})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Phase != history.PhaseBreak {
		t.Fatalf("expected only the later session, got %+v", got)
	}
}

// ============================================================
// Bundle
// ============================================================

func TestLoadBundleDefaults(t *testing.T) {
	s := newTestStore(t)
	b, err := s.LoadBundle()
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultBundle()
	if b.PresetID != want.PresetID || b.Theme != want.Theme || b.Sound != want.Sound ||
		b.CustomPreset != nil || b.LongBreak != want.LongBreak {
		t.Fatalf("bundle = %+v, want defaults %+v", b, want)
	}
	if len(b.History) != 0 {
		t.Fatal("expected empty history")
	}
}

func TestLoadBundleIgnoresMalformedValues(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting(KeyLongBreakInterval, "many")
	s.SetSetting(KeyPresetID, "")

	b, err := s.LoadBundle()
	if err != nil {
		t.Fatal(err)
	}
	if b.LongBreak.Interval != 4 {
		t.Fatalf("interval = %d, want default 4", b.LongBreak.Interval)
	}
	if b.PresetID != "25_5" {
		t.Fatalf("preset = %q, want default", b.PresetID)
	}
}

func TestSaveAndLoadBundle(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	in := Bundle{
		PresetID:                "custom",
		WorkCompleted:           9,
		BreakCompleted:          8,
		ConsecutiveWorkSessions: 1,
		Theme:                   "dark",
		CustomPreset:            &CustomPreset{WorkMin: 40, BreakMin: 10},
		Sound:                   Sound{Type: "gentle", Volume: 70},
		LongBreak:               LongBreak{Interval: 3, DurationMin: 20},
		History: []history.Record{
			sampleRecord(history.PhaseWork, start, 2400),
			sampleRecord(history.PhaseBreak, start.Add(40*time.Minute), 600),
		},
	}
	if err := s.SaveBundle(in); err != nil {
		t.Fatal(err)
	}

	out, err := s.LoadBundle()
	if err != nil {
		t.Fatal(err)
	}
	if out.PresetID != in.PresetID || out.Theme != in.Theme || out.Sound != in.Sound ||
		out.CustomPreset == nil || *out.CustomPreset != *in.CustomPreset || out.LongBreak != in.LongBreak ||
		out.WorkCompleted != 9 || out.BreakCompleted != 8 || out.ConsecutiveWorkSessions != 1 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if len(out.History) != 2 || !sameRecord(out.History[0], in.History[0]) || !sameRecord(out.History[1], in.History[1]) {
		t.Fatalf("history mismatch: %+v", out.History)
	}
}

func TestSaveBundleClearsCustomPreset(t *testing.T) {
	s := newTestStore(t)
	b := DefaultBundle()
	b.CustomPreset = &CustomPreset{WorkMin: 30, BreakMin: 7}
	if err := s.SaveBundle(b); err != nil {
		t.Fatal(err)
	}
	if got := s.GetInt(KeyCustomWorkMin, 0); got != 30 {
		t.Fatalf("custom_work_min = %d", got)
	}

	b.CustomPreset = nil
	if err := s.SaveBundle(b); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadBundle()
	if err != nil {
		t.Fatal(err)
	}
	if out.CustomPreset != nil {
		t.Fatalf("custom preset should be unset, got %+v", *out.CustomPreset)
	}
}

func TestLoadBundleNeedsBothCustomMinutes(t *testing.T) {
	s := newTestStore(t)
	s.SetInt(KeyCustomWorkMin, 30)

	b, err := s.LoadBundle()
	if err != nil {
		t.Fatal(err)
	}
	if b.CustomPreset != nil {
		t.Fatalf("half-saved custom preset should be ignored, got %+v", *b.CustomPreset)
	}
}

func TestCloseStore(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := s.LoadBundle(); err == nil {
		t.Fatal("expected error loading from closed store")
	}
}
