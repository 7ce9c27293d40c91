package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/memorygame/game/clock"
	"github.com/wricardo/mcp-training/memorygame/game/engine"
	"github.com/wricardo/mcp-training/memorygame/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	clock    *clock.Manual
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
		clock:    clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, service.ErrSessionAlreadyExists
	}

	eng, err := engine.NewSeededEngine(config, uint64(len(m.sessions)+1))
	if err != nil {
		return nil, err
	}

	session := service.NewSession(id, eng, config, m.clock)
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	session, exists := m.sessions[id]
	if !exists {
		return service.ErrSessionNotFound
	}
	session.Close()
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.Touch(m.clock.Now())
		return nil
	}
	return service.ErrSessionNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func createTestConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:           "test",
		Description:    "Test configuration",
		Palette:        []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"},
		DealDelayMs:    100,
		ResolveDelayMs: 50,
		Messages: engine.Messages{
			Menu:    "Pick one",
			Loading: "Dealing...",
			Playing: "Matches: %d Clicks: %d",
			Victory: "Won in %d clicks",
		},
	}
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{"test": createTestConfig()},
		saved:   make(map[string]*engine.GameConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", service.ErrConfigNotFound, name)
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := []*service.ConfigInfo{}
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			PaletteSize: len(config.Palette),
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["test"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.saved[name] = config
	return nil
}

// recordingNotifier collects every event it receives
type recordingNotifier struct {
	mu     sync.Mutex
	events []service.GameEvent
}

func (r *recordingNotifier) Notify(event service.GameEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingNotifier) types() []engine.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]engine.EventType, 0, len(r.events))
	for _, e := range r.events {
		result = append(result, e.Type)
	}
	return result
}

type fixture struct {
	ctx      context.Context
	sessions *MockSessionManager
	configs  *MockConfigManager
	svc      service.GameService
	events   *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		sessions: NewMockSessionManager(),
		configs:  NewMockConfigManager(),
		events:   &recordingNotifier{},
	}
	f.svc = service.NewGameService(f.sessions, f.configs, service.WithNotifier(f.events))
	return f
}

// playing creates a session and deals a deck of the given difficulty
func (f *fixture) playing(t *testing.T, difficulty string) string {
	t.Helper()
	info, err := f.svc.CreateSession(f.ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if _, err := f.svc.SelectDifficulty(f.ctx, info.ID, difficulty); err != nil {
		t.Fatalf("Failed to select difficulty: %v", err)
	}
	f.sessions.clock.Advance(100 * time.Millisecond)
	return info.ID
}

func (f *fixture) deck(t *testing.T, id string) []string {
	t.Helper()
	sess, err := f.sessions.Get(id)
	if err != nil {
		t.Fatalf("Session %s missing: %v", id, err)
	}
	return sess.State().Deck
}

func TestGameService_CreateSession(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		configName string
		wantErr    error
	}{
		{"default config", "", nil},
		{"named config", "test", nil},
		{"unknown config", "nonexistent", service.ErrConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := f.svc.CreateSession(f.ctx, tt.configName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				if !strings.Contains(err.Error(), "test") {
					t.Errorf("Expected error to list available configs, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() error = %v", err)
			}
			if info.ConfigName != "test" {
				t.Errorf("Expected config id 'test', got %q", info.ConfigName)
			}
			if info.GameState.Phase != engine.PhaseMenu {
				t.Errorf("Expected new session on the menu, got %s", info.GameState.Phase)
			}
			if info.GameState.Message != "Pick one" {
				t.Errorf("Expected menu prompt, got %q", info.GameState.Message)
			}
		})
	}
}

func TestGameService_OpenSession(t *testing.T) {
	f := newFixture(t)

	info, err := f.svc.OpenSession(f.ctx, "table-7", "test")
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if info.ID != "table-7" || info.ConfigName != "test" {
		t.Errorf("Expected new session table-7 on config test, got %+v", info)
	}
	if _, err := f.svc.SelectDifficulty(f.ctx, "table-7", "easy"); err != nil {
		t.Fatalf("SelectDifficulty() error = %v", err)
	}

	// Reopening resumes the same game and ignores the config name
	again, err := f.svc.OpenSession(f.ctx, "table-7", "nonexistent")
	if err != nil {
		t.Fatalf("OpenSession() on existing session error = %v", err)
	}
	if again.GameState.Difficulty != engine.Easy {
		t.Errorf("Expected the resumed session to keep its easy deal, got %+v", again.GameState)
	}
	if len(f.sessions.sessions) != 1 {
		t.Errorf("Expected one session, got %d", len(f.sessions.sessions))
	}

	if _, err := f.svc.OpenSession(f.ctx, "table-8", "nonexistent"); !errors.Is(err, service.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound for a new session on an unknown config, got %v", err)
	}

	generated, err := f.svc.OpenSession(f.ctx, "", "")
	if err != nil || generated.ID == "" {
		t.Errorf("Expected an empty ID to create a fresh session, got %+v, %v", generated, err)
	}
}

func TestGameService_SelectDifficulty(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, "")

	result, err := f.svc.SelectDifficulty(f.ctx, info.ID, "Medium")
	if err != nil {
		t.Fatalf("SelectDifficulty() error = %v", err)
	}
	if !result.Accepted || result.Event != engine.EventDifficultySelected {
		t.Errorf("Expected accepted difficulty selection, got %+v", result)
	}
	if !result.GameState.Loading || len(result.GameState.Cards) != 16 {
		t.Errorf("Expected 16 loading cards, got loading=%v cards=%d", result.GameState.Loading, len(result.GameState.Cards))
	}

	f.sessions.clock.Advance(99 * time.Millisecond)
	state, _ := f.svc.GetGameState(f.ctx, info.ID)
	if !state.Loading {
		t.Error("Expected still loading before the deal delay elapsed")
	}
	f.sessions.clock.Advance(time.Millisecond)
	state, _ = f.svc.GetGameState(f.ctx, info.ID)
	if state.Loading || state.Phase != engine.PhasePlaying {
		t.Errorf("Expected playing after the deal delay, got %+v", state)
	}

	if _, err := f.svc.SelectDifficulty(f.ctx, info.ID, "expert"); !errors.Is(err, service.ErrInvalidDifficulty) {
		t.Errorf("Expected ErrInvalidDifficulty, got %v", err)
	}
	if _, err := f.svc.SelectDifficulty(f.ctx, "missing", "easy"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_SelectCard(t *testing.T) {
	f := newFixture(t)
	id := f.playing(t, "easy")
	deck := f.deck(t, id)
	twin := engine.FindTwin(deck, 0)

	first, err := f.svc.SelectCard(f.ctx, id, 0)
	if err != nil {
		t.Fatalf("SelectCard() error = %v", err)
	}
	if !first.Accepted || first.Event != engine.EventFlipped {
		t.Fatalf("Expected first flip accepted, got %+v", first)
	}
	if first.Flip == nil || first.Flip.Index != 0 || first.Flip.Icon != deck[0] {
		t.Errorf("Expected flip record for card 0, got %+v", first.Flip)
	}

	again, _ := f.svc.SelectCard(f.ctx, id, 0)
	if again.Accepted {
		t.Error("Expected flipping a selected card to be ignored")
	}

	outOfRange, err := f.svc.SelectCard(f.ctx, id, 99)
	if err != nil || outOfRange.Accepted {
		t.Errorf("Expected out-of-range flip ignored without error, got %+v, %v", outOfRange, err)
	}

	second, _ := f.svc.SelectCard(f.ctx, id, twin)
	if second.Event != engine.EventMatched || !second.GameState.Locked {
		t.Fatalf("Expected locked match, got %+v", second)
	}

	third, _ := f.svc.SelectCard(f.ctx, id, firstHidden(deck, 0, twin))
	if third.Accepted {
		t.Error("Expected flip during the resolve delay to be ignored")
	}

	f.sessions.clock.Advance(50 * time.Millisecond)
	state, _ := f.svc.GetGameState(f.ctx, id)
	if state.Locked || len(state.Selected) != 0 {
		t.Errorf("Expected unlocked empty selection after resolve, got %+v", state)
	}
	if state.MatchedPairs != 1 || state.Clicks != 2 {
		t.Errorf("Expected 1 pair in 2 clicks, got %d/%d", state.MatchedPairs, state.Clicks)
	}
}

func TestGameService_EasyScenario(t *testing.T) {
	f := newFixture(t)
	id := f.playing(t, "easy")
	deck := f.deck(t, id)

	// Find two cards that differ to force a mismatch
	a, b := 0, 1
	for deck[a] == deck[b] {
		b++
	}

	f.svc.SelectCard(f.ctx, id, a)
	mismatch, _ := f.svc.SelectCard(f.ctx, id, b)
	if mismatch.Event != engine.EventMismatched {
		t.Fatalf("Expected mismatch, got %s", mismatch.Event)
	}
	f.sessions.clock.Advance(50 * time.Millisecond)

	twin := engine.FindTwin(deck, a)
	f.svc.SelectCard(f.ctx, id, a)
	match, _ := f.svc.SelectCard(f.ctx, id, twin)
	if match.Event != engine.EventMatched {
		t.Fatalf("Expected match, got %s", match.Event)
	}
	if match.GameState.Clicks != 4 {
		t.Errorf("Expected 4 clicks, got %d", match.GameState.Clicks)
	}
}

func TestGameService_WinAndReset(t *testing.T) {
	f := newFixture(t)
	id := f.playing(t, "easy")
	deck := f.deck(t, id)

	var last *service.ActionResult
	done := map[int]bool{}
	for i := range deck {
		if done[i] {
			continue
		}
		twin := engine.FindTwin(deck, i)
		done[i], done[twin] = true, true
		f.svc.SelectCard(f.ctx, id, i)
		last, _ = f.svc.SelectCard(f.ctx, id, twin)
		f.sessions.clock.Advance(50 * time.Millisecond)
	}

	if last.Event != engine.EventWon {
		t.Fatalf("Expected final flip to win, got %s", last.Event)
	}
	state, _ := f.svc.GetGameState(f.ctx, id)
	if !state.Won || state.Message != "Won in 12 clicks" {
		t.Errorf("Expected won state with victory message, got %+v", state)
	}

	reset, err := f.svc.Reset(f.ctx, id)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if reset.Event != engine.EventReset || !reset.GameState.Loading {
		t.Errorf("Expected reset into loading, got %+v", reset)
	}
	if reset.GameState.Clicks != 0 || reset.GameState.MatchedPairs != 0 {
		t.Errorf("Expected cleared counters, got %+v", reset.GameState)
	}
	if reset.GameState.DealID == state.DealID {
		t.Error("Expected a new deal id after reset")
	}
}

func TestGameService_ResetCancelsResolveTimer(t *testing.T) {
	f := newFixture(t)
	id := f.playing(t, "easy")
	deck := f.deck(t, id)

	f.svc.SelectCard(f.ctx, id, 0)
	f.svc.SelectCard(f.ctx, id, firstHidden(deck, 0, engine.FindTwin(deck, 0)))

	sess, _ := f.sessions.Get(id)
	if sess.PendingTimers() != 1 {
		t.Fatalf("Expected one pending resolve timer, got %d", sess.PendingTimers())
	}

	f.svc.Reset(f.ctx, id)
	if sess.PendingTimers() != 1 || f.sessions.clock.Pending() != 1 {
		t.Fatalf("Expected only the deal timer after reset, got %d/%d", sess.PendingTimers(), f.sessions.clock.Pending())
	}

	f.sessions.clock.Advance(time.Second)
	types := f.events.types()
	for _, typ := range types[len(types)-2:] {
		if typ == engine.EventResolved {
			t.Errorf("Resolve timer fired after reset: %v", types)
		}
	}
	state, _ := f.svc.GetGameState(f.ctx, id)
	if state.Phase != engine.PhasePlaying || state.Clicks != 0 {
		t.Errorf("Expected fresh playing deck, got %+v", state)
	}
}

func TestGameService_ReturnToMenu(t *testing.T) {
	f := newFixture(t)
	info, _ := f.svc.CreateSession(f.ctx, "")

	ignored, _ := f.svc.Reset(f.ctx, info.ID)
	if ignored.Accepted {
		t.Error("Expected reset on the menu to be ignored")
	}

	f.svc.SelectDifficulty(f.ctx, info.ID, "hard")
	result, err := f.svc.ReturnToMenu(f.ctx, info.ID)
	if err != nil {
		t.Fatalf("ReturnToMenu() error = %v", err)
	}
	if result.GameState.Phase != engine.PhaseMenu || len(result.GameState.Cards) != 0 {
		t.Errorf("Expected empty menu, got %+v", result.GameState)
	}
	if f.sessions.clock.Pending() != 0 {
		t.Errorf("Expected deal timer cancelled, %d pending", f.sessions.clock.Pending())
	}

	flip, _ := f.svc.SelectCard(f.ctx, info.ID, 0)
	if flip.Accepted {
		t.Error("Expected flip on the menu to be ignored")
	}
}

func TestGameService_Notifications(t *testing.T) {
	f := newFixture(t)
	id := f.playing(t, "easy")
	deck := f.deck(t, id)

	f.svc.SelectCard(f.ctx, id, 0)
	f.svc.SelectCard(f.ctx, id, engine.FindTwin(deck, 0))
	f.sessions.clock.Advance(50 * time.Millisecond)

	want := []engine.EventType{
		engine.EventDifficultySelected,
		engine.EventDealt,
		engine.EventFlipped,
		engine.EventMatched,
		engine.EventResolved,
	}
	got := f.events.types()
	if len(got) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	for _, e := range f.events.events {
		if e.SessionID != id || e.GameState == nil {
			t.Errorf("Expected event for %s with state, got %+v", id, e)
		}
	}
}

func TestGameService_NotifierErrorDoesNotFailAction(t *testing.T) {
	sessions := NewMockSessionManager()
	failing := service.NotifierFunc(func(service.GameEvent) error { return errors.New("boom") })
	svc := service.NewGameService(sessions, NewMockConfigManager(), service.WithNotifier(failing))

	info, _ := svc.CreateSession(context.Background(), "")
	result, err := svc.SelectDifficulty(context.Background(), info.ID, "easy")
	if err != nil || !result.Accepted {
		t.Errorf("Expected action to succeed despite notifier error, got %+v, %v", result, err)
	}
}

func TestGameService_AddNotifier(t *testing.T) {
	f := newFixture(t)
	late := &recordingNotifier{}
	f.svc.AddNotifier(late)

	info, _ := f.svc.CreateSession(f.ctx, "")
	f.svc.SelectDifficulty(f.ctx, info.ID, "easy")
	if len(late.types()) != 1 {
		t.Errorf("Expected late notifier to receive 1 event, got %v", late.types())
	}
}

func TestGameService_GetFlipHistory(t *testing.T) {
	f := newFixture(t)
	id := f.playing(t, "easy")
	deck := f.deck(t, id)

	for i := 0; i < 3; i++ {
		twin := engine.FindTwin(deck, i)
		if twin < i {
			continue
		}
		f.svc.SelectCard(f.ctx, id, i)
		f.svc.SelectCard(f.ctx, id, twin)
		f.sessions.clock.Advance(50 * time.Millisecond)
	}

	all, err := f.svc.GetFlipHistory(f.ctx, id, service.HistoryOptions{Order: "asc", Limit: 100})
	if err != nil {
		t.Fatalf("GetFlipHistory() error = %v", err)
	}
	total := all.TotalFlips
	if total == 0 || total%2 != 0 {
		t.Fatalf("Expected an even, non-zero number of flips, got %d", total)
	}
	for i, flip := range all.Flips {
		if flip.Seq != i+1 || flip.Clicks != i+1 {
			t.Errorf("Flip %d out of order: %+v", i, flip)
		}
		if flip.Icon != deck[flip.Index] {
			t.Errorf("Flip %d recorded icon %s, deck has %s", i, flip.Icon, deck[flip.Index])
		}
	}

	tests := []struct {
		name      string
		sessionID string
		opts      service.HistoryOptions
		wantFirst int
		wantLen   int
		wantErr   bool
	}{
		{"default is newest first", id, service.HistoryOptions{}, total, total, false},
		{"ascending page", id, service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"}, 1, 2, false},
		{"descending second page", id, service.HistoryOptions{Page: 2, Limit: 1, Order: "desc"}, total - 1, 1, false},
		{"page past the end", id, service.HistoryOptions{Page: 50, Limit: 10, Order: "asc"}, 0, 0, false},
		{"huge page ascending", id, service.HistoryOptions{Page: math.MaxInt/50 + 2, Limit: 100, Order: "asc"}, 0, 0, false},
		{"huge page descending", id, service.HistoryOptions{Page: math.MaxInt/50 + 2, Limit: 100, Order: "desc"}, 0, 0, false},
		{"max page", id, service.HistoryOptions{Page: math.MaxInt, Limit: 100}, 0, 0, false},
		{"invalid session", "nonexistent", service.HistoryOptions{}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.svc.GetFlipHistory(f.ctx, tt.sessionID, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetFlipHistory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Flips == nil {
				t.Fatal("GetFlipHistory() returned nil flips slice")
			}
			if len(result.Flips) != tt.wantLen {
				t.Fatalf("Expected %d flips, got %d", tt.wantLen, len(result.Flips))
			}
			if tt.wantLen > 0 && result.Flips[0].Seq != tt.wantFirst {
				t.Errorf("Expected first seq %d, got %d", tt.wantFirst, result.Flips[0].Seq)
			}
		})
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.CreateSession(f.ctx, "test"); err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
	}

	sessionList, err := f.svc.ListSessions(f.ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}

	id := sessionList[0].ID
	f.svc.SelectDifficulty(f.ctx, id, "easy")
	if err := f.svc.DeleteSession(f.ctx, id); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if f.sessions.clock.Pending() != 0 {
		t.Errorf("Expected deleted session's timers cancelled, %d pending", f.sessions.clock.Pending())
	}
	if _, err := f.svc.GetSession(f.ctx, id); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := f.svc.DeleteSession(f.ctx, id); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestGameService_ListDifficulties(t *testing.T) {
	f := newFixture(t)
	got := f.svc.ListDifficulties(f.ctx)
	want := []service.DifficultyInfo{
		{Name: engine.Easy, PairCount: 6, Cards: 12, Columns: 3},
		{Name: engine.Medium, PairCount: 8, Cards: 16, Columns: 4},
		{Name: engine.Hard, PairCount: 12, Cards: 24, Columns: 6},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d difficulties, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Difficulty %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestGameService_SaveConfig(t *testing.T) {
	f := newFixture(t)

	bad := createTestConfig()
	bad.Palette = bad.Palette[:3]
	if err := f.svc.SaveConfig(f.ctx, "bad", bad); !errors.Is(err, service.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	if err := f.svc.SaveConfig(f.ctx, "good", createTestConfig()); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if f.configs.saved["good"] == nil {
		t.Error("Expected config to reach the config manager")
	}
}

// firstHidden returns the first index that is neither a nor b
func firstHidden(deck []string, a, b int) int {
	for i := range deck {
		if i != a && i != b {
			return i
		}
	}
	return -1
}
