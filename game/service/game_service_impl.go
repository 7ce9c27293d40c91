package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/memorygame/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager

	mu        sync.RWMutex
	notifiers []Notifier
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithNotifier registers a notifier that receives every session change
func WithNotifier(n Notifier) Option {
	return func(s *gameServiceImpl) {
		s.notifiers = append(s.notifiers, n)
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddNotifier registers a notifier after construction.
func (s *gameServiceImpl) AddNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "classic"
	}
	return configName
}

// resolveConfig loads the named configuration, or the default when name is empty
func (s *gameServiceImpl) resolveConfig(configName string) (*engine.GameConfig, error) {
	if configName == "" {
		return s.configs.GetDefault(), nil
	}
	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s' not found, available configs %v: %w", configName, configIDs, err)
			}
		}
		return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
	}
	return config, nil
}

// CreateSession creates a new game session on the difficulty menu
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	config, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s.opened(sess, configName, config), nil
}

// OpenSession resumes the session with the given ID, creating it on the
// difficulty menu when it does not exist yet. configName only applies to a
// newly created session.
func (s *gameServiceImpl) OpenSession(ctx context.Context, sessionID, configName string) (*SessionInfo, error) {
	if sessionID == "" {
		return s.CreateSession(ctx, configName)
	}
	if sess, err := s.session(sessionID); err == nil {
		return s.sessionInfo(sess), nil
	}

	config, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetOrCreate(sessionID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return s.opened(sess, configName, config), nil
}

func (s *gameServiceImpl) opened(sess *Session, configName string, config *engine.GameConfig) *SessionInfo {
	s.attach(sess)

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	info := s.sessionInfo(sess)
	info.ConfigName = configID
	log.Debug().Str("session", sess.ID).Str("config", configID).Msg("session created")
	return info
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session and cancels its timers
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// SelectDifficulty deals a new deck for the named difficulty
func (s *gameServiceImpl) SelectDifficulty(ctx context.Context, sessionID, difficulty string) (*ActionResult, error) {
	d, err := engine.ParseDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (expected easy, medium or hard)", ErrInvalidDifficulty, difficulty)
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Apply(func(st engine.State) engine.Transition {
		return sess.Engine.SelectDifficulty(st, d)
	}), nil
}

// SelectCard flips the card at index. Flips the engine ignores are reported
// with Accepted=false rather than as errors.
func (s *gameServiceImpl) SelectCard(ctx context.Context, sessionID string, index int) (*ActionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Apply(func(st engine.State) engine.Transition {
		return sess.Engine.SelectCard(st, index)
	}), nil
}

// Reset deals a new deck for the current difficulty
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*ActionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Apply(sess.Engine.Reset), nil
}

// ReturnToMenu abandons the current deck
func (s *gameServiceImpl) ReturnToMenu(ctx context.Context, sessionID string) (*ActionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Apply(sess.Engine.ReturnToMenu), nil
}

// GetGameState retrieves the current game view
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.View(), nil
}

// GetFlipHistory returns paginated flip history
func (s *gameServiceImpl) GetFlipHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	flips := []FlipRecord{}
	if opts.Page > totalPages {
		// Past the end; also keeps (Page-1)*Limit from overflowing
		return &HistoryResponse{
			Flips:       flips,
			TotalFlips:  total,
			Page:        opts.Page,
			PageSize:    opts.Limit,
			TotalPages:  totalPages,
			HasPrevious: true,
		}, nil
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			flips = append(flips, history[i])
		}
	} else if start < total {
		flips = append(flips, history[start:end]...)
	}

	return &HistoryResponse{
		Flips:       flips,
		TotalFlips:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListDifficulties returns every selectable difficulty in menu order
func (s *gameServiceImpl) ListDifficulties(ctx context.Context) []DifficultyInfo {
	result := make([]DifficultyInfo, 0, 3)
	for _, d := range engine.Difficulties() {
		result = append(result, DifficultyInfo{
			Name:      d,
			PairCount: d.PairCount(),
			Cards:     d.PairCount() * 2,
			Columns:   d.Columns(),
		})
	}
	return result
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig validates and stores a game configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return s.configs.SaveConfig(configName, config)
}

// session looks up a session, touches its access time and makes sure its
// changes reach the notifiers.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("failed to update last access time")
	}
	s.attach(sess)
	return sess, nil
}

func (s *gameServiceImpl) attach(sess *Session) {
	sess.SetListener(s.dispatch)
}

// dispatch fans a session change out to every notifier. Failures are logged
// and never reach the player action that caused them.
func (s *gameServiceImpl) dispatch(event GameEvent) {
	s.mu.RLock()
	notifiers := make([]Notifier, len(s.notifiers))
	copy(notifiers, s.notifiers)
	s.mu.RUnlock()

	for _, n := range notifiers {
		if err := n.Notify(event); err != nil {
			log.Warn().Err(err).
				Str("session", event.SessionID).
				Str("event", string(event.Type)).
				Msg("notifier failed")
		}
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.View(),
		GameConfig:     sess.Config,
	}
}
