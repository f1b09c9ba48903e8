package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/pkg/identity"
	"go.uber.org/zap"
)

// FavoriteListener receives favorite changes. Listeners are registered and
// removed by identity, so implementations should be pointer types.
type FavoriteListener interface {
	OnFavoriteChanged(key string, isFavorite bool)
}

// ChangePublisher forwards local favorite changes to other instances.
type ChangePublisher interface {
	PublishFavoriteChanged(ctx context.Context, key string, isFavorite bool)
}

// FavoriteStore - единственный источник истины об избранных маршрутах.
//
// Каждая операция сначала перечитывает снимок из хранилища (read-through),
// изменения сохраняются целиком до уведомления слушателей.
// Мьютекс защищает последовательность reload-mutate-persist от потерянных обновлений.
// Слушатели вызываются синхронно, по порядку регистрации, после снятия блокировки.
type FavoriteStore struct {
	repo       repository.FavoriteRepository
	normalizer *identity.Normalizer
	publisher  ChangePublisher
	logger     *zap.Logger

	mu            sync.Mutex
	set           domain.FavoriteSet
	legacyChecked bool

	listenersMu sync.Mutex
	listeners   []FavoriteListener
}

// NewFavoriteStore builds the store. publisher may be nil.
func NewFavoriteStore(
	repo repository.FavoriteRepository,
	normalizer *identity.Normalizer,
	publisher ChangePublisher,
	logger *zap.Logger,
) *FavoriteStore {
	return &FavoriteStore{
		repo:       repo,
		normalizer: normalizer,
		publisher:  publisher,
		logger:     logger,
		set:        domain.FavoriteSet{},
	}
}

// Key canonicalizes a route identity.
func (s *FavoriteStore) Key(routeID, direction, serviceType string) (string, error) {
	return s.normalizer.Key(routeID, direction, serviceType)
}

// Add marks key as favorite. Returns false if it already was.
func (s *FavoriteStore) Add(ctx context.Context, key string) (bool, error) {
	changed, err := s.mutate(ctx, key, func(current bool) bool { return true })
	return changed, err
}

// Remove unmarks key. Returns false if it was not a favorite.
func (s *FavoriteStore) Remove(ctx context.Context, key string) (bool, error) {
	changed, err := s.mutate(ctx, key, func(current bool) bool { return false })
	return changed, err
}

// Toggle flips key and returns the new state.
func (s *FavoriteStore) Toggle(ctx context.Context, key string) (bool, error) {
	var state bool
	_, err := s.mutate(ctx, key, func(current bool) bool {
		state = !current
		return state
	})
	if err != nil {
		return false, err
	}
	return state, nil
}

func (s *FavoriteStore) IsFavorite(ctx context.Context, key string) (bool, error) {
	key, err := canonicalStoredKey(key)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(ctx); err != nil {
		return false, err
	}
	return s.set[key], nil
}

// All returns the favorite keys in lexical order.
func (s *FavoriteStore) All(ctx context.Context) ([]string, error) {
	set, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return set.Keys(), nil
}

// Snapshot reloads and returns a copy of the whole set.
func (s *FavoriteStore) Snapshot(ctx context.Context) (domain.FavoriteSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	cp := make(domain.FavoriteSet, len(s.set))
	for k, v := range s.set {
		cp[k] = v
	}
	return cp, nil
}

// Refresh forces a reload from storage.
func (s *FavoriteStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx)
}

// NotifyExternal reloads after a change made elsewhere and tells local
// listeners the state key now has in storage. Nothing is published.
func (s *FavoriteStore) NotifyExternal(ctx context.Context, key string) error {
	s.mu.Lock()
	if err := s.reload(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	state := s.set[key]
	s.mu.Unlock()

	s.notify(key, state)
	return nil
}

func (s *FavoriteStore) Subscribe(l FavoriteListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	for _, existing := range s.listeners {
		if existing == l {
			return
		}
	}
	s.listeners = append(s.listeners, l)
}

func (s *FavoriteStore) Unsubscribe(l FavoriteListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// mutate runs reload, next, persist under the lock; listeners are called after it is released.
func (s *FavoriteStore) mutate(ctx context.Context, key string, next func(current bool) bool) (bool, error) {
	key, err := canonicalStoredKey(key)
	if err != nil {
		return false, err
	}

	s.mu.Lock()

	if err := s.reload(ctx); err != nil {
		s.mu.Unlock()
		return false, err
	}

	current := s.set[key]
	state := next(current)
	if state == current {
		s.mu.Unlock()
		return false, nil
	}

	if state {
		s.set[key] = true
	} else {
		delete(s.set, key)
	}

	if err := s.persist(ctx); err != nil {
		// storage still holds the old snapshot; keep memory in line with it
		if current {
			s.set[key] = true
		} else {
			delete(s.set, key)
		}
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.logger.Info("Favorite changed",
		zap.String("favorite_key", key),
		zap.Bool("is_favorite", state))

	s.notify(key, state)
	if s.publisher != nil {
		s.publisher.PublishFavoriteChanged(ctx, key, state)
	}

	return true, nil
}

// reload replaces the in-memory set with storage contents. Caller holds mu.
func (s *FavoriteStore) reload(ctx context.Context) error {
	data, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	if !s.legacyChecked {
		migrated, err := s.migrateLegacy(ctx, data == nil)
		if err != nil {
			return err
		}
		s.legacyChecked = true
		if migrated != nil {
			data = migrated
		}
	}

	if data == nil {
		s.set = domain.FavoriteSet{}
		return nil
	}

	var set domain.FavoriteSet
	if err := json.Unmarshal(data, &set); err != nil {
		s.logger.Warn("Corrupt favorites snapshot, resetting to empty set", zap.Error(err))
		s.set = domain.FavoriteSet{}
		return nil
	}

	s.set = make(domain.FavoriteSet, len(set))
	for k, v := range set {
		if v {
			s.set[k] = true
		}
	}
	return nil
}

// migrateLegacy converts the flat legacy key set when no snapshot exists yet.
// It returns the persisted snapshot, or nil when nothing was migrated.
func (s *FavoriteStore) migrateLegacy(ctx context.Context, snapshotAbsent bool) ([]byte, error) {
	if !snapshotAbsent {
		return nil, nil
	}

	legacy, err := s.repo.LoadLegacy(ctx)
	if err != nil {
		return nil, err
	}
	if legacy == nil {
		return nil, nil
	}

	set := make(domain.FavoriteSet, len(legacy))
	for _, k := range legacy {
		set[s.canonicalLegacyKey(k)] = true
	}

	data, err := json.Marshal(set)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveSnapshot(ctx, data); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLegacy(ctx); err != nil {
		s.logger.Warn("Failed to delete legacy favorites after migration", zap.Error(err))
	}

	s.logger.Info("Legacy favorites migrated", zap.Int("count", len(set)))
	return data, nil
}

// canonicalLegacyKey re-normalizes keys that split cleanly into three fields.
// Anything else is carried over as is.
func (s *FavoriteStore) canonicalLegacyKey(key string) string {
	canonical, err := canonicalStoredKey(key)
	if err != nil {
		return key
	}
	return canonical
}

// canonicalStoredKey re-runs a {routeId}_{direction}_{serviceType} key through
// the normalizer, so " 1_O_1" and "1_outbound_1" address the same favorite.
func canonicalStoredKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.ErrMissingRouteID
	}
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return "", errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"key": key})
	}
	return identity.CanonicalKey(parts[0], parts[1], parts[2])
}

func (s *FavoriteStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.set)
	if err != nil {
		return err
	}
	return s.repo.SaveSnapshot(ctx, data)
}

func (s *FavoriteStore) notify(key string, isFavorite bool) {
	s.listenersMu.Lock()
	listeners := append([]FavoriteListener(nil), s.listeners...)
	s.listenersMu.Unlock()

	for _, l := range listeners {
		s.invoke(l, key, isFavorite)
	}
}

func (s *FavoriteStore) invoke(l FavoriteListener, key string, isFavorite bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Favorite listener panicked",
				zap.String("favorite_key", key),
				zap.Any("panic", r))
		}
	}()
	l.OnFavoriteChanged(key, isFavorite)
}
