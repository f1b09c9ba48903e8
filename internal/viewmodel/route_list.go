package viewmodel

import (
	"context"
	"sync"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/usecase"
	"go.uber.org/zap"
)

// FavoriteSource is what view models need from the favorites store.
type FavoriteSource interface {
	Snapshot(ctx context.Context) (domain.FavoriteSet, error)
	Subscribe(l usecase.FavoriteListener)
	Unsubscribe(l usecase.FavoriteListener)
}

type routeIdentity struct {
	routeID   string
	direction domain.Direction
}

// RouteListViewModel keeps the unfiltered route baseline and the list currently
// shown, which is either the baseline or its favorites. It subscribes to the
// store on construction; Close unsubscribes and turns later calls into no-ops.
type RouteListViewModel struct {
	store  FavoriteSource
	logger *zap.Logger

	mu            sync.Mutex
	baseline      []domain.Route
	active        []domain.Route
	favoritesOnly bool
	closed        bool
}

var _ usecase.FavoriteListener = (*RouteListViewModel)(nil)

func NewRouteListViewModel(store FavoriteSource, logger *zap.Logger) *RouteListViewModel {
	vm := &RouteListViewModel{
		store:  store,
		logger: logger,
	}
	store.Subscribe(vm)
	return vm
}

// ApplyDataset replaces the baseline. Routes are de-duplicated by
// normalized (route id, direction), first occurrence wins, and tagged with favorite state.
func (vm *RouteListViewModel) ApplyDataset(ctx context.Context, routes []domain.Route) {
	favorites := vm.favorites(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}

	seen := make(map[routeIdentity]bool, len(routes))
	baseline := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		routeID, err := identity.NormalizeRouteID(r.RouteID)
		if err != nil {
			vm.logger.Debug("Dropping route without id")
			continue
		}
		direction, _ := identity.NormalizeDirection(string(r.Direction))

		id := routeIdentity{routeID: routeID, direction: direction}
		if seen[id] {
			continue
		}
		seen[id] = true

		if r.FavoriteKey == "" {
			key, err := identity.CanonicalKey(r.RouteID, string(r.Direction), r.ServiceType)
			if err != nil {
				continue
			}
			r.FavoriteKey = key
		}
		if favorites != nil {
			r.IsFavorite = favorites[r.FavoriteKey]
		}
		baseline = append(baseline, r)
	}

	vm.baseline = baseline
	vm.rederive()
}

// EnterFavoritesOnlyMode re-reads every favorite flag, then filters.
func (vm *RouteListViewModel) EnterFavoritesOnlyMode(ctx context.Context) {
	vm.mu.Lock()
	already := vm.favoritesOnly || vm.closed
	vm.mu.Unlock()
	if already {
		return
	}

	favorites := vm.favorites(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.favoritesOnly || vm.closed {
		return
	}
	vm.retag(favorites)
	vm.favoritesOnly = true
	vm.rederive()
}

func (vm *RouteListViewModel) ExitFavoritesOnlyMode() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.favoritesOnly || vm.closed {
		return
	}
	vm.favoritesOnly = false
	vm.rederive()
}

// Refresh re-reads favorite flags, as when the view becomes visible again.
func (vm *RouteListViewModel) Refresh(ctx context.Context) {
	favorites := vm.favorites(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.retag(favorites)
	vm.rederive()
}

// OnFavoriteChanged updates the flag of a known route. In favorites-only mode an
// unfavorited route leaves the list and a newly favorited one is appended.
func (vm *RouteListViewModel) OnFavoriteChanged(key string, isFavorite bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}

	idx := -1
	for i := range vm.baseline {
		if vm.baseline[i].FavoriteKey == key {
			vm.baseline[i].IsFavorite = isFavorite
			if idx < 0 {
				idx = i
			}
		}
	}
	if idx < 0 {
		return
	}

	inActive := false
	kept := vm.active[:0]
	for _, r := range vm.active {
		if r.FavoriteKey == key {
			inActive = true
			r.IsFavorite = isFavorite
			if vm.favoritesOnly && !isFavorite {
				continue
			}
		}
		kept = append(kept, r)
	}
	vm.active = kept

	if vm.favoritesOnly && isFavorite && !inActive {
		vm.active = append(vm.active, vm.baseline[idx])
	}
}

// Items returns a copy of the list currently shown.
func (vm *RouteListViewModel) Items() []domain.Route {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]domain.Route{}, vm.active...)
}

// Baseline returns a copy of the unfiltered list.
func (vm *RouteListViewModel) Baseline() []domain.Route {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]domain.Route{}, vm.baseline...)
}

func (vm *RouteListViewModel) FavoritesOnly() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.favoritesOnly
}

// EmptyState returns the text to show instead of an empty list, or "".
func (vm *RouteListViewModel) EmptyState(lang domain.Language) string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if len(vm.active) > 0 {
		return ""
	}
	if vm.favoritesOnly {
		return EmptyFavoritesText(lang)
	}
	return EmptyRoutesText(lang)
}

func (vm *RouteListViewModel) Close() {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.closed = true
	vm.mu.Unlock()

	vm.store.Unsubscribe(vm)
}

// favorites reads the store without holding vm.mu; nil means the read failed.
func (vm *RouteListViewModel) favorites(ctx context.Context) domain.FavoriteSet {
	set, err := vm.store.Snapshot(ctx)
	if err != nil {
		vm.logger.Warn("Failed to read favorites, keeping current flags", zap.Error(err))
		return nil
	}
	return set
}

func (vm *RouteListViewModel) retag(favorites domain.FavoriteSet) {
	if favorites == nil {
		return
	}
	for i := range vm.baseline {
		vm.baseline[i].IsFavorite = favorites[vm.baseline[i].FavoriteKey]
	}
}

func (vm *RouteListViewModel) rederive() {
	if !vm.favoritesOnly {
		vm.active = append([]domain.Route{}, vm.baseline...)
		return
	}
	active := make([]domain.Route, 0, len(vm.baseline))
	for _, r := range vm.baseline {
		if r.IsFavorite {
			active = append(active, r)
		}
	}
	vm.active = active
}
