package viewmodel

import (
	"context"
	"sync"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/usecase"
	"go.uber.org/zap"
)

// StopRow is one displayed stop with its arrivals, soonest first.
type StopRow struct {
	Stop    domain.Stop       `json:"stop"`
	Etas    []domain.EtaEntry `json:"etas"`
	EtaText string            `json:"eta_text"`
}

// StopListViewModel shows the stops of a single route and tracks whether that
// route is a favorite.
type StopListViewModel struct {
	store  FavoriteSource
	logger *zap.Logger

	direction   domain.Direction
	serviceType string
	key         string

	mu         sync.Mutex
	stops      []domain.Stop
	etas       map[string][]domain.EtaEntry
	isFavorite bool
	closed     bool
}

var _ usecase.FavoriteListener = (*StopListViewModel)(nil)

func NewStopListViewModel(
	ctx context.Context,
	store FavoriteSource,
	routeID, direction, serviceType string,
	logger *zap.Logger,
) (*StopListViewModel, error) {
	key, err := identity.CanonicalKey(routeID, direction, serviceType)
	if err != nil {
		return nil, err
	}
	dir, _ := identity.NormalizeDirection(direction)

	vm := &StopListViewModel{
		store:       store,
		logger:      logger,
		direction:   dir,
		serviceType: identity.NormalizeServiceType(serviceType),
		key:         key,
		etas:        make(map[string][]domain.EtaEntry),
	}
	store.Subscribe(vm)
	vm.Refresh(ctx)
	return vm, nil
}

func (vm *StopListViewModel) Key() string {
	return vm.key
}

func (vm *StopListViewModel) IsFavorite() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.isFavorite
}

// Refresh re-reads the route's favorite flag; a failed read keeps the old one.
func (vm *StopListViewModel) Refresh(ctx context.Context) {
	set, err := vm.store.Snapshot(ctx)
	if err != nil {
		vm.logger.Warn("Failed to read favorites", zap.String("key", vm.key), zap.Error(err))
		return
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.isFavorite = set[vm.key]
}

// SetStops replaces the stop list and drops arrivals for stops no longer shown.
func (vm *StopListViewModel) SetStops(stops []domain.Stop) {
	sorted := append([]domain.Stop{}, stops...)
	domain.SortStopsBySequence(sorted)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.stops = sorted

	etas := make(map[string][]domain.EtaEntry, len(sorted))
	for _, s := range sorted {
		if e, ok := vm.etas[s.StopID]; ok {
			etas[s.StopID] = e
		}
	}
	vm.etas = etas
}

// MergeRouteEta assigns whole-route arrivals to stops by sequence. Entries for
// another direction or service type are ignored.
func (vm *StopListViewModel) MergeRouteEta(entries []domain.EtaEntry) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}

	bySeq := make(map[int][]domain.EtaEntry)
	for _, e := range entries {
		if e.Direction != "" && e.Direction != vm.direction {
			continue
		}
		if e.ServiceType != "" && e.ServiceType != vm.serviceType {
			continue
		}
		bySeq[e.Sequence] = append(bySeq[e.Sequence], e)
	}

	for _, s := range vm.stops {
		list := bySeq[s.Sequence]
		domain.SortEtaEntries(list)
		vm.etas[s.StopID] = list
	}
}

// ApplyStopEtas stores per-stop arrivals; a failed stop shows no data.
func (vm *StopListViewModel) ApplyStopEtas(results []usecase.StopEta) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}

	for _, r := range results {
		if r.Err != nil {
			vm.logger.Debug("No arrivals for stop", zap.String("stop_id", r.StopID), zap.Error(r.Err))
			vm.etas[r.StopID] = nil
			continue
		}
		list := append([]domain.EtaEntry{}, r.Entries...)
		domain.SortEtaEntries(list)
		vm.etas[r.StopID] = list
	}
}

func (vm *StopListViewModel) Stops() []domain.Stop {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]domain.Stop{}, vm.stops...)
}

func (vm *StopListViewModel) Rows(lang domain.Language) []StopRow {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	rows := make([]StopRow, 0, len(vm.stops))
	for _, s := range vm.stops {
		etas := append([]domain.EtaEntry{}, vm.etas[s.StopID]...)
		rows = append(rows, StopRow{
			Stop:    s,
			Etas:    etas,
			EtaText: FormatNextEta(etas, lang),
		})
	}
	return rows
}

func (vm *StopListViewModel) EmptyState(lang domain.Language) string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if len(vm.stops) > 0 {
		return ""
	}
	return EmptyStopsText(lang)
}

func (vm *StopListViewModel) OnFavoriteChanged(key string, isFavorite bool) {
	if key != vm.key {
		return
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.isFavorite = isFavorite
}

func (vm *StopListViewModel) Close() {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.closed = true
	vm.mu.Unlock()

	vm.store.Unsubscribe(vm)
}
