// Package eta turns upstream arrival timestamps into minutes remaining.
package eta

import (
	"math"
	"time"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	// seconds precision, numeric offset: 2024-05-01T10:15:00+08:00
	layoutPrimary = "2006-01-02T15:04:05Z07:00"
	// fractional seconds, offset without colon: 2024-05-01T10:15:00.123+0800
	layoutSecondary = "2006-01-02T15:04:05.999999999Z0700"
)

// Clock returns the current instant.
type Clock func() time.Time

// Parse reads an upstream timestamp with the primary layout, then the secondary one.
func Parse(etaTimestamp string) (time.Time, error) {
	t, err := time.Parse(layoutPrimary, etaTimestamp)
	if err == nil {
		return t, nil
	}
	t, err2 := time.Parse(layoutSecondary, etaTimestamp)
	if err2 == nil {
		return t, nil
	}
	return time.Time{}, errors.ErrUnparseableTimestamp.Wrap(err)
}

// MinutesRemaining resolves etaTimestamp against now.
// Blank input and departed buses give domain.MinutesUnknown; up to one minute late clamps to 0.
// A parse failure returns domain.MinutesUnknown together with the error.
func MinutesRemaining(etaTimestamp string, now time.Time) (int, error) {
	if etaTimestamp == "" {
		return domain.MinutesUnknown, nil
	}

	at, err := Parse(etaTimestamp)
	if err != nil {
		return domain.MinutesUnknown, err
	}

	diff := int(math.Floor(at.Sub(now).Minutes()))
	switch {
	case diff < -1:
		return domain.MinutesUnknown, nil
	case diff < 0:
		return 0, nil
	default:
		return diff, nil
	}
}

// Resolver reads the clock on every call so results follow wall-clock time.
type Resolver struct {
	logger *zap.Logger
	now    Clock
}

func NewResolver(logger *zap.Logger, now Clock) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{logger: logger, now: now}
}

// Resolve never fails; unparseable timestamps are logged and resolve to unknown.
func (r *Resolver) Resolve(etaTimestamp string) int {
	minutes, err := MinutesRemaining(etaTimestamp, r.now())
	if err != nil {
		r.logger.Warn("Unparseable ETA timestamp",
			zap.String("eta", etaTimestamp),
			zap.Error(err))
	}
	return minutes
}

// Annotate recomputes MinutesRemaining of every entry and sorts them, unknown last.
func (r *Resolver) Annotate(entries []domain.EtaEntry) []domain.EtaEntry {
	for i := range entries {
		entries[i].MinutesRemaining = r.Resolve(entries[i].EtaTime)
	}
	domain.SortEtaEntries(entries)
	return entries
}
