// Package identity canonicalizes route identities into favorite keys.
package identity

import (
	"strings"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	separator          = "_"
	defaultServiceType = "1"
)

var directionAliases = map[string]domain.Direction{
	"i":        domain.DirectionInbound,
	"in":       domain.DirectionInbound,
	"inbound":  domain.DirectionInbound,
	"1":        domain.DirectionInbound,
	"o":        domain.DirectionOutbound,
	"out":      domain.DirectionOutbound,
	"outbound": domain.DirectionOutbound,
	"2":        domain.DirectionOutbound,
}

// NormalizeDirection maps direction aliases case-insensitively. Blank input is outbound.
// Unknown tokens are returned unchanged with ok=false.
func NormalizeDirection(direction string) (domain.Direction, bool) {
	d := strings.ToLower(strings.TrimSpace(direction))
	if d == "" {
		return domain.DirectionOutbound, true
	}
	if canonical, found := directionAliases[d]; found {
		return canonical, true
	}
	return domain.Direction(direction), false
}

// NormalizeServiceType trims the service type, defaulting blank input to "1".
func NormalizeServiceType(serviceType string) string {
	st := strings.TrimSpace(serviceType)
	if st == "" {
		return defaultServiceType
	}
	return st
}

// NormalizeRouteID trims and upper-cases the route id.
func NormalizeRouteID(routeID string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(routeID))
	if id == "" {
		return "", errors.ErrMissingRouteID
	}
	return id, nil
}

// CanonicalKey builds {ROUTEID}_{direction}_{serviceType}.
func CanonicalKey(routeID, direction, serviceType string) (string, error) {
	id, err := NormalizeRouteID(routeID)
	if err != nil {
		return "", err
	}
	dir, _ := NormalizeDirection(direction)
	return id + separator + string(dir) + separator + NormalizeServiceType(serviceType), nil
}

// Normalizer is CanonicalKey with logging of tokens it could not normalize.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

func (n *Normalizer) Key(routeID, direction, serviceType string) (string, error) {
	key, err := CanonicalKey(routeID, direction, serviceType)
	if err != nil {
		n.logger.Warn("Cannot build favorite key",
			zap.String("direction", direction),
			zap.String("service_type", serviceType),
			zap.Error(err))
		return "", err
	}

	if _, ok := NormalizeDirection(direction); !ok {
		n.logger.Warn("Unrecognized direction, keeping raw token",
			zap.String("route_id", routeID),
			zap.String("direction", direction),
			zap.String("favorite_key", key))
	}
	if strings.Count(key, separator) != 2 {
		n.logger.Warn("Favorite key fields contain the separator",
			zap.String("favorite_key", key))
	}

	return key, nil
}

// RouteKey computes the key of a route.
func (n *Normalizer) RouteKey(route domain.Route) (string, error) {
	return n.Key(route.RouteID, string(route.Direction), route.ServiceType)
}
