package identity

import (
	stderrors "errors"
	"testing"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCanonicalKey_EquivalentInputs(t *testing.T) {
	a, err := CanonicalKey("1", "O", "1")
	require.NoError(t, err)
	b, err := CanonicalKey("1", "outbound", "1")
	require.NoError(t, err)
	c, err := CanonicalKey(" 1 ", "o", "1")
	require.NoError(t, err)

	assert.Equal(t, "1_outbound_1", a)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestCanonicalKey_Rules(t *testing.T) {
	tests := []struct {
		name        string
		routeID     string
		direction   string
		serviceType string
		expected    string
	}{
		{"upper-cases route", " e36a ", "I", "1", "E36A_inbound_1"},
		{"inbound aliases", "74B", "In", "2", "74B_inbound_2"},
		{"numeric inbound", "74B", "1", "1", "74B_inbound_1"},
		{"numeric outbound", "74B", "2", "1", "74B_outbound_1"},
		{"blank direction defaults outbound", "74B", "", "1", "74B_outbound_1"},
		{"blank service type defaults 1", "74B", "out", "  ", "74B_outbound_1"},
		{"service type trimmed", "74B", "OUTBOUND", " 3 ", "74B_outbound_3"},
		{"unknown direction passes through", "74B", "Circular", "1", "74B_Circular_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := CanonicalKey(tt.routeID, tt.direction, tt.serviceType)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}
}

func TestCanonicalKey_Idempotent(t *testing.T) {
	first, err := CanonicalKey("e36a", "i", "")
	require.NoError(t, err)

	second, err := CanonicalKey("E36A", "inbound", "1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCanonicalKey_MissingRouteID(t *testing.T) {
	for _, id := range []string{"", "   "} {
		key, err := CanonicalKey(id, "O", "1")
		assert.Empty(t, key)
		assert.True(t, stderrors.Is(err, errors.ErrMissingRouteID))
	}
}

func TestNormalizeDirection(t *testing.T) {
	d, ok := NormalizeDirection("I")
	assert.True(t, ok)
	assert.Equal(t, domain.DirectionInbound, d)

	d, ok = NormalizeDirection("sideways")
	assert.False(t, ok)
	assert.Equal(t, domain.Direction("sideways"), d)
}

func TestNormalizer_RouteKey(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	key, err := n.RouteKey(domain.Route{RouteID: "2", Direction: "I", ServiceType: "1"})
	require.NoError(t, err)
	assert.Equal(t, "2_inbound_1", key)

	_, err = n.RouteKey(domain.Route{Direction: "I"})
	assert.Error(t, err)
}
