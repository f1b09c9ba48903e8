package kmb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bus-eta-service/internal/config"
	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/pkg/utils"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewKMBClient создает клиент для KMB open data API
func NewKMBClient(cfg *config.UpstreamConfig, logger *zap.Logger) repository.TransitRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// MapBound converts upstream bound codes ("O"/"I") to directions.
func MapBound(bound string) domain.Direction {
	switch strings.ToUpper(strings.TrimSpace(bound)) {
	case "O", "OUTBOUND":
		return domain.DirectionOutbound
	case "I", "INBOUND":
		return domain.DirectionInbound
	default:
		return domain.Direction(bound)
	}
}

func (c *client) GetRoutes(ctx context.Context) ([]domain.Route, error) {
	records, err := c.getRecords(ctx, "route/")
	if err != nil {
		return nil, err
	}

	routes := make([]domain.Route, 0, len(records))
	for _, r := range records {
		if r.Route == "" {
			c.logger.Debug("Skipping route record without route id")
			continue
		}
		routes = append(routes, domain.Route{
			RouteID:       r.Route,
			Direction:     MapBound(r.direction()),
			ServiceType:   r.ServiceType.String(),
			OriginTC:      r.OrigTC,
			OriginEN:      r.OrigEN,
			DestinationTC: r.DestTC,
			DestinationEN: r.DestEN,
		})
	}

	return routes, nil
}

func (c *client) GetRouteStops(
	ctx context.Context,
	routeID string,
	direction domain.Direction,
	serviceType string,
) ([]domain.Stop, error) {
	records, err := c.getRecords(ctx, "route-stop", routeID, string(direction), serviceType)
	if err != nil {
		return nil, err
	}

	stops := make([]domain.Stop, 0, len(records))
	for _, r := range records {
		seq, ok := r.Seq.Int()
		if r.Stop == "" || !ok || seq < 1 {
			c.logger.Debug("Skipping route-stop record",
				zap.String("stop_id", r.Stop),
				zap.String("seq", r.Seq.String()))
			continue
		}

		stop := domain.Stop{
			StopID:      r.Stop,
			RouteID:     r.Route,
			Direction:   MapBound(r.direction()),
			ServiceType: r.ServiceType.String(),
			Sequence:    seq,
		}
		if stop.RouteID == "" {
			stop.RouteID = routeID
		}
		if stop.Direction == "" {
			stop.Direction = direction
		}
		if stop.ServiceType == "" {
			stop.ServiceType = serviceType
		}
		stops = append(stops, stop)
	}

	return stops, nil
}

func (c *client) GetStop(ctx context.Context, stopID string) (*domain.Stop, error) {
	records, err := c.getRecords(ctx, "stop", stopID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.ErrNotFound.WithDetails(map[string]interface{}{"stop_id": stopID})
	}

	r := records[0]
	stop := &domain.Stop{
		StopID: stopID,
		NameTC: r.NameTC,
		NameEN: r.NameEN,
	}
	if lat, lon, ok := utils.ParseCoordinates(r.Lat.String(), r.Long.String()); ok {
		stop.Location = &domain.Point{Lat: lat, Lon: lon}
	}

	return stop, nil
}

func (c *client) GetStopRouteEta(ctx context.Context, stopID, routeID, serviceType string) ([]domain.EtaEntry, error) {
	records, err := c.getRecords(ctx, "eta", stopID, routeID, serviceType)
	if err != nil {
		return nil, err
	}
	return toEtaEntries(records, stopID), nil
}

func (c *client) GetRouteEta(ctx context.Context, routeID, serviceType string) ([]domain.EtaEntry, error) {
	records, err := c.getRecords(ctx, "route-eta", routeID, serviceType)
	if err != nil {
		return nil, err
	}
	return toEtaEntries(records, ""), nil
}

func (c *client) GetStopEta(ctx context.Context, stopID string) ([]domain.EtaEntry, error) {
	records, err := c.getRecords(ctx, "stop-eta", stopID)
	if err != nil {
		return nil, err
	}
	return toEtaEntries(records, stopID), nil
}

func toEtaEntries(records []record, stopID string) []domain.EtaEntry {
	entries := make([]domain.EtaEntry, 0, len(records))
	for _, r := range records {
		if r.Route == "" {
			continue
		}
		seq, _ := r.Seq.Int()
		entry := domain.EtaEntry{
			RouteID:          r.Route,
			StopID:           r.Stop,
			Direction:        MapBound(r.direction()),
			ServiceType:      r.ServiceType.String(),
			Sequence:         seq,
			EtaTime:          r.eta(),
			RemarkTC:         r.RmkTC,
			RemarkEN:         r.RmkEN,
			DestinationTC:    r.DestTC,
			DestinationEN:    r.DestEN,
			MinutesRemaining: domain.MinutesUnknown,
		}
		if entry.StopID == "" {
			entry.StopID = stopID
		}
		entries = append(entries, entry)
	}
	return entries
}

// getRecords calls one endpoint and decodes its data field into records.
// Records that fail to decode are skipped.
func (c *client) getRecords(ctx context.Context, endpoint string, segments ...string) ([]record, error) {
	data, err := c.getData(ctx, endpoint, segments...)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var raws []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, errors.ErrMalformedPayload.Wrap(err)
		}
	case '{':
		raws = []json.RawMessage{data}
	default:
		return nil, errors.ErrMalformedPayload.Wrap(fmt.Errorf("unexpected data field %.20q", data))
	}

	records := make([]record, 0, len(raws))
	for i, raw := range raws {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			c.logger.Warn("Skipping malformed record",
				zap.String("endpoint", endpoint),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		records = append(records, r)
	}

	return records, nil
}

func (c *client) getData(ctx context.Context, endpoint string, segments ...string) (json.RawMessage, error) {
	path := endpoint
	for _, s := range segments {
		path += "/" + url.PathEscape(s)
	}
	reqURL := c.baseURL + "/" + path

	c.logger.Debug("Calling KMB API", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.ErrUpstreamUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("KMB API rejected request",
			zap.String("url", reqURL),
			zap.String("body", string(body)))
		return nil, errors.ErrMalformedRequest.WithDetails(map[string]interface{}{
			"endpoint": endpoint,
			"body":     string(body),
		})
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("KMB API returned error",
			zap.String("url", reqURL),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, errors.ErrUpstreamUnavailable.Wrap(fmt.Errorf("status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.logger.Error("Failed to decode response", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.ErrMalformedPayload.Wrap(err)
	}

	return env.Data, nil
}
