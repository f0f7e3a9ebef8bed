// Package hae implements provider.HealthProvider against a Health Auto
// Export TCP server (JSON-RPC 2.0, newline-delimited framing). Each call
// opens a fresh connection; the HAE server closes the socket after sending
// its response.
package hae

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/claude/vitalsync/internal/models"
	"github.com/claude/vitalsync/internal/provider"
	"github.com/google/uuid"
)

// Metric names as exported by HAE.
const (
	metricSteps     = "step_count"
	metricDistance  = "walking_running_distance"
	metricCalories  = "active_energy"
	metricHeartRate = "heart_rate"
	metricRestingHR = "resting_heart_rate"
)

// Client queries the HAE server for raw telemetry.
type Client struct {
	host    string
	port    int
	timeout time.Duration
	log     *slog.Logger
}

var _ provider.HealthProvider = (*Client)(nil)
var _ provider.RestingHeartRateProvider = (*Client)(nil)

// NewClient creates a client for the HAE server at host:port.
func NewClient(host string, port int, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{host: host, port: port, timeout: timeout, log: log}
}

// IsAvailable reports whether the HAE server accepts connections.
func (c *Client) IsAvailable(ctx context.Context) bool {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr())
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// RequestPermissions cannot prompt over this transport: the phone app owns
// the HealthKit grants. It reports whether everything is currently readable.
func (c *Client) RequestPermissions(ctx context.Context, types []provider.DataType) (bool, error) {
	status, err := c.GetPermissionStatus(ctx)
	if err != nil {
		return false, err
	}
	return status.AllGranted(), nil
}

// GetPermissionStatus reports granted for every type while the server is
// reachable (HAE only exports series the phone app was allowed to read)
// and not_determined when it is not.
func (c *Client) GetPermissionStatus(ctx context.Context) (models.PermissionStatus, error) {
	state := models.PermissionGranted
	if !c.IsAvailable(ctx) {
		state = models.PermissionNotDetermined
	}
	return models.PermissionStatus{
		Steps:     state,
		Distance:  state,
		Calories:  state,
		HeartRate: state,
		Workouts:  state,
	}, nil
}

func (c *Client) GetSteps(ctx context.Context, start, end time.Time) ([]models.StepsRecord, error) {
	points, _, err := c.queryQtyMetric(ctx, metricSteps, start, end)
	if err != nil {
		return nil, err
	}
	records := make([]models.StepsRecord, len(points))
	for i, p := range points {
		records[i] = models.StepsRecord{Start: p.Date.Time, End: p.Date.Time, Count: p.Qty}
	}
	return records, nil
}

func (c *Client) GetDistance(ctx context.Context, start, end time.Time) ([]models.DistanceRecord, error) {
	points, units, err := c.queryQtyMetric(ctx, metricDistance, start, end)
	if err != nil {
		return nil, err
	}
	records := make([]models.DistanceRecord, len(points))
	for i, p := range points {
		records[i] = models.DistanceRecord{
			Start:  p.Date.Time,
			End:    p.Date.Time,
			Meters: toMeters(wireQuantity{Qty: p.Qty, Units: units}),
		}
	}
	return records, nil
}

// GetCalories returns active energy records. HAE does not export a combined
// total over this transport, so Total mirrors Active; the aggregator sums
// whatever fragments it receives either way.
func (c *Client) GetCalories(ctx context.Context, start, end time.Time) ([]models.CaloriesRecord, error) {
	points, _, err := c.queryQtyMetric(ctx, metricCalories, start, end)
	if err != nil {
		return nil, err
	}
	records := make([]models.CaloriesRecord, len(points))
	for i, p := range points {
		records[i] = models.CaloriesRecord{Start: p.Date.Time, End: p.Date.Time, Active: p.Qty, Total: p.Qty}
	}
	return records, nil
}

func (c *Client) GetHeartRate(ctx context.Context, start, end time.Time) ([]models.HeartRateSample, error) {
	metrics, err := c.queryMetrics(ctx, metricHeartRate, start, end, false)
	if err != nil {
		return nil, err
	}
	var samples []models.HeartRateSample
	for _, m := range metrics {
		for _, raw := range m.Data {
			var p minAvgMaxPoint
			if err := json.Unmarshal(raw, &p); err != nil {
				c.log.Warn("skipping heart rate point", "error", err)
				continue
			}
			samples = append(samples, models.HeartRateSample{Time: p.Date.Time, BPM: p.Avg})
		}
	}
	return samples, nil
}

// GetRestingHeartRate returns the most recent resting HR reading in the
// range, or nil when the range has none.
func (c *Client) GetRestingHeartRate(ctx context.Context, start, end time.Time) (*float64, error) {
	points, _, err := c.queryQtyMetric(ctx, metricRestingHR, start, end)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}
	latest := points[0]
	for _, p := range points[1:] {
		if p.Date.After(latest.Date.Time) {
			latest = p
		}
	}
	return &latest.Qty, nil
}

func (c *Client) GetWorkouts(ctx context.Context, start, end time.Time) ([]models.HealthWorkout, error) {
	result, err := c.callTool(ctx, "workouts", map[string]any{
		"start": start.Format(wireTimeLayout),
		"end":   end.Format(wireTimeLayout),
	})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(result, &env); err != nil {
		return nil, fmt.Errorf("parsing workouts result: %w", err)
	}

	var workouts []models.HealthWorkout
	for _, w := range env.Data.Workouts {
		id, err := uuid.Parse(w.ID)
		if err != nil {
			c.log.Warn("skipping workout: invalid UUID", "id", w.ID, "error", err)
			continue
		}
		workout := models.HealthWorkout{
			ID:          id,
			Name:        w.Name,
			Start:       w.Start.Time,
			End:         w.End.Time,
			DurationSec: w.Duration,
		}
		if w.ActiveEnergyBurned != nil {
			workout.ActiveEnergyBurned = &w.ActiveEnergyBurned.Qty
		}
		if w.Distance != nil {
			meters := toMeters(*w.Distance)
			workout.DistanceMeters = &meters
		}
		if w.AvgHR != nil {
			workout.AvgHeartRate = &w.AvgHR.Qty
		}
		if w.MaxHR != nil {
			workout.MaxHeartRate = &w.MaxHR.Qty
		}
		workouts = append(workouts, workout)
	}
	return workouts, nil
}

// queryQtyMetric fetches a single-quantity metric and decodes its points.
// Returns the points and the series units.
func (c *Client) queryQtyMetric(ctx context.Context, name string, start, end time.Time) ([]qtyPoint, string, error) {
	metrics, err := c.queryMetrics(ctx, name, start, end, false)
	if err != nil {
		return nil, "", err
	}
	var points []qtyPoint
	var units string
	for _, m := range metrics {
		if units == "" {
			units = m.Units
		}
		for _, raw := range m.Data {
			var p qtyPoint
			if err := json.Unmarshal(raw, &p); err != nil {
				c.log.Warn("skipping data point", "metric", name, "error", err)
				continue
			}
			points = append(points, p)
		}
	}
	return points, units, nil
}

// queryMetrics calls the health_metrics tool for one named metric.
func (c *Client) queryMetrics(ctx context.Context, name string, start, end time.Time, aggregate bool) ([]wireMetric, error) {
	result, err := c.callTool(ctx, "health_metrics", map[string]any{
		"start":     start.Format(wireTimeLayout),
		"end":       end.Format(wireTimeLayout),
		"metrics":   name,
		"aggregate": aggregate,
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(result, &env); err != nil {
		return nil, fmt.Errorf("parsing %s result: %w", name, err)
	}
	return env.Data.Metrics, nil
}

// --- JSON-RPC transport ---

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) addr() string {
	return net.JoinHostPort(c.host, fmt.Sprintf("%d", c.port))
}

// callTool sends a JSON-RPC callTool request, retrying once on transient
// transport failure; the HAE server occasionally drops a connection while
// the phone app refreshes its export.
func (c *Client) callTool(ctx context.Context, toolName string, args map[string]any) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		result, err := c.callToolOnce(ctx, toolName, args)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		c.log.Warn("HAE call failed, retrying", "tool", toolName, "error", err)
	}
	return nil, lastErr
}

func (c *Client) callToolOnce(ctx context.Context, toolName string, args map[string]any) (json.RawMessage, error) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "callTool",
		Params:  callToolParams{Name: toolName, Arguments: args},
	}
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr())
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.addr(), err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("setting deadline: %w", err)
	}

	// Newline-delimited JSON-RPC framing.
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// The server closes the connection after responding, so read until EOF.
	respData, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(respData) == 0 {
		return nil, fmt.Errorf("empty response from %s", c.addr())
	}

	var resp jsonRPCResponse
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("HAE error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	return resp.Result, nil
}
