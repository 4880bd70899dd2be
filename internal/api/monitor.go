package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const DefaultDailyStatsDays = 7

func (c *Client) GetSystemStatus(ctx context.Context) (*SystemStatus, error) {
	var out SystemStatus
	if err := c.Request(ctx, http.MethodGet, "/monitor/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSystemLogs trae las últimas lines líneas del log del backend filtradas
// por level (ALL, DEBUG, INFO, WARN, ERROR; WARNING equivale a WARN).
// lines <= 0 deja el default del backend.
func (c *Client) GetSystemLogs(ctx context.Context, level string, lines int) (*LogList, error) {
	if strings.TrimSpace(level) == "" {
		level = "ALL"
	}
	q := url.Values{}
	q.Set("level", strings.ToUpper(level))
	if lines > 0 {
		q.Set("lines", strconv.Itoa(lines))
	}

	var out LogList
	if err := c.Request(ctx, http.MethodGet, "/monitor/logs?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDailyStats(ctx context.Context, days int) (*DailyStats, error) {
	if days <= 0 {
		days = DefaultDailyStatsDays
	}
	var out DailyStats
	path := "/monitor/stats/daily?days=" + strconv.Itoa(days)
	if err := c.Request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
