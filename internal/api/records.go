package api

import (
	"context"
	"net/http"
	"strconv"
)

const DefaultRecordsPerPage = 20

// ListRecords lista registros de envío; status es all|success|failed.
func (c *Client) ListRecords(ctx context.Context, page, perPage int, status string) (*RecordList, error) {
	if perPage <= 0 {
		perPage = DefaultRecordsPerPage
	}
	if status == "" {
		status = StatusAll
	}
	q := pageQuery(page, perPage)
	q.Set("status", status)

	var out RecordList
	if err := c.Request(ctx, http.MethodGet, "/records/?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRecordStats(ctx context.Context) (*RecordStats, error) {
	var out RecordStats
	if err := c.Request(ctx, http.MethodGet, "/records/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetryRecord reenvía un registro. Es la única re-ejecución que existe y la
// dispara siempre el usuario.
func (c *Client) RetryRecord(ctx context.Context, id int64) (*SendResult, error) {
	var out SendResult
	path := "/records/" + strconv.FormatInt(id, 10) + "/retry"
	if err := c.Request(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
