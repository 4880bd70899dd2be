package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultTemplatesPerPage = 10
	// SelectorTemplatesPerPage es el tamaño que usa el selector del envío por plantilla.
	SelectorTemplatesPerPage = 100
)

func pageQuery(page, perPage int) url.Values {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

// ListTemplates lista plantillas; search filtra por nombre (vacío = todas).
func (c *Client) ListTemplates(ctx context.Context, page, perPage int, search string) (*TemplateList, error) {
	if perPage <= 0 {
		perPage = DefaultTemplatesPerPage
	}
	q := pageQuery(page, perPage)
	q.Set("search", search)

	var out TemplateList
	if err := c.Request(ctx, http.MethodGet, "/template/?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTemplate(ctx context.Context, id int64) (*Template, error) {
	var out Template
	if err := c.Request(ctx, http.MethodGet, templatePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTemplate(ctx context.Context, in TemplateInput) (*TemplateCreated, error) {
	var out TemplateCreated
	if err := c.Request(ctx, http.MethodPost, "/template/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, id int64, in TemplateInput) (*MessageResult, error) {
	var out MessageResult
	if err := c.Request(ctx, http.MethodPut, templatePath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id int64) (*MessageResult, error) {
	var out MessageResult
	if err := c.Request(ctx, http.MethodDelete, templatePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func templatePath(id int64) string {
	return "/template/" + strconv.FormatInt(id, 10)
}
