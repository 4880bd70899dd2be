package devbackend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/audit"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
	"github.com/dropDatabas3/quicknotify/internal/validation"
)

// templateUpdate: nil = el campo no vino y se conserva.
type templateUpdate struct {
	Name    *string `json:"name"`
	Subject *string `json:"subject"`
	Content *string `json:"content"`
}

func toAPITemplate(t template, withContent bool) api.Template {
	out := api.Template{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		Variables: t.Variables,
		CreatedAt: api.Timestamp{Time: t.CreatedAt},
		UpdatedAt: api.Timestamp{Time: t.UpdatedAt},
		LastUsed:  api.Timestamp{Time: t.LastUsed},
	}
	if out.Variables == nil {
		out.Variables = []string{}
	}
	if withContent {
		out.Content = t.Content
	}
	return out
}

// pathID lee {id}; si no es entero responde 404 como una ruta inexistente.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", api.DefaultTemplatesPerPage)
	items, total := s.store.listTemplates(r.URL.Query().Get("search"), page, perPage)

	out := api.TemplateList{Templates: make([]api.Template, 0, len(items)), Total: total, Page: page, PerPage: perPage}
	for _, t := range items {
		out.Templates = append(out.Templates, toAPITemplate(t, false))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.store.template(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	writeJSON(w, http.StatusOK, toAPITemplate(t, true))
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var in api.TemplateInput
	if !readJSON(w, r, &in) {
		return
	}
	if in.Name == "" || in.Subject == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "Name, subject, and content required")
		return
	}
	now := s.now().UTC()
	id, err := s.store.createTemplate(template{
		Name:      in.Name,
		Subject:   in.Subject,
		Content:   in.Content,
		Variables: validation.ExtractVariables(in.Subject, in.Content),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, errDuplicate) {
		writeError(w, http.StatusBadRequest, "Template name already exists")
		return
	}
	logger.From(r.Context()).Info("plantilla creada", logger.TemplateID(id), logger.String("name", in.Name))
	writeJSON(w, http.StatusCreated, api.TemplateCreated{Message: "Template created successfully", ID: id})
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in templateUpdate
	if !readJSON(w, r, &in) {
		return
	}
	now := s.now().UTC()
	err := s.store.updateTemplate(id, func(t *template) {
		if in.Name != nil {
			t.Name = *in.Name
		}
		if in.Subject != nil {
			t.Subject = *in.Subject
		}
		if in.Content != nil {
			t.Content = *in.Content
		}
		t.Variables = validation.ExtractVariables(t.Subject, t.Content)
		t.UpdatedAt = now
	})
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "Template not found")
		return
	case errors.Is(err, errDuplicate):
		writeError(w, http.StatusBadRequest, "Template name already exists")
		return
	}
	logger.From(r.Context()).Info("plantilla actualizada", logger.TemplateID(id))
	writeJSON(w, http.StatusOK, api.MessageResult{Message: "Template updated"})
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	name, err := s.store.deleteTemplate(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	audit.Log(r.Context(), audit.EventTemplateDelete, logger.TemplateID(id), logger.String("name", name))
	writeJSON(w, http.StatusOK, api.MessageResult{Message: "Template deleted"})
}
