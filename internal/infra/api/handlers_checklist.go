package api

import (
	"encoding/json"
	"net/http"
	"time"

	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/usecase"
)

type checklistItemRequest struct {
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Required bool   `json:"required"`
}

type checklistCreateRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Language    string                 `json:"language"`
	Items       []checklistItemRequest `json:"items"`
}

type checklistItemResponse struct {
	ID       int64  `json:"id"`
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Required bool   `json:"required"`
	Position int    `json:"position"`
}

type checklistResponse struct {
	ID               int64                   `json:"id"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	Language         string                  `json:"language"`
	IsTemplate       bool                    `json:"is_template"`
	TemplateCategory string                  `json:"template_category,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	Items            []checklistItemResponse `json:"items,omitempty"`
}

func toChecklistResponse(c *model.Checklist, items []*model.ChecklistItem) checklistResponse {
	resp := checklistResponse{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		Language:         c.Language,
		IsTemplate:       c.IsTemplate,
		TemplateCategory: c.TemplateCategory,
		CreatedAt:        c.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, checklistItemResponse{
			ID:       it.ID,
			Kind:     string(it.Kind),
			Text:     it.Text,
			Required: it.Required,
			Position: it.Position,
		})
	}
	return resp
}

func (s *Server) handleChecklistCreate(w http.ResponseWriter, r *http.Request) {
	var req checklistCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	items := make([]usecase.NewItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.NewItem{
			Kind:     model.ChecklistItemKind(it.Kind),
			Text:     it.Text,
			Required: it.Required,
		})
	}
	created, err := s.checklistUC.Create(r.Context(), currentUserID(r.Context()),
		req.Name, req.Description, req.Language, items)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChecklistResponse(created.Checklist, created.Items))
}

func (s *Server) handleChecklistList(w http.ResponseWriter, r *http.Request) {
	lists, err := s.checklistUC.List(r.Context(), currentUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]checklistResponse, 0, len(lists))
	for _, c := range lists {
		out = append(out, toChecklistResponse(c, nil))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChecklistTemplates(w http.ResponseWriter, r *http.Request) {
	lists, err := s.checklistUC.ListTemplates(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]checklistResponse, 0, len(lists))
	for _, c := range lists {
		out = append(out, toChecklistResponse(c, nil))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChecklistGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	cl, err := s.checklistUC.Get(r.Context(), currentUserID(r.Context()), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChecklistResponse(cl.Checklist, cl.Items))
}

func (s *Server) handleChecklistUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cl, err := s.checklistUC.Update(r.Context(), currentUserID(r.Context()), id, req.Name, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChecklistResponse(cl, nil))
}

func (s *Server) handleChecklistDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.checklistUC.Delete(r.Context(), currentUserID(r.Context()), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChecklistAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req checklistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, err := s.checklistUC.AddItem(r.Context(), currentUserID(r.Context()), id, usecase.NewItem{
		Kind:     model.ChecklistItemKind(req.Kind),
		Text:     req.Text,
		Required: req.Required,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checklistItemResponse{
		ID:       item.ID,
		Kind:     string(item.Kind),
		Text:     item.Text,
		Required: item.Required,
		Position: item.Position,
	})
}
