package api

import (
	"encoding/json"
	"net/http"
	"time"

	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/usecase"
)

type analysisCreateRequest struct {
	Name        string  `json:"name"`
	AIModel     string  `json:"ai_model"`
	ChecklistID int64   `json:"checklist_id"`
	DocumentIDs []int64 `json:"document_ids"`
}

type analysisResponse struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	AIModel        string     `json:"ai_model"`
	Progress       int        `json:"progress"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	ProcessingTime float64    `json:"processing_time"`
	ChecklistID    int64      `json:"checklist_id"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

type analysisResultResponse struct {
	ID              int64   `json:"id"`
	ChecklistItemID int64   `json:"checklist_item_id"`
	ItemText        string  `json:"item_text"`
	ItemKind        string  `json:"item_kind"`
	DocumentID      int64   `json:"document_id"`
	DocumentName    string  `json:"document_name"`
	Answer          string  `json:"answer"`
	ConditionResult *bool   `json:"condition_result"`
	ConfidenceScore float64 `json:"confidence_score"`
	Evidence        string  `json:"evidence"`
	PageReferences  []int   `json:"page_references"`
}

type analysisDetailResponse struct {
	analysisResponse
	Results []analysisResultResponse `json:"results"`
}

func toAnalysisResponse(a *model.Analysis) analysisResponse {
	return analysisResponse{
		ID:             a.ID,
		Name:           a.Name,
		Status:         string(a.Status),
		AIModel:        a.AIModel,
		Progress:       a.Progress,
		ErrorMessage:   a.ErrorMessage,
		ProcessingTime: a.ProcessingTime,
		ChecklistID:    a.ChecklistID,
		CreatedAt:      a.CreatedAt,
		CompletedAt:    a.CompletedAt,
	}
}

func toAnalysisDetailResponse(d *usecase.AnalysisDetail) analysisDetailResponse {
	resp := analysisDetailResponse{
		analysisResponse: toAnalysisResponse(d.Analysis),
		Results:          make([]analysisResultResponse, 0, len(d.Results)),
	}
	for _, v := range d.Results {
		r := v.Result
		pages := r.PageReferences
		if pages == nil {
			pages = []int{}
		}
		resp.Results = append(resp.Results, analysisResultResponse{
			ID:              r.ID,
			ChecklistItemID: r.ChecklistItemID,
			ItemText:        v.ItemText,
			ItemKind:        string(v.ItemKind),
			DocumentID:      r.DocumentID,
			DocumentName:    r.DocumentName,
			Answer:          r.Answer,
			ConditionResult: r.ConditionResult,
			ConfidenceScore: r.ConfidenceScore,
			Evidence:        r.Evidence,
			PageReferences:  pages,
		})
	}
	return resp
}

func (s *Server) handleAnalysisCreate(w http.ResponseWriter, r *http.Request) {
	var req analysisCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	analysis, err := s.analysisUC.Create(r.Context(), currentUserID(r.Context()),
		req.Name, req.AIModel, req.ChecklistID, req.DocumentIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAnalysisResponse(analysis))
}

func (s *Server) handleAnalysisList(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.analysisUC.List(r.Context(), currentUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]analysisResponse, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, toAnalysisResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalysisGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	detail, err := s.analysisUC.Get(r.Context(), currentUserID(r.Context()), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysisDetailResponse(detail))
}

func (s *Server) handleAnalysisDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.analysisUC.Delete(r.Context(), currentUserID(r.Context()), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	pending, processing := s.analysisUC.QueueDepth()
	writeJSON(w, http.StatusOK, map[string]int{
		"pending":    pending,
		"processing": processing,
	})
}
