package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/Drcollinjc/claude-skills/pkg/history"
)

type selectRequest struct {
	Description string `json:"description"`
}

type commandRequest struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

type composeRequest struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

type selectionResponse struct {
	Skills []string `json:"skills"`
}

type composeResponse struct {
	Document  string   `json:"document"`
	Included  []string `json:"included"`
	Truncated []string `json:"truncated,omitempty"`
	Missing   []string `json:"missing,omitempty"`
}

type skillSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type skillDetail struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	selection := s.ruleset.Select(req.Description)
	s.recordHistory(r.Context(), history.KindTask, "", req.Description, selection)

	writeJSON(w, http.StatusOK, selectionResponse{Skills: selection})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}

	selection := s.ruleset.SelectForCommand(req.Command, req.Description)
	s.recordHistory(r.Context(), history.KindCommand, req.Command, req.Description, selection)

	writeJSON(w, http.StatusOK, selectionResponse{Skills: selection})
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var selection []string
	if req.Command != "" {
		selection = s.ruleset.SelectForCommand(req.Command, req.Description)
	} else {
		selection = s.ruleset.Select(req.Description)
	}

	// Missing skills degrade the composition but do not fail the request;
	// the response carries what could not be resolved.
	result, err := s.composer.Compose(r.Context(), selection)
	if result == nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, composeResponse{
		Document:  result.Document,
		Included:  result.Included,
		Truncated: result.Truncated,
		Missing:   result.Missing,
	})
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	available, err := s.snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make([]skillSummary, 0, len(available))
	for _, skill := range available {
		summaries = append(summaries, skillSummary{Name: skill.Name, Description: skill.Description})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["category"] + "/" + vars["name"]

	available, err := s.snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	skill, ok := available[name]
	if !ok {
		writeError(w, http.StatusNotFound, "skill not found: "+name)
		return
	}

	writeJSON(w, http.StatusOK, skillDetail{
		Name:        skill.Name,
		Category:    skill.Category,
		Description: skill.Description,
		Content:     skill.Content,
	})
}
