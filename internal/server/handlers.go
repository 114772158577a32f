package server

import (
	"net/http"
	"ootp-toolkit/internal/constants"
	"ootp-toolkit/internal/domain"
	"ootp-toolkit/internal/service"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ootp-toolkit",
	})
}

func (s *Server) listSystems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"systems": s.scoring.Systems()})
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var req service.ScoreRequest
	if err := decodeJSON(w, r, constants.MaxJSONBody, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	res, err := s.scoring.Score(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// scoreCSV takes the raw CSV as the body; system, row_type and derive come
// from the query string.
func (s *Server) scoreCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	derive, _ := strconv.ParseBool(q.Get("derive"))
	body := http.MaxBytesReader(w, r.Body, int64(s.cfg.CSVMaxBytes))

	res, err := s.scoring.ScoreCSV(r.Context(), q.Get("system"), q.Get("row_type"), derive, body)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) fetchCSV(w http.ResponseWriter, r *http.Request) {
	var req service.FetchRequest
	if err := decodeJSON(w, r, constants.MaxTextBody, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	res, err := s.scoring.Fetch(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) addMetric(w http.ResponseWriter, r *http.Request) {
	var req service.MetricRequest
	if err := decodeJSON(w, r, constants.MaxJSONBody, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	table, err := s.scoring.AddMetric(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, table)
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	var req service.ScoreRequest
	if err := decodeJSON(w, r, constants.MaxJSONBody, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	b, err := s.scoring.ExportXLSX(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="rankings.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (s *Server) playerSummary(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, constants.MaxTextBody, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.summaries.Player(r.Context(), req.Text))
}

func (s *Server) teamSummary(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, constants.MaxTextBody, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.summaries.Team(r.Context(), req.Text))
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGameRequest
	if err := decodeJSON(w, r, constants.MaxJSONBody, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	game, err := s.games.Create(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, game)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.Get(chi.URLParam(r, "id"), r.URL.Query().Get("position"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func (s *Server) pick(w http.ResponseWriter, r *http.Request) {
	index, ok := rosterIndex(w, r)
	if !ok {
		return
	}
	game, err := s.games.Pick(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func (s *Server) drop(w http.ResponseWriter, r *http.Request) {
	index, ok := rosterIndex(w, r)
	if !ok {
		return
	}
	game, err := s.games.Drop(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func rosterIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "roster index must be an integer")
		return 0, false
	}
	return index, true
}

func (s *Server) lock(w http.ResponseWriter, r *http.Request) {
	res, err := s.games.Lock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) streak(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.Streak(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// streakPick takes the picked player's stat row as the body.
func (s *Server) streakPick(w http.ResponseWriter, r *http.Request) {
	var row domain.StatRow
	if err := decodeJSON(w, r, constants.MaxTextBody, &row); err != nil {
		respondErr(w, r, err)
		return
	}

	res, err := s.games.StreakPick(r.Context(), row)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
