package handlers

import (
	"net/http"

	"github.com/movipadel/tornei-app/services"
)

type RunHandler struct {
	runService services.RunService
}

func NewRunHandler(rs services.RunService) *RunHandler {
	return &RunHandler{runService: rs}
}

// StartHandler handles POST /tournaments/{tournamentID}/run.
func (h *RunHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StartRunInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.runService.StartRun(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"run": detail}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler handles GET /tournaments/{tournamentID}/run.
func (h *RunHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.runService.GetRunDetail(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"run": detail}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// BuildBracketHandler handles POST /tournaments/{tournamentID}/run/bracket:
// closing the group stage and drawing the elimination bracket from the
// group standings.
func (h *RunHandler) BuildBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.runService.BuildBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"run": detail}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetHandler handles DELETE /tournaments/{tournamentID}/run. The whole
// run and everything hanging off it is discarded; registrations survive.
func (h *RunHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.runService.ResetRun(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
