package handlers

import (
	"net/http"
	"strings"

	"crimedesk/core/store"
	"crimedesk/core/utils"
)

type CrimeTypesHandler struct {
	crimeTypes store.CrimeTypesStore
	logger     *utils.Logger
}

func NewCrimeTypesHandler(crimeTypes store.CrimeTypesStore, logger *utils.Logger) *CrimeTypesHandler {
	return &CrimeTypesHandler{crimeTypes: crimeTypes, logger: logger}
}

func (h *CrimeTypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.crimeTypes.ListCrimeTypes(r.Context())
	if err != nil {
		h.logger.Errorf("list crime types: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if types == nil {
		types = []store.CrimeType{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Crime types fetched successfully",
		"crime_types": types,
	})
}

type createCrimeTypeRequest struct {
	Heading string `json:"heading"`
	Type    string `json:"type"`
}

func (h *CrimeTypesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCrimeTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, errBadRequest, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Heading) == "" || strings.TrimSpace(req.Type) == "" {
		http.Error(w, "heading and type are required", http.StatusBadRequest)
		return
	}
	ct := &store.CrimeType{Heading: req.Heading, Type: req.Type}
	if _, err := h.crimeTypes.CreateCrimeType(r.Context(), ct); err != nil {
		h.logger.Errorf("create crime type: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Crime type created successfully",
		"crime_type": ct,
	})
}
