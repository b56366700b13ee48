package settings

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	MonthlyBudget float64 `json:"monthlyBudget"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s, err := h.service.Get(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SettingsDTO{MonthlyBudget: s.MonthlyBudget}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log.Debug("Saving settings")
	w.Header().Set("Content-Type", "application/json")

	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.MonthlyBudget <= 0 {
		http.Error(w, "monthlyBudget must be positive", http.StatusBadRequest)
		return
	}

	if err := h.service.Save(r.Context(), Settings{MonthlyBudget: dto.MonthlyBudget}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
