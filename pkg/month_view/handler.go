package month_view

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/expensio/expensio/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type MonthViewDTO struct {
	Year   int                  `json:"year"`
	Month  int                  `json:"month"`
	Budget float64              `json:"budget"`
	Total  float64              `json:"total"`
	Items  []expense.ExpenseDTO `json:"items"`
}

type SetMonthDTO struct {
	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"`
	Shift *int `json:"shift,omitempty"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	view := h.service.Current()
	items := view.Items
	if category := r.URL.Query().Get("category"); category != "" {
		items = h.service.ItemsByCategory(category)
	}

	dto := MonthViewDTO{
		Year:   view.Month.Year,
		Month:  int(view.Month.Month),
		Budget: view.Budget,
		Total:  view.Total,
		Items:  make([]expense.ExpenseDTO, 0, len(items)),
	}
	for _, item := range items {
		dto.Items = append(dto.Items, expense.ExpenseToDTO(item))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// SetMonth selects a month either absolutely ({year, month}) or relatively
// ({shift}).
func (h *Handler) SetMonth(w http.ResponseWriter, r *http.Request) {
	log.Debug("Changing displayed month")
	w.Header().Set("Content-Type", "application/json")

	var dto SetMonthDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var month expense.Month
	switch {
	case dto.Shift != nil:
		var err error
		month, err = h.service.ShiftMonth(r.Context(), *dto.Shift)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	case dto.Year != nil && dto.Month != nil:
		if *dto.Month < 1 || *dto.Month > 12 {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}
		month = expense.Month{Year: *dto.Year, Month: time.Month(*dto.Month)}
		if err := h.service.SetMonth(r.Context(), month); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	default:
		http.Error(w, "either shift or year and month are required", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]int{
		"year":  month.Year,
		"month": int(month.Month),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
