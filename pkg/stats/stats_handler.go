package stats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/expensio/expensio/pkg/expense"
)

type CategoryTotalDTO struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type BreakdownDTO struct {
	Year       int                `json:"year"`
	Month      int                `json:"month"`
	Total      float64            `json:"total"`
	ByCategory []CategoryTotalDTO `json:"byCategory"`
}

type TrendPointDTO struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Total      float64 `json:"total"`
	Budget     float64 `json:"budget"`
	OverBudget bool    `json:"overBudget"`
}

type Handler struct {
	service  Service
	expenses expense.Service
	loc      *time.Location
}

func NewHandler(service Service, expenses expense.Service, loc *time.Location) *Handler {
	return &Handler{service: service, expenses: expenses, loc: loc}
}

func (h *Handler) GetCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromQuery(w, r)
	if !ok {
		return
	}

	breakdown, err := h.service.CategoryBreakdown(r.Context(), month, h.loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := BreakdownDTO{
		Year:       breakdown.Month.Year,
		Month:      int(breakdown.Month.Month),
		Total:      breakdown.Total,
		ByCategory: make([]CategoryTotalDTO, 0, len(breakdown.ByCategory)),
	}
	for _, ct := range breakdown.ByCategory {
		dto.ByCategory = append(dto.ByCategory, CategoryTotalDTO{Category: ct.Category, Total: ct.Total})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromQuery(w, r)
	if !ok {
		return
	}

	months := TrendMonths
	if monthsString := r.URL.Query().Get("months"); monthsString != "" {
		parsed, err := strconv.Atoi(monthsString)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid months: "+monthsString, http.StatusBadRequest)
			return
		}
		months = parsed
	}

	points, err := h.service.MonthlyTrend(r.Context(), month, months, h.loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TrendPointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, TrendPointDTO{
			Year:       p.Month.Year,
			Month:      int(p.Month.Month),
			Total:      p.Total,
			Budget:     p.Budget,
			OverBudget: p.OverBudget,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetMonthlyTotal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromQuery(w, r)
	if !ok {
		return
	}

	total, err := h.expenses.MonthlyTotal(r.Context(), month, h.loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]float64{"total": total}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func monthFromQuery(w http.ResponseWriter, r *http.Request) (expense.Month, bool) {
	yearString := r.URL.Query().Get("year")
	monthString := r.URL.Query().Get("month")

	year, err := strconv.Atoi(yearString)
	if err != nil {
		http.Error(w, "invalid year: "+yearString, http.StatusBadRequest)
		return expense.Month{}, false
	}
	monthNumber, err := strconv.Atoi(monthString)
	if err != nil || monthNumber < 1 || monthNumber > 12 {
		http.Error(w, "invalid month: "+monthString, http.StatusBadRequest)
		return expense.Month{}, false
	}

	return expense.Month{Year: year, Month: time.Month(monthNumber)}, true
}
