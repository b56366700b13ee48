package expense

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// occurredAtLayout is a zone-naive local date-time; the zone is implied by the
// application configuration.
const occurredAtLayout = "2006-01-02T15:04:05"

type ExpenseDTO struct {
	ID         string  `json:"id,omitempty"`
	Title      string  `json:"title"`
	Amount     float64 `json:"amount"`
	Category   string  `json:"category"`
	OccurredAt string  `json:"occurredAt,omitempty"`
}

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

// List loads the requested month into the cache and returns it.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromQuery(w, r)
	if !ok {
		return
	}

	items, err := h.service.LoadMonth(r.Context(), month, h.loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ExpenseDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ExpenseToDTO(item))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recording new expense")
	w.Header().Set("Content-Type", "application/json")

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := validateForm(dto); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	e, err := h.dtoToExpense(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().In(h.loc)
	}

	if err := h.service.Add(r.Context(), e); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID != "" && dto.ID != id {
		http.Error(w, "Invalid expense id in request body", http.StatusBadRequest)
		return
	}
	dto.ID = id
	if msg := validateForm(dto); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if dto.OccurredAt == "" {
		http.Error(w, "occurredAt is required", http.StatusBadRequest)
		return
	}

	e, err := h.dtoToExpense(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Update(r.Context(), e); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Deleting an absent id is a no-op, indistinguishable from success.
	w.WriteHeader(http.StatusNoContent)
}

// validateForm mirrors the entry-form checks; the core below this layer
// persists whatever it is handed.
func validateForm(dto ExpenseDTO) string {
	if strings.TrimSpace(dto.Title) == "" {
		return "title must not be empty"
	}
	if dto.Amount <= 0 {
		return "amount must be positive"
	}
	if !IsKnownCategory(dto.Category) {
		return "unknown category: " + dto.Category
	}
	return ""
}

func (h *Handler) dtoToExpense(dto ExpenseDTO) (Expense, error) {
	var occurredAt time.Time
	if dto.OccurredAt != "" {
		var err error
		occurredAt, err = time.ParseInLocation(occurredAtLayout, dto.OccurredAt, h.loc)
		if err != nil {
			// The form's date picker submits a bare date.
			occurredAt, err = time.ParseInLocation("2006-01-02", dto.OccurredAt, h.loc)
			if err != nil {
				return Expense{}, err
			}
		}
	}
	return Expense{
		ID:         dto.ID,
		Title:      strings.TrimSpace(dto.Title),
		Amount:     dto.Amount,
		Category:   dto.Category,
		OccurredAt: occurredAt,
	}, nil
}

func ExpenseToDTO(e Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:         e.ID,
		Title:      e.Title,
		Amount:     e.Amount,
		Category:   e.Category,
		OccurredAt: e.OccurredAt.Format(occurredAtLayout),
	}
}

// monthFromQuery parses the mandatory year and month query parameters.
func monthFromQuery(w http.ResponseWriter, r *http.Request) (Month, bool) {
	yearString := r.URL.Query().Get("year")
	monthString := r.URL.Query().Get("month")

	year, err := strconv.Atoi(yearString)
	if err != nil {
		http.Error(w, "invalid year: "+yearString, http.StatusBadRequest)
		return Month{}, false
	}
	monthNumber, err := strconv.Atoi(monthString)
	if err != nil || monthNumber < 1 || monthNumber > 12 {
		http.Error(w, "invalid month: "+monthString, http.StatusBadRequest)
		return Month{}, false
	}

	return Month{Year: year, Month: time.Month(monthNumber)}, true
}
