package domain

// PaginationState is the state of an infinite-scroll listing. The controller
// owns it; everybody else gets copies.
type PaginationState struct {
	Products            []Product `json:"products"`
	CurrentPage         int       `json:"currentPage"`
	HasMore             bool      `json:"hasMore"`
	IsLoading           bool      `json:"isLoading"`
	IsPaginationVisible bool      `json:"isPaginationVisible"`
}

// InitialPaginationState is the state before the first page is loaded.
func InitialPaginationState() PaginationState {
	return PaginationState{
		Products: []Product{},
		HasMore:  true,
	}
}

// Clone returns a copy whose Products slice does not alias s.
func (s PaginationState) Clone() PaginationState {
	out := s
	out.Products = make([]Product, len(s.Products))
	copy(out.Products, s.Products)
	return out
}

// ControllerPhase is the coarse state of the pagination controller.
type ControllerPhase int

const (
	PhaseIdle ControllerPhase = iota
	PhaseFetching
	PhaseExhausted
)

func (p ControllerPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Phase derives the controller phase from s. Fetching wins over Exhausted so
// that a manual page load after exhaustion reports as in flight.
func (s PaginationState) Phase() ControllerPhase {
	switch {
	case s.IsLoading:
		return PhaseFetching
	case !s.HasMore:
		return PhaseExhausted
	default:
		return PhaseIdle
	}
}
