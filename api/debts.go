package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	debtDomain "github.com/MEERAN2314/socialtab/debt"
	"github.com/MEERAN2314/socialtab/service"
)

type createDebtRequest struct {
	DebtorUsername string                   `json:"debtor_username"`
	Amount         float64                  `json:"amount"`
	Description    string                   `json:"description"`
	DebtType       string                   `json:"debt_type"`
	SplitPolicy    string                   `json:"split_policy"`
	Participants   []debtDomain.Participant `json:"participants"`
}

type debtActionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req createDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", service.ErrInvalidArgument))
		return
	}

	d, err := s.debts.CreateDebt(r.Context(), currentUsername(r), service.CreateDebtRequest{
		DebtorUsername: req.DebtorUsername,
		Amount:         req.Amount,
		Description:    req.Description,
		Type:           debtDomain.Type(req.DebtType),
		SplitPolicy:    debtDomain.SplitPolicy(req.SplitPolicy),
		Participants:   req.Participants,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Debt created successfully",
		"debt_id": d.ID,
		"status":  "pending_acceptance",
	})
}

func (s *Server) handleMyDebts(w http.ResponseWriter, r *http.Request) {
	list, err := s.debts.ListForUser(r.Context(), currentUsername(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"owed_to_me":       serializeDebts(list.OwedToMe),
		"i_owe":            serializeDebts(list.IOwe),
		"total_owed_to_me": list.TotalOwedToMe,
		"total_i_owe":      list.TotalIOwe,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.debts.ListHistory(r.Context(), currentUsername(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": serializeDebts(history),
	})
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	d, err := s.debts.GetDebt(r.Context(), mux.Vars(r)["id"], currentUsername(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, serializeDebt(d))
}

func (s *Server) handleDebtAction(w http.ResponseWriter, r *http.Request) {
	var req debtActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", service.ErrInvalidArgument))
		return
	}

	kind, err := debtDomain.ParseAction(req.Action)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %s", service.ErrInvalidArgument, err.Error()))
		return
	}

	d, err := s.debts.DebtAction(r.Context(), mux.Vars(r)["id"], currentUsername(r), debtDomain.Action{Kind: kind, Reason: req.Reason})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Debt %s successful", kind),
		"status":  string(d.Status),
	})
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.debts.DeleteDebt(r.Context(), mux.Vars(r)["id"], currentUsername(r)); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Debt deleted successfully"})
}
