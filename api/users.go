package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Profile(r.Context(), currentUsername(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, serializeUser(u))
}

func (s *Server) handleSearchUser(w http.ResponseWriter, r *http.Request) {
	result, err := s.users.SearchUser(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !result.Exists {
		body := map[string]interface{}{"detail": "User not found"}
		if len(result.Suggestions) > 0 {
			body["suggestions"] = result.Suggestions
		}
		s.writeJSON(w, http.StatusNotFound, body)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"username":  result.Username,
		"full_name": result.FullName,
		"exists":    true,
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.Notifications(r.Context(), currentUsername(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": serializeNotifications(list.Notifications),
		"unread_count":  list.UnreadCount,
	})
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.users.MarkNotificationRead(r.Context(), mux.Vars(r)["id"], currentUsername(r)); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.users.Stats(r.Context(), currentUsername(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_debts_created":  stats.TotalDebtsCreated,
		"total_debts_received": stats.TotalDebtsReceived,
		"active_debts":         stats.ActiveDebts,
		"paid_debts":           stats.PaidDebts,
		"total_owed_to_me":     stats.TotalOwedToMe,
		"total_i_owe":          stats.TotalIOwe,
		"net_balance":          stats.NetBalance,
	})
}
