package api

import (
	"time"

	debtDomain "github.com/MEERAN2314/socialtab/debt"
	notificationDomain "github.com/MEERAN2314/socialtab/notification"
	userDomain "github.com/MEERAN2314/socialtab/user"
)

// Wire documents: identifiers as strings, timestamps as RFC 3339, nested
// participants recursed, nil input produces an empty document. The PIN
// hash never leaves the server.

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func serializeUser(u *userDomain.User) map[string]interface{} {
	if u == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"full_name":   u.FullName,
		"total_owed":  u.TotalOwed,
		"total_owing": u.TotalOwing,
		"created_at":  timestamp(u.CreatedAt),
	}
}

func serializeParticipant(p debtDomain.Participant) map[string]interface{} {
	return map[string]interface{}{
		"username": p.Username,
		"amount":   p.Amount,
		"accepted": p.Accepted,
	}
}

func serializeDebt(d *debtDomain.Debt) map[string]interface{} {
	if d == nil {
		return map[string]interface{}{}
	}

	doc := map[string]interface{}{
		"id":                d.ID,
		"creditor_username": d.CreditorUsername,
		"creditor_id":       d.CreditorID,
		"debtor_username":   d.DebtorUsername,
		"debtor_id":         d.DebtorID,
		"amount":            d.Amount,
		"description":       d.Description,
		"status":            string(d.Status),
		"debt_type":         string(d.Type),
		"created_at":        timestamp(d.CreatedAt),
		"updated_at":        timestamp(d.UpdatedAt),
	}
	if d.PaidAt != nil {
		doc["paid_at"] = timestamp(*d.PaidAt)
	} else {
		doc["paid_at"] = nil
	}
	if d.DisputeReason != "" {
		doc["dispute_reason"] = d.DisputeReason
	}
	if len(d.Participants) > 0 {
		participants := make([]map[string]interface{}, len(d.Participants))
		for i, p := range d.Participants {
			participants[i] = serializeParticipant(p)
		}
		doc["split_policy"] = string(d.SplitPolicy)
		doc["participants"] = participants
	}
	return doc
}

func serializeDebts(debts []*debtDomain.Debt) []map[string]interface{} {
	docs := make([]map[string]interface{}, len(debts))
	for i, d := range debts {
		docs[i] = serializeDebt(d)
	}
	return docs
}

func serializeNotification(n *notificationDomain.Notification) map[string]interface{} {
	if n == nil {
		return map[string]interface{}{}
	}
	doc := map[string]interface{}{
		"id":                n.ID,
		"user_username":     n.UserUsername,
		"notification_type": string(n.Type),
		"title":             n.Title,
		"message":           n.Message,
		"read":              n.Read,
		"created_at":        timestamp(n.CreatedAt),
	}
	if n.DebtID != "" {
		doc["debt_id"] = n.DebtID
	}
	if n.ActionURL != "" {
		doc["action_url"] = n.ActionURL
	}
	return doc
}

func serializeNotifications(notifications []*notificationDomain.Notification) []map[string]interface{} {
	docs := make([]map[string]interface{}, len(notifications))
	for i, n := range notifications {
		docs[i] = serializeNotification(n)
	}
	return docs
}
