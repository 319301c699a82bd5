package service

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig"

	notificationDomain "github.com/MEERAN2314/socialtab/notification"
)

// FormatCurrency renders a monetary amount for display.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

const rawMessageTemplates = `
{{- define "debt_request" -}}
{{.Creditor}} says you owe {{currency .Amount}} for {{.Description}}
{{- end -}}
{{- define "debt_accepted" -}}
{{.Actor}} accepted the debt of {{currency .Amount}}
{{- end -}}
{{- define "debt_disputed" -}}
{{.Actor}} disputed the debt. Reason: {{.Reason | default "no reason given"}}
{{- end -}}
{{- define "payment_confirmed" -}}
{{.Actor}} marked {{currency .Amount}} as paid
{{- end -}}
{{- define "reminder" -}}
Reminder: you still owe {{currency .Amount}} to {{.Creditor}} for {{.Description}}
{{- end -}}`

var messageTemplates = template.Must(template.New("notifications").
	Funcs(sprig.TxtFuncMap()).
	Funcs(template.FuncMap{"currency": FormatCurrency}).
	Parse(rawMessageTemplates))

type messageData struct {
	Creditor    string
	Actor       string
	Amount      float64
	Description string
	Reason      string
}

func renderMessage(name string, data messageData) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := messageTemplates.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("render %s message: %w", name, err)
	}
	return buf.String(), nil
}

func (s *Service) emit(ctx context.Context, username string, typ notificationDomain.Type, title, templateName string, data messageData, debtID, actionURL string) error {
	message, err := renderMessage(templateName, data)
	if err != nil {
		return err
	}

	n := notificationDomain.New(username, typ, title, message, debtID, actionURL)
	if err := s.notifier.Notify(ctx, n); err != nil {
		return fmt.Errorf("notify %s: %w", username, err)
	}
	return nil
}
