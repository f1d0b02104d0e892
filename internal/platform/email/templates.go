package email

import (
	"bytes"
	"text/template"
)

var leaveDecisionTmpl = template.Must(template.New("leave").Parse(
	`Hello {{.Name}},

Your {{.LeaveType}} leave request for {{.Start}} to {{.End}} ({{.Days}} days) was {{.Status}}{{if .Approver}} by {{.Approver}}{{end}}.

Staff Hive
`))

type LeaveDecision struct {
	To        string
	Name      string
	LeaveType string
	Start     string
	End       string
	Days      float64
	Status    string
	Approver  string
}

func LeaveDecisionMessage(d LeaveDecision) (Message, error) {
	var body bytes.Buffer
	if err := leaveDecisionTmpl.Execute(&body, d); err != nil {
		return Message{}, err
	}
	return Message{
		To:      d.To,
		Subject: "Leave request " + d.Status,
		Body:    body.String(),
	}, nil
}
