package email

import (
	"context"
	"strings"
	"testing"

	"staffhive/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"})
	if _, ok := mailer.(noopMailer); !ok {
		t.Fatalf("expected noop mailer, got %T", mailer)
	}
	if err := mailer.Send(context.Background(), Message{To: "a@example.com"}); err != nil {
		t.Fatalf("noop send: %v", err)
	}
}

func TestLeaveDecisionMessage(t *testing.T) {
	msg, err := LeaveDecisionMessage(LeaveDecision{
		To:        "ada@example.com",
		Name:      "Ada",
		LeaveType: "annual",
		Start:     "2024-02-15",
		End:       "2024-02-19",
		Days:      5,
		Status:    "approved",
		Approver:  "hr@example.com",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.Subject != "Leave request approved" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "2024-02-15 to 2024-02-19 (5 days) was approved by hr@example.com") {
		t.Fatalf("unexpected body %q", msg.Body)
	}

	raw := string(buildMessage("no-reply@example.com", msg))
	if !strings.HasPrefix(raw, "From: no-reply@example.com\r\nTo: ada@example.com\r\n") {
		t.Fatalf("unexpected headers %q", raw)
	}
}
