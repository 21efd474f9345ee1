package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chatagent/chatagent-go/internal/model"
	"github.com/chatagent/chatagent-go/internal/responder"
	"github.com/chatagent/chatagent-go/internal/service"
	"go.uber.org/zap"
)

type fakeForwarder struct {
	result  *model.WebhookResult
	err     error
	payload model.WebhookPayload
	calls   int
}

func (f *fakeForwarder) Forward(_ context.Context, payload model.WebhookPayload) (*model.WebhookResult, error) {
	f.calls++
	f.payload = payload
	return f.result, f.err
}

func newDispatcher(fwd service.Forwarder) *service.Dispatcher {
	cfg := service.DispatcherConfig{
		Responder: responder.New(zap.NewNop()),
		UserID:    "mock_user_id",
		Now:       func() time.Time { return time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC) },
		NewID:     func() string { return "session-1" },
	}
	if fwd != nil {
		cfg.Forwarder = fwd
	}
	return service.NewDispatcher(cfg, zap.NewNop())
}

func TestHandleRejectsEmptyMessage(t *testing.T) {
	d := newDispatcher(nil)
	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := d.Handle(context.Background(), msg); !errors.Is(err, model.ErrInvalidRequest) {
			t.Fatalf("Handle(%q) err = %v, want ErrInvalidRequest", msg, err)
		}
	}
}

func TestHandleWithoutWebhook(t *testing.T) {
	d := newDispatcher(nil)
	if d.WebhookConfigured() {
		t.Fatal("expected webhook not configured")
	}

	resp, err := d.Handle(context.Background(), "  hello there  ")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if resp.Status != model.StatusSuccess || resp.BotResponse != responder.GreetingReply {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Note != "" {
		t.Fatalf("unexpected note: %q", resp.Note)
	}
}

func TestHandleForwardsPayload(t *testing.T) {
	fwd := &fakeForwarder{result: &model.WebhookResult{Status: "success", Message: "Email drafted"}}
	d := newDispatcher(fwd)

	resp, err := d.Handle(context.Background(), " send email to alice@example.com ")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if resp.BotResponse != "Email drafted" || resp.Status != "success" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	want := model.WebhookPayload{
		UserPrompt: "send email to alice@example.com",
		Timestamp:  "2024-01-01T10:30:00Z",
		SessionID:  "session-1",
		UserID:     "mock_user_id",
		Text:       "send email to alice@example.com",
	}
	if fwd.calls != 1 || fwd.payload != want {
		t.Fatalf("unexpected payload: calls=%d %+v", fwd.calls, fwd.payload)
	}
}

func TestHandleWorkflowIssue(t *testing.T) {
	fwd := &fakeForwarder{result: &model.WebhookResult{Status: "error", Message: "SMTP down"}}
	d := newDispatcher(fwd)

	resp, err := d.Handle(context.Background(), "send email")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if resp.BotResponse != "Workflow issue: SMTP down" || resp.Status != "error" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleTimeoutFallback(t *testing.T) {
	fwd := &fakeForwarder{err: fmt.Errorf("%w: deadline", model.ErrUpstreamTimeout)}
	d := newDispatcher(fwd)

	resp, err := d.Handle(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if resp.Status != model.StatusSuccess {
		t.Fatalf("unexpected status: %s", resp.Status)
	}
	if resp.BotResponse != responder.GreetingReply+" (n8n timeout, using fallback)" {
		t.Fatalf("unexpected response: %q", resp.BotResponse)
	}
	if resp.Note != "" {
		t.Fatalf("unexpected note: %q", resp.Note)
	}
}

func TestHandleFailureFallback(t *testing.T) {
	fwd := &fakeForwarder{err: fmt.Errorf("%w: connection refused", model.ErrUpstreamFailure)}
	d := newDispatcher(fwd)

	resp, err := d.Handle(context.Background(), "xyzzy plugh")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if resp.Status != model.StatusSuccess {
		t.Fatalf("unexpected status: %s", resp.Status)
	}
	if !strings.Contains(resp.BotResponse, "xyzzy plugh") {
		t.Fatalf("expected echo fallback, got %q", resp.BotResponse)
	}
	if resp.Note != "n8n unavailable, using fallback" {
		t.Fatalf("unexpected note: %q", resp.Note)
	}
}

func TestHandleUnexpectedErrorFallsBack(t *testing.T) {
	fwd := &fakeForwarder{err: errors.New("something odd")}
	d := newDispatcher(fwd)

	resp, err := d.Handle(context.Background(), "thanks")
	if err != nil {
		t.Fatalf("Handle err: %v", err)
	}
	if resp.Status != model.StatusSuccess || resp.BotResponse != responder.ThanksReply {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleFreshSessionIDs(t *testing.T) {
	fwd := &fakeForwarder{result: &model.WebhookResult{Status: "success", Message: "ok"}}
	d := service.NewDispatcher(service.DispatcherConfig{
		Forwarder: fwd,
		Responder: responder.New(zap.NewNop()),
		UserID:    "mock_user_id",
	}, zap.NewNop())

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		if _, err := d.Handle(context.Background(), "ping"); err != nil {
			t.Fatalf("Handle err: %v", err)
		}
		if fwd.payload.SessionID == "" || seen[fwd.payload.SessionID] {
			t.Fatalf("session id not fresh: %q", fwd.payload.SessionID)
		}
		seen[fwd.payload.SessionID] = true
		if _, err := time.Parse(time.RFC3339Nano, fwd.payload.Timestamp); err != nil {
			t.Fatalf("timestamp not ISO-8601: %q", fwd.payload.Timestamp)
		}
	}
}
