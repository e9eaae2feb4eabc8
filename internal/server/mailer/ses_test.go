package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

type fakeSES struct {
	calls   int
	failFor int // fail this many calls before succeeding
	lastIn  *sesv2.SendEmailInput
}

func (f *fakeSES) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.calls++
	f.lastIn = in
	if f.calls <= f.failFor {
		return nil, errors.New("throttled")
	}
	return &sesv2.SendEmailOutput{}, nil
}

func TestSendRecoveryCode_IncludesCode(t *testing.T) {
	fake := &fakeSES{}
	m := &SESMailer{client: fake, sender: "noreply@gamix.app"}

	if err := m.SendRecoveryCode(context.Background(), "a@b.c", "AB12CD"); err != nil {
		t.Fatalf("SendRecoveryCode error: %v", err)
	}
	if fake.lastIn == nil {
		t.Fatalf("SendEmail not called")
	}
	if got := fake.lastIn.Destination.ToAddresses; len(got) != 1 || got[0] != "a@b.c" {
		t.Fatalf("recipient mismatch: %v", got)
	}
	body := *fake.lastIn.Content.Simple.Body.Text.Data
	if want := "AB12CD"; !strings.Contains(body, want) {
		t.Fatalf("body %q does not contain code %q", body, want)
	}
}

func TestSend_RetriesTransientFailures(t *testing.T) {
	fake := &fakeSES{failFor: 2}
	m := &SESMailer{client: fake, sender: "noreply@gamix.app"}

	if err := m.SendWelcome(context.Background(), "a@b.c"); err != nil {
		t.Fatalf("SendWelcome error after retries: %v", err)
	}
	if fake.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fake.calls)
	}
}

func TestSend_GivesUpAfterMaxRetries(t *testing.T) {
	fake := &fakeSES{failFor: 10}
	m := &SESMailer{client: fake, sender: "noreply@gamix.app"}

	if err := m.SendWelcome(context.Background(), "a@b.c"); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if fake.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fake.calls)
	}
}
