package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glucoguide/glucoguide/internal/apperr"
	"github.com/glucoguide/glucoguide/internal/risk"
	"github.com/glucoguide/glucoguide/internal/store"
)

type fakeGenerator struct {
	prompt   string
	response string
	err      error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, structured bool) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestReplyStripsMarkdown(t *testing.T) {
	gen := &fakeGenerator{response: "## Tips\n**Eat** *slowly* and try `oats`.\n* walk daily\n- sleep well"}
	svc := NewService(gen)

	reply, err := svc.Reply(context.Background(), store.Profile{}, nil, "what should I eat")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	for _, banned := range []string{"**", "##", "`"} {
		if strings.Contains(reply, banned) {
			t.Errorf("reply still contains %q: %q", banned, reply)
		}
	}
	if !strings.Contains(reply, "- walk daily") {
		t.Errorf("bullets not normalized: %q", reply)
	}
}

func TestReplyAppendsDisclaimerForMedicalTerms(t *testing.T) {
	svc := NewService(&fakeGenerator{response: "Discuss dosage timing with your care team."})

	reply, err := svc.Reply(context.Background(), store.Profile{}, nil, "Should I change my insulin dose?")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if !strings.Contains(reply, disclaimer) {
		t.Errorf("medical question missing disclaimer: %q", reply)
	}
}

func TestReplyNoDisclaimerForGeneralQuestions(t *testing.T) {
	svc := NewService(&fakeGenerator{response: "Quinoa is a solid low GI choice."})

	reply, err := svc.Reply(context.Background(), store.Profile{}, nil, "Is quinoa a good breakfast?")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if strings.Contains(reply, disclaimer) {
		t.Errorf("general question should not carry the disclaimer: %q", reply)
	}
}

func TestReplyFallbackOnGeneratorError(t *testing.T) {
	svc := NewService(&fakeGenerator{err: errors.New("rate limited")})

	reply, err := svc.Reply(context.Background(), store.Profile{}, nil, "hello")
	if err != nil {
		t.Fatalf("Reply must not surface generator errors, got %v", err)
	}
	if reply != fallbackReply {
		t.Errorf("reply = %q, want the canned fallback", reply)
	}
}

func TestReplyEmptyMessageRejected(t *testing.T) {
	svc := NewService(&fakeGenerator{response: "hi"})

	_, err := svc.Reply(context.Background(), store.Profile{}, nil, "   ")
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}

func TestPromptCarriesProfileAndAssessment(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	svc := NewService(gen)

	profile := store.Profile{DietType: "vegan", Allergies: []string{"soy"}, DiabetesType: "type 2"}
	last := &store.Assessment{Result: risk.Result{Tier: "High", Probability: 0.82}}

	if _, err := svc.Reply(context.Background(), profile, last, "what snacks work for me"); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	for _, want := range []string{"vegan", "soy", "type 2", "High risk", "0.82", "what snacks work for me"} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gen.prompt)
		}
	}
}
