// Package chat answers free-text nutrition questions with the generative
// client, grounded in the user's profile and latest risk assessment.
package chat

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/glucoguide/glucoguide/internal/apperr"
	"github.com/glucoguide/glucoguide/internal/store"
)

const disclaimer = "Please note: This information is general guidance, not medical advice. " +
	"Always consult your healthcare provider before making changes to your medication or treatment plan."

const fallbackReply = "I'm having trouble reaching the assistant right now. " +
	"In general, diabetes management benefits from balanced meals with low glycemic index foods, " +
	"regular physical activity, and consistent blood sugar monitoring. Please try again in a moment."

// medicalTerms trigger the disclaimer when they appear in the question.
var medicalTerms = []string{"medicine", "medication", "insulin", "doctor", "treatment", "diagnosis"}

var (
	boldRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe  = regexp.MustCompile(`\*(.*?)\*`)
	headingRe = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	bulletRe  = regexp.MustCompile(`(?m)^\s*[\*\-]\s+`)
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, structured bool) (string, error)
}

// Service is the nutrition chatbot.
type Service struct {
	gen Generator
}

// NewService builds the chatbot over the given generator.
func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

// Reply answers the user's message. Generator failure degrades to a canned
// reply so the endpoint never surfaces an upstream error.
func (s *Service) Reply(ctx context.Context, profile store.Profile, last *store.Assessment, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperr.NewValidation("message is required", "message")
	}

	raw, err := s.gen.Generate(ctx, buildPrompt(profile, last, message), false)
	if err != nil || strings.TrimSpace(raw) == "" {
		log.Printf("chatbot generation failed, serving fallback: %v", err)
		return fallbackReply, nil
	}

	reply := cleanMarkdown(raw)
	if mentionsMedicalTerm(message) {
		reply += "\n\n" + disclaimer
	}
	return reply, nil
}

func buildPrompt(profile store.Profile, last *store.Assessment, message string) string {
	var b strings.Builder
	b.WriteString("You are a nutrition assistant for people managing diabetes risk. ")
	b.WriteString("Answer briefly in plain text without markdown formatting.\n")
	if profile.DietType != "" {
		fmt.Fprintf(&b, "The user follows a %s diet.\n", profile.DietType)
	}
	if len(profile.Allergies) > 0 {
		fmt.Fprintf(&b, "Allergies: %s.\n", strings.Join(profile.Allergies, ", "))
	}
	if profile.DiabetesType != "" {
		fmt.Fprintf(&b, "Diabetes type: %s.\n", profile.DiabetesType)
	}
	if last != nil {
		fmt.Fprintf(&b, "Their latest risk assessment: %s risk (probability %.2f).\n",
			last.Result.Tier, last.Result.Probability)
	}
	fmt.Fprintf(&b, "Question: %s", message)
	return b.String()
}

// cleanMarkdown strips the formatting generators add despite being asked
// for plain text.
func cleanMarkdown(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "- ")
	text = strings.ReplaceAll(text, "`", "")
	return strings.TrimSpace(text)
}

func mentionsMedicalTerm(message string) bool {
	lower := strings.ToLower(message)
	for _, term := range medicalTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
