package ai

import (
	"context"
	"errors"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"```\nHello there.\n```", "Hello there."},
		{"```text\nWelcome to the talk.\n```", "Welcome to the talk."},
		{"  ```Hi```  ", "Hi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripCodeFences(tt.in); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewGemini_missingKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", ""); err == nil {
		t.Error("expected error without api key")
	}
}

func TestNoop(t *testing.T) {
	_, err := Noop{}.Generate(context.Background(), "anything")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("err = %v", err)
	}
}

func TestFunc(t *testing.T) {
	g := Func(func(_ context.Context, p string) (string, error) { return "echo " + p, nil })
	got, err := g.Generate(context.Background(), "x")
	if err != nil || got != "echo x" {
		t.Errorf("got %q, %v", got, err)
	}
}
