package main

import (
	"bufio"
	"path/filepath"
	"strings"
	"testing"

	"github.com/innosenze88/ExpertAdvisor/internal/config"
)

func TestPromptFloatKeepsCurrentOnBlankOrInvalid(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("\nabc\n25,5\n"))
	if got := promptFloat(reader, "x", 30); got != 30 {
		t.Fatalf("blank input should keep current, got %g", got)
	}
	if got := promptFloat(reader, "x", 30); got != 30 {
		t.Fatalf("invalid input should keep current, got %g", got)
	}
	if got := promptFloat(reader, "x", 30); got != 25.5 {
		t.Fatalf("comma decimal should parse, got %g", got)
	}
}

func TestEditStrategyThenSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("EA_CONFIG", path)

	cfg := config.Default()
	editStrategy(bufio.NewReader(strings.NewReader("20\n80\n0.0005\n")), &cfg)
	if err := saveConfig(&cfg); err != nil {
		t.Fatalf("saveConfig returned error: %v", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	p := loaded.Strategy.Params
	if p.BuyBelow != 20 || p.SellAbove != 80 || p.Point != 0.0005 {
		t.Fatalf("unexpected params after reload: %+v", p)
	}
}

func TestSaveRejectsInvalidListener(t *testing.T) {
	t.Setenv("EA_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	cfg := config.Default()
	editListener(bufio.NewReader(strings.NewReader("\n0\n\n\n")), &cfg)
	if err := saveConfig(&cfg); err == nil {
		t.Fatalf("expected port 0 to be rejected")
	}
}
