package cmd

import (
	"testing"
	"time"

	"github.com/ledan/tempo-cli/internal/domain"
)

func TestDayArg(t *testing.T) {
	defer func() { dateFlag = "" }()

	dateFlag = ""
	day, err := dayArg()
	if err != nil {
		t.Fatalf("dayArg() error = %v", err)
	}
	if day != domain.DayKeyFor(time.Now()) {
		t.Errorf("dayArg() = %q, want today", day)
	}

	dateFlag = "2025-03-10"
	day, err = dayArg()
	if err != nil {
		t.Fatalf("dayArg() error = %v", err)
	}
	if day != "2025-03-10" {
		t.Errorf("dayArg() = %q, want 2025-03-10", day)
	}

	dateFlag = "not-a-date"
	if _, err := dayArg(); err == nil {
		t.Error("dayArg() should reject a malformed date")
	}
}
