package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port default: %s", cfg.Port)
	}
	if cfg.LoggingLevel != "INFO" {
		t.Fatalf("unexpected logging level default: %s", cfg.LoggingLevel)
	}
	if cfg.DatasetTable != "freshdesk_tickets" {
		t.Fatalf("unexpected dataset table default: %s", cfg.DatasetTable)
	}
	if cfg.MaxSearchPages != 0 {
		t.Fatalf("unexpected max pages default: %d", cfg.MaxSearchPages)
	}
}

func TestValidateFreshdeskRequiresKeyAndDomain(t *testing.T) {
	cfg := Config{}
	if err := cfg.ValidateFreshdesk(); err == nil {
		t.Fatalf("expected error when api key missing")
	}
	cfg.FreshdeskAPIKey = "k"
	if err := cfg.ValidateFreshdesk(); err == nil {
		t.Fatalf("expected error when domain missing")
	}
	cfg.FreshdeskDomain = "acme.freshdesk.com"
	if err := cfg.ValidateFreshdesk(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSplitList(t *testing.T) {
	cfg := Config{FreshdeskTicketTypes: " Question, Incident ,,Problem "}
	types := cfg.TicketTypeList()
	if len(types) != 3 || types[0] != "Question" || types[1] != "Incident" || types[2] != "Problem" {
		t.Fatalf("unexpected types: %v", types)
	}
	if got := (Config{}).TicketStatusList(); got != nil {
		t.Fatalf("expected nil for empty list, got %v", got)
	}
}
