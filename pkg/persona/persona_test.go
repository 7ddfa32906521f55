package persona

import "testing"

func TestRegistryDefault(t *testing.T) {
	r := NewRegistry()
	if got := r.Current().Name; got != DefaultName {
		t.Errorf("Current() = %q, want %q", got, DefaultName)
	}
	if r.Current().Prompt == "" {
		t.Error("default personality has empty prompt")
	}
}

func TestRegistrySet(t *testing.T) {
	r := NewRegistry()
	if err := r.Set("sarcastic"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := r.Current().Name; got != "sarcastic" {
		t.Errorf("Current() = %q, want sarcastic", got)
	}

	if err := r.Set("nonexistent"); err == nil {
		t.Error("Set(nonexistent) expected error")
	}
	if got := r.Current().Name; got != "sarcastic" {
		t.Errorf("failed Set changed current to %q", got)
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	list := r.List()
	if len(list) < 3 {
		t.Fatalf("List() returned %d personalities, want at least 3", len(list))
	}
	for _, p := range list {
		if p.Name == "" || p.Prompt == "" {
			t.Errorf("personality %+v missing name or prompt", p)
		}
	}
}
