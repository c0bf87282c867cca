package types

import (
	"testing"
	"time"
)

func TestContactValidate(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		wantErr bool
	}{
		{
			name:    "valid manual contact",
			contact: Contact{ID: "c1", Name: "Ada Lovelace", Source: SourceManual},
			wantErr: false,
		},
		{
			name:    "missing name",
			contact: Contact{ID: "c2", Source: SourceManual},
			wantErr: true,
		},
		{
			name:    "whitespace-only name",
			contact: Contact{ID: "c3", Name: "   ", Source: SourceGoogle},
			wantErr: true,
		},
		{
			name:    "invalid source",
			contact: Contact{ID: "c4", Name: "Bob", Source: Source("csv")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.contact.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContactClone(t *testing.T) {
	orig := &Contact{
		ID:   "c1",
		Name: "Ada Lovelace",
		ContactInfo: ContactInfo{
			Emails: []string{"ada@example.com"},
			Phones: []string{"5551234567"},
		},
		Source:    SourceManual,
		CreatedAt: time.Now(),
	}

	clone := orig.Clone()
	clone.Name = "Changed"
	clone.ContactInfo.Emails[0] = "changed@example.com"

	if orig.Name != "Ada Lovelace" {
		t.Errorf("Clone mutated original name: %s", orig.Name)
	}
	if orig.ContactInfo.Emails[0] != "ada@example.com" {
		t.Errorf("Clone shares email slice with original: %s", orig.ContactInfo.Emails[0])
	}
}

func TestIsPlaceholder(t *testing.T) {
	placeholders := []string{"", "  ", "unknown", "Unknown", "N/A", "n/a", "<unknown>", "none", "-", "NULL"}
	for _, s := range placeholders {
		if !IsPlaceholder(s) {
			t.Errorf("IsPlaceholder(%q) = false, want true", s)
		}
	}

	real := []string{"Acme Corp", "CEO", "Lisbon", "0"}
	for _, s := range real {
		if IsPlaceholder(s) {
			t.Errorf("IsPlaceholder(%q) = true, want false", s)
		}
	}
}

func TestPartialContactNilSafety(t *testing.T) {
	var p *PartialContact

	if p.GetName() != "" {
		t.Errorf("nil PartialContact GetName() = %q, want empty", p.GetName())
	}
	if p.GetNotes() != "" {
		t.Errorf("nil PartialContact GetNotes() = %q, want empty", p.GetNotes())
	}
	info := p.Info()
	if len(info.Emails) != 0 || len(info.Phones) != 0 {
		t.Errorf("nil PartialContact Info() not empty: %+v", info)
	}
}

func TestSourceIsValid(t *testing.T) {
	for _, s := range []Source{SourceGoogle, SourceLinkedIn, SourceManual} {
		if !s.IsValid() {
			t.Errorf("Source %q should be valid", s)
		}
	}
	if Source("csv").IsValid() {
		t.Error("Source \"csv\" should be invalid")
	}
}
