package criteria

import (
	"errors"
	"testing"
)

func TestCatalogShape(t *testing.T) {
	t.Parallel()

	names := Names()
	expected := []string{NetZero, PrivateEquity, BoardDirectors, GlobalMindset, FutureCapabilities}
	if len(names) != len(expected) {
		t.Fatalf("expected %d archetypes, got %d", len(expected), len(names))
	}

	for i, name := range expected {
		if names[i] != name {
			t.Fatalf("expected archetype %d to be %q, got %q", i, name, names[i])
		}

		a, ok := Lookup(name)
		if !ok {
			t.Fatalf("expected %q to be in the catalog", name)
		}
		if len(a.Skills) != 5 {
			t.Fatalf("%s: expected 5 skills, got %d", name, len(a.Skills))
		}
		if len(a.Traits) != 3 {
			t.Fatalf("%s: expected 3 traits, got %d", name, len(a.Traits))
		}
		if len(a.Keywords) != 5 {
			t.Fatalf("%s: expected 5 keywords, got %d", name, len(a.Keywords))
		}
		if err := Validate(a); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	t.Parallel()

	if _, ok := Lookup("net zero"); ok {
		t.Fatalf("lookup must be exact")
	}

	_, err := Get("unknown-archetype")
	if !errors.Is(err, ErrUnknownArchetype) {
		t.Fatalf("expected ErrUnknownArchetype, got %v", err)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	t.Parallel()

	a, _ := Lookup(NetZero)
	a.Skills[0].Name = "mutated"
	a.Traits = nil

	b, _ := Lookup(NetZero)
	if b.Skills[0].Name != "Climate Strategy & Carbon Accounting" {
		t.Fatalf("catalog was mutated through a lookup result: %q", b.Skills[0].Name)
	}
	if len(b.Traits) != 3 {
		t.Fatalf("catalog traits were mutated")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	traits := []RequiredTrait{{Name: "Drive"}}

	tests := []struct {
		name    string
		in      Archetype
		wantErr bool
	}{
		{
			name: "dense priorities",
			in: Archetype{Name: "ok", Traits: traits, Skills: []RequiredSkill{
				{Name: "a", Priority: 2}, {Name: "b", Priority: 1},
			}},
		},
		{
			name: "gap",
			in: Archetype{Name: "gap", Traits: traits, Skills: []RequiredSkill{
				{Name: "a", Priority: 1}, {Name: "b", Priority: 3},
			}},
			wantErr: true,
		},
		{
			name: "duplicate",
			in: Archetype{Name: "dup", Traits: traits, Skills: []RequiredSkill{
				{Name: "a", Priority: 1}, {Name: "b", Priority: 1},
			}},
			wantErr: true,
		},
		{
			name:    "no traits",
			in:      Archetype{Name: "empty", Skills: []RequiredSkill{{Name: "a", Priority: 1}}},
			wantErr: true,
		},
		{
			name:    "no name",
			in:      Archetype{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.in)
			if tt.wantErr && err == nil {
				t.Fatalf("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	a, _ := Lookup(PrivateEquity)
	skills := a.SkillNames()
	if skills[0] != "Analytical" || skills[4] != "Collaboration" {
		t.Fatalf("unexpected skill order: %v", skills)
	}
	traits := a.TraitNames()
	if traits[0] != "Drive" || traits[2] != "Awareness" {
		t.Fatalf("unexpected trait order: %v", traits)
	}
}
