package gesture

import "testing"

func TestResolver_AllVectors(t *testing.T) {
	want := map[string]string{
		"00000": "Force",
		"00001": "Promesse",
		"00100": "HopHopHop",
		"00111": "OK",
		"01001": "Demon",
		"01100": "Peace",
		"10001": "Shaka",
		"11001": "RockNRoll",
	}

	r := NewResolver(DefaultSymbolTable())

	unknown := 0
	for n := 0; n < 32; n++ {
		var s FingerStates
		for i := range s {
			s[i] = n&(1<<(4-i)) != 0
		}

		got := r.Resolve(s)
		if label, ok := want[s.String()]; ok {
			if got != label {
				t.Errorf("Resolve(%s) = %q, want %q", s, got, label)
			}
			continue
		}
		unknown++
		if got != Unknown {
			t.Errorf("Resolve(%s) = %q, want %q", s, got, Unknown)
		}
	}

	if unknown != 24 {
		t.Errorf("unknown vectors = %d, want 24", unknown)
	}
}

func TestResolver_Scenarios(t *testing.T) {
	r := NewResolver(DefaultSymbolTable())

	tests := []struct {
		key  string
		want string
	}{
		{"11111", Unknown},
		{"00111", "OK"},
		{"00000", "Force"},
		{"10110", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s, err := ParseFingerStates(tt.key)
			if err != nil {
				t.Fatal(err)
			}
			if got := r.Resolve(s); got != tt.want {
				t.Errorf("Resolve(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewSymbolTable(t *testing.T) {
	t.Run("rejects malformed keys", func(t *testing.T) {
		for _, key := range []string{"0", "000000", "0000x", "OK"} {
			if _, err := NewSymbolTable(map[string]string{key: "x"}); err == nil {
				t.Errorf("key %q: expected error", key)
			}
		}
	})

	t.Run("rejects empty labels", func(t *testing.T) {
		if _, err := NewSymbolTable(map[string]string{"00000": ""}); err == nil {
			t.Error("expected error for empty label")
		}
	})

	t.Run("copies the input", func(t *testing.T) {
		src := map[string]string{"11111": "Hello"}
		table, err := NewSymbolTable(src)
		if err != nil {
			t.Fatal(err)
		}

		src["11111"] = "Changed"
		src["00000"] = "Added"

		if label, _ := table.Lookup("11111"); label != "Hello" {
			t.Errorf("Lookup(11111) = %q, want Hello", label)
		}
		if _, ok := table.Lookup("00000"); ok {
			t.Error("table picked up a key added after construction")
		}
	})

	t.Run("custom table resolves through a resolver", func(t *testing.T) {
		table, _ := NewSymbolTable(map[string]string{"11111": "Hello"})
		r := NewResolver(table)

		if got := r.Resolve(FingerStates{true, true, true, true, true}); got != "Hello" {
			t.Errorf("Resolve(11111) = %q, want Hello", got)
		}
		if got := r.Resolve(FingerStates{}); got != Unknown {
			t.Errorf("Resolve(00000) = %q, want Unknown", got)
		}
	})
}

func TestSymbolTable_Entries(t *testing.T) {
	table := DefaultSymbolTable()

	entries := table.Entries()
	if len(entries) != 8 || table.Len() != 8 {
		t.Fatalf("expected 8 entries, got %d (Len %d)", len(entries), table.Len())
	}
	if entries[0] != (Symbol{Key: "00000", Label: "Force"}) {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[7] != (Symbol{Key: "11001", Label: "RockNRoll"}) {
		t.Errorf("last entry = %+v", entries[7])
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			t.Errorf("entries not sorted at %d", i)
		}
	}
}
