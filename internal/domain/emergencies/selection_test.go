package emergencies

import "testing"

func TestNextSelection(t *testing.T) {
	list := []Emergency{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	// sin selección previa => primero
	if got := NextSelection("", list); got != "a" {
		t.Fatalf("expected a, got %s", got)
	}

	// selección previa presente => sticky, aunque no sea el primero
	if got := NextSelection("b", list); got != "b" {
		t.Fatalf("expected sticky b, got %s", got)
	}

	// selección previa desaparecida (p.ej. finalizada) => primero
	if got := NextSelection("zz", list); got != "a" {
		t.Fatalf("expected fallback a, got %s", got)
	}

	// lista vacía => sin selección
	if got := NextSelection("b", nil); got != "" {
		t.Fatalf("expected empty selection, got %s", got)
	}
}
