package textfix

import "testing"

func TestRepairCommonSequences(t *testing.T) {
	cases := []struct{ in, want string }{
		// "Í" (UTF-8 C3 8D) read as Windows-1252 becomes "Ã" + U+008D.
		{"GASOLINERÃA", "GASOLINERÍA"},
		{"LogÃ­stica", "Logística"},
		{"Juan PÃ©rez", "Juan Pérez"},
		{"CompaÃ±Ã­a", "Compañía"},
		{"NÂ° 12", "N° 12"},
		{"MÃ©xico", "México"},
	}
	for _, c := range cases {
		if got := Repair(c.in); got != c.want {
			t.Fatalf("Repair(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRepairLeavesCleanTextAlone(t *testing.T) {
	for _, s := range []string{"", "Diesel", "Kenworth T680", "Ya está bien", "Año 2024"} {
		if got := Repair(s); got != s {
			t.Fatalf("Repair(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestRepairNumericCellsUntouched(t *testing.T) {
	for _, s := range []string{"940.00", "1,234.56", "12.04.2024 08:30:15"} {
		if got := Repair(s); got != s {
			t.Fatalf("Repair(%q) = %q, want unchanged", s, got)
		}
	}
}
