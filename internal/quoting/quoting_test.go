package quoting

import "testing"

func TestDoubleQuote(t *testing.T) {
	t.Parallel()
	if got := DoubleQuote("users"); got != `"users"` {
		t.Errorf("got %s", got)
	}
	if got := DoubleQuote(`we"ird`); got != `"we""ird"` {
		t.Errorf("got %s", got)
	}
}

func TestBacktick(t *testing.T) {
	t.Parallel()
	if got := Backtick("users"); got != "`users`" {
		t.Errorf("got %s", got)
	}
	if got := Backtick("we`ird"); got != "`we``ird`" {
		t.Errorf("got %s", got)
	}
}

func TestEscapeString(t *testing.T) {
	t.Parallel()
	if got := EscapeString(`O'Brien\x`); got != `O''Brien\\x` {
		t.Errorf("got %s", got)
	}
}

func TestEscapeLikePattern(t *testing.T) {
	t.Parallel()
	if got := EscapeLikePattern("100%_done"); got != `100\%\_done` {
		t.Errorf("got %s", got)
	}
}
