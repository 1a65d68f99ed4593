package mapping

import "testing"

func TestParseOutput(t *testing.T) {
	output := "cost=3\n1->2\n0->3\n4->0\n"
	pairs, err := ParseOutput(output)
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{{1, 2}, {0, 3}, {4, 0}}
	if len(pairs) != len(want) {
		t.Fatalf("got %d pairs, want %d", len(pairs), len(want))
	}
	for i, p := range pairs {
		if p != want[i] {
			t.Errorf("pair %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestParseOutputRejectsMalformedLine(t *testing.T) {
	if _, err := ParseOutput("cost=0\nnot-a-pair\n"); err == nil {
		t.Error("expected an error for a line without \"->\"")
	}
}

func TestParseOutputRejectsEmpty(t *testing.T) {
	if _, err := ParseOutput(""); err == nil {
		t.Error("expected an error for empty solver output")
	}
}
