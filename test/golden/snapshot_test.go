package golden

import (
	"context"
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/codewithboateng/scalint/internal/astio"
	"github.com/codewithboateng/scalint/internal/engine"
	"github.com/codewithboateng/scalint/internal/reporting"
)

var update = flag.Bool("update", false, "rewrite the golden expectation from the current output")

// The sample documents cover five rules across two units; the text rendering
// of the full run is byte-compared against expected.txt.
func TestTextReportSnapshot(t *testing.T) {
	units, err := astio.LoadDir("testdata")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}

	rep, err := engine.Analyze(context.Background(), units, engine.DefaultConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var sb strings.Builder
	if err := reporting.WriteText(&sb, &rep); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := sb.String()

	if *update {
		if err := os.WriteFile("expected.txt", []byte(got), 0o644); err != nil {
			t.Fatalf("update golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile("expected.txt")
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if got != string(want) {
		t.Errorf("output drifted from golden (run with -update to accept):\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}
