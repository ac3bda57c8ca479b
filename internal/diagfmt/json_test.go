package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"dada/internal/diag"
	"dada/internal/source"
)

func TestJSONWireShape(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, []diag.Diagnostic{atomicDiag("a.dada")}, nil, JSONOpts{PathMode: PathModeAsIs}); err != nil {
		t.Fatal(err)
	}
	want := `{
  "diagnostics": [
    {
      "message": "expected parameter name after ` + "`atomic`" + `",
      "primary_span": {
        "filename": "a.dada",
        "start_offset": 11,
        "end_offset": 11
      },
      "labels": [
        {
          "span": {
            "filename": "a.dada",
            "start_offset": 5,
            "end_offset": 11
          },
          "message": "` + "`atomic`" + ` specified here"
        }
      ],
      "severity": "error",
      "code": "SYN2005"
    }
  ],
  "count": 1
}
`
	if got := buf.String(); got != want {
		t.Errorf("JSON mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestJSONEmptyLabelsIsArray(t *testing.T) {
	d := diag.NewError(diag.SynExpectItem, source.NewSpan(0, 1).InFile("a"), "expected an item")
	raw, err := json.Marshal(ToWire(d, nil, JSONOpts{PathMode: PathModeAsIs}))
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	labels, ok := decoded["labels"].([]any)
	if !ok || len(labels) != 0 {
		t.Errorf("labels = %#v, want []", decoded["labels"])
	}
}

func TestJSONPositionsAndMax(t *testing.T) {
	src := MapSources{"a.dada": "\nfn f(atomic) {}\n"}
	d := diag.NewError(diag.SynExpectParamName, source.NewSpan(12, 12).InFile("a.dada"), "m")
	out := BuildDiagnosticsOutput([]diag.Diagnostic{d, d}, src, JSONOpts{IncludePositions: true, Max: 1, PathMode: PathModeAsIs})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, want 1", out.Count)
	}
	sp := out.Diagnostics[0].PrimarySpan
	if sp.StartLine != 2 || sp.StartCol != 12 || sp.EndLine != 2 || sp.EndCol != 12 {
		t.Errorf("positions = %+v", sp)
	}
}
