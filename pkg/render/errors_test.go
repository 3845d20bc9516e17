package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMapErrorPayload(t *testing.T) {
	t.Parallel()

	sess := buildOrder(t, "")
	got := MapErrorPayload(sess, map[string][]string{
		"/record/items/0/qty": {"Qty must be at most 10"},
		"subject":             {" Subject is required", "Subject is required"},
		"statusAttr":          {"Status is invalid"},
		"$.objectIdx.note":    {"Note too long"},
		"unknown.path":        {"Something else"},
		"__all__":             {"Save failed"},
		"reason":              {"  "},
	})

	wantFields := map[string][]string{
		"qtyAttr":     {"Qty must be at most 10"},
		"subjectAttr": {"Subject is required"},
		"statusAttr":  {"Status is invalid"},
		"noteAttr":    {"Note too long"},
	}
	if diff := cmp.Diff(wantFields, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if len(got.Form) != 2 {
		t.Fatalf("expected two form-level messages, got %v", got.Form)
	}
}

func TestMergeErrors(t *testing.T) {
	t.Parallel()

	form := MergeFormErrors([]string{"a", " b "}, "b", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}

	fields := MergeFieldErrors(
		map[string][]string{"x": {"one"}, "y": {" "}},
		map[string][]string{"x": {"one", "two"}},
	)
	if diff := cmp.Diff(map[string][]string{"x": {"one", "two"}}, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}
