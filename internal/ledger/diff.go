package ledger

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff between the artifact's version-1 content and
// its current content. The ledger only supplies the two version strings;
// rendering belongs to the diff library.
func (a *Artifact) Diff() (string, error) {
	original, _ := a.At(FieldContent, 1).(string)
	if original == a.Content {
		return "", nil
	}
	name := a.Path
	if name == "" {
		name = a.ID.String()
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(a.Content),
		FromFile: name,
		FromDate: "version 1",
		ToFile:   name,
		ToDate:   fmt.Sprintf("version %d", a.Version()),
		Context:  2,
	}
	return difflib.GetUnifiedDiffString(diff)
}
