package synthdef

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns unified diff between YAML renderings of two definitions.
// Empty string is returned for equal definitions.
func Diff(a, b Def) (string, error) {
	from, err := Marshal(a)
	if err != nil {
		return "", err
	}
	to, err := Marshal(b)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(from)),
		B:        difflib.SplitLines(string(to)),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	})
}
