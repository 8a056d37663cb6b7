package compare

import (
	"regexp"

	"github.com/pkg/errors"
)

// DefaultCategoryPatterns strip the suite prefix and the backend suffix from a
// target file path. The first pattern is greedy and unanchored, so it removes
// everything up to the last "inductor_" in the path.
var DefaultCategoryPatterns = []string{
	`.*inductor_`,
	`_xpu_performance.csv`,
}

// Labeler derives category labels by deleting each pattern match in order.
type Labeler struct {
	patterns []*regexp.Regexp
}

// NewLabeler compiles patterns case-insensitively. An empty list selects
// DefaultCategoryPatterns.
func NewLabeler(patterns []string) (Labeler, error) {
	if len(patterns) == 0 {
		patterns = DefaultCategoryPatterns
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return Labeler{}, errors.Wrapf(err, "compile category pattern %q", p)
		}
		compiled = append(compiled, re)
	}
	return Labeler{patterns: compiled}, nil
}

// Label applies every substitution in sequence. A pattern that does not match
// leaves the text unchanged.
func (l Labeler) Label(path string) string {
	for _, re := range l.patterns {
		path = re.ReplaceAllLiteralString(path, "")
	}
	return path
}

var defaultLabeler = func() Labeler {
	l, err := NewLabeler(nil)
	if err != nil {
		panic(err)
	}
	return l
}()

// Category labels path with DefaultCategoryPatterns.
func Category(path string) string {
	return defaultLabeler.Label(path)
}

// BaselinePath maps a discovered target file onto the baseline tree by
// replacing the first case-insensitive occurrence of targetDir with
// baselineDir followed by a slash. The remainder of the path, file name
// included, is kept.
func BaselinePath(targetPath, targetDir, baselineDir string) string {
	switch targetDir {
	case "":
		return targetPath
	case ".":
		// Walking "." yields paths relative to it.
		return baselineDir + "/" + targetPath
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(targetDir))
	loc := re.FindStringIndex(targetPath)
	if loc == nil {
		return targetPath
	}
	return targetPath[:loc[0]] + baselineDir + "/" + targetPath[loc[1]:]
}
