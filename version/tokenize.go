package version

import (
	"fmt"
	"strconv"
	"strings"
)

type token struct {
	text    string
	numeric bool
}

func (t token) toSegment() segment {
	if t.numeric {
		n, _ := strconv.ParseInt(t.text, 10, 64)
		return segment{numeric: true, num: n}
	}
	q := strings.ToLower(t.text)
	if alias, ok := qualifierAlias[q]; ok {
		q = alias
	}
	return segment{qual: q}
}

func isSeparator(b byte) bool { return b == '.' || b == '-' || b == '_' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// tokenize splits a version string into segment tokens. Segments are
// delimited by an explicit separator ('.', '-', '_') or by a digit/letter
// transition with no separator at all (an implicit boundary). A run of
// consecutive separators, or a separator at the end of the string,
// produces an empty numeric "0" segment, matching the common convention
// that a dangling separator denotes a missing release number.
func tokenize(s string) ([]token, error) {
	if s == "" {
		return nil, fmt.Errorf("empty version string")
	}
	var toks []token
	i := 0
	n := len(s)
	sawSeparator := false
	for i < n {
		if isSeparator(s[i]) {
			if sawSeparator {
				toks = append(toks, token{text: "0", numeric: true})
			}
			sawSeparator = true
			i++
			continue
		}
		sawSeparator = false
		numeric := isDigit(s[i])
		j := i + 1
		for j < n && !isSeparator(s[j]) && isDigit(s[j]) == numeric {
			j++
		}
		toks = append(toks, token{text: s[i:j], numeric: numeric})
		i = j
	}
	if sawSeparator {
		toks = append(toks, token{text: "0", numeric: true})
	}
	return toks, nil
}
