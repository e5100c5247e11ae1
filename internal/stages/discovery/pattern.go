package discovery

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
)

const (
	placeholderName = 's'
	placeholderExt  = 'e'
)

type token struct {
	literal     string
	placeholder byte // 0 for literals
}

// NamePattern is a test file naming template such as "%s.%e", where %s is the
// case name, %e the extension and %% a literal percent sign. Patterns use '/'
// as separator on every platform.
type NamePattern struct {
	format string
	tokens []token
	re     *regexp.Regexp
	groups map[string]byte
}

func ParseNamePattern(format string) (*NamePattern, error) {
	var tokens []token
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, token{literal: literal.String()})
			literal.Reset()
		}
	}

	hasName, hasExt := false, false
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			literal.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return nil, fmt.Errorf("%w: %q ends with a lone %%", pkgerrors.ErrInvalidNamePattern, format)
		}
		i++
		switch format[i] {
		case '%':
			literal.WriteByte('%')
		case placeholderName:
			flush()
			tokens = append(tokens, token{placeholder: placeholderName})
			hasName = true
		case placeholderExt:
			flush()
			tokens = append(tokens, token{placeholder: placeholderExt})
			hasExt = true
		default:
			return nil, fmt.Errorf("%w: unknown placeholder %%%c in %q", pkgerrors.ErrInvalidNamePattern, format[i], format)
		}
	}
	flush()

	if !hasName || !hasExt {
		return nil, fmt.Errorf("%w: %q must contain both %%s and %%e", pkgerrors.ErrInvalidNamePattern, format)
	}

	p := &NamePattern{format: format, tokens: tokens, groups: make(map[string]byte)}
	re, err := regexp.Compile(p.buildRegexp())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrInvalidNamePattern, err)
	}
	p.re = re
	return p, nil
}

func (p *NamePattern) String() string {
	return p.format
}

// buildRegexp gives every placeholder occurrence its own group. RE2 has no
// backreferences, so repeated placeholders are compared after matching.
func (p *NamePattern) buildRegexp() string {
	var sb strings.Builder
	sb.WriteString("^")
	counts := map[byte]int{}
	for _, t := range p.tokens {
		switch t.placeholder {
		case 0:
			sb.WriteString(regexp.QuoteMeta(t.literal))
		case placeholderName:
			group := fmt.Sprintf("name%d", counts[placeholderName])
			fmt.Fprintf(&sb, "(?P<%s>.+)", group)
			p.groups[group] = placeholderName
			counts[placeholderName]++
		case placeholderExt:
			group := fmt.Sprintf("ext%d", counts[placeholderExt])
			fmt.Fprintf(&sb, "(?P<%s>%s|%s|%s)", group,
				constants.InputExt, constants.LegacyOutputExt, constants.AnswerExt)
			p.groups[group] = placeholderExt
			counts[placeholderExt]++
		}
	}
	sb.WriteString("$")
	return sb.String()
}

// Glob returns a filepath.Glob pattern matching every candidate file in dir.
func (p *NamePattern) Glob(dir string) string {
	var sb strings.Builder
	for _, t := range p.tokens {
		if t.placeholder != 0 {
			sb.WriteString("*")
			continue
		}
		sb.WriteString(globEscape(filepath.FromSlash(t.literal)))
	}
	return filepath.Join(globEscape(dir), sb.String())
}

// Match recovers the case name and extension of path, a file inside dir.
func (p *NamePattern) Match(dir, path string) (name, ext string, ok bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", "", false
	}
	m := p.re.FindStringSubmatch(filepath.ToSlash(rel))
	if m == nil {
		return "", "", false
	}

	for i, group := range p.re.SubexpNames() {
		if i == 0 || group == "" {
			continue
		}
		var target *string
		switch p.groups[group] {
		case placeholderName:
			target = &name
		case placeholderExt:
			target = &ext
		}
		if *target == "" {
			*target = m[i]
		} else if *target != m[i] {
			return "", "", false
		}
	}
	return name, ext, true
}

// Path formats the file path of a case inside dir.
func (p *NamePattern) Path(dir, name, ext string) string {
	var sb strings.Builder
	for _, t := range p.tokens {
		switch t.placeholder {
		case placeholderName:
			sb.WriteString(name)
		case placeholderExt:
			sb.WriteString(ext)
		default:
			sb.WriteString(t.literal)
		}
	}
	return filepath.Join(dir, filepath.FromSlash(sb.String()))
}

// globEscape quotes glob metacharacters with character classes, which works
// with both path separators.
func globEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[':
			sb.WriteByte('[')
			sb.WriteRune(r)
			sb.WriteByte(']')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
