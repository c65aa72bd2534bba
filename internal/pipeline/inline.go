package pipeline

import (
	"regexp"
	"strings"
)

// InlineRule is one whole-text substitution of the inline rewriter.
// Replace receives the submatches of one match; groups that did not take
// part in the match are empty strings.
type InlineRule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace func(groups []string) string
}

// Apply rewrites every match of the rule in content.
func (r InlineRule) Apply(content string) string {
	return replaceAllSubmatchFunc(r.Pattern, content, r.Replace)
}

// wrapGroup returns a replacer that surrounds the first group with marker.
func wrapGroup(marker string) func([]string) string {
	return func(g []string) string {
		return marker + g[1] + marker
	}
}

// InlineRules returns the ordered rule table. Later rules see the output of
// earlier ones, so the order is part of the grammar.
func InlineRules() []InlineRule {
	return []InlineRule{
		{
			Name:    "slide-header",
			Pattern: regexp.MustCompile(`(?m)^= slide '(.*?)'(?:,\s*'(.*?)')?\s*do$`),
			Replace: func(g []string) string {
				header := "---\n\n# " + g[1] + "\n"
				if g[2] != "" {
					header += "\n### " + g[2] + "\n"
				}
				return header
			},
		},
		{
			Name:    "code-tag",
			Pattern: regexp.MustCompile(`(?s)<code>(.*?)</code>`),
			Replace: func(g []string) string { return g[1] },
		},
		{
			Name:    "strong-tag",
			Pattern: regexp.MustCompile(`(?s)<strong>(.*?)</strong>`),
			Replace: wrapGroup("**"),
		},
		{
			Name:    "bold-tag",
			Pattern: regexp.MustCompile(`(?s)<b>(.*?)</b>`),
			Replace: wrapGroup("**"),
		},
		{
			Name:    "italic-tag",
			Pattern: regexp.MustCompile(`(?s)<i>(.*?)</i>`),
			Replace: wrapGroup("*"),
		},
		{
			// \s* may reach back over preceding blank lines; they collapse
			// into the single blank line emitted before the text.
			Name:    "paragraph",
			Pattern: regexp.MustCompile(`(?m)^\s*p(?:\.action)? (.+)`),
			Replace: func(g []string) string { return "\n" + g[1] },
		},
		{
			Name:    "image",
			Pattern: regexp.MustCompile(`(?m)^\s*img src="(.*?)"`),
			Replace: func(g []string) string { return "\n![](" + g[1] + ")" },
		},
	}
}

// InlineRewriter applies the inline rule table in order.
type InlineRewriter struct {
	rules []InlineRule
}

// NewInlineRewriter returns a rewriter over the default rule table.
func NewInlineRewriter() *InlineRewriter {
	return &InlineRewriter{rules: InlineRules()}
}

// Rewrite applies each rule once, globally, in table order.
func (r *InlineRewriter) Rewrite(content string) string {
	for _, rule := range r.rules {
		content = rule.Apply(content)
	}
	return content
}

// Rules returns a copy of the rule table.
func (r *InlineRewriter) Rules() []InlineRule {
	return append([]InlineRule(nil), r.rules...)
}

// replaceAllSubmatchFunc is regexp.ReplaceAllStringFunc with access to the
// submatches of each match.
func replaceAllSubmatchFunc(re *regexp.Regexp, s string, fn func([]string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = s[m[2*i]:m[2*i+1]]
			}
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(fn(groups))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
