package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Template is a system/user prompt pair with {{variable}} placeholders.
type Template struct {
	Name   string
	System string
	User   string
}

// Variables returns the placeholders used by either half of the template.
func (t Template) Variables() []string {
	return ExtractVariables(t.System + " " + t.User)
}

// Render fills both halves of the template. Every placeholder must have a value.
func (t Template) Render(vars map[string]string) (system, user string, err error) {
	if missing := findMissingVars(t.System+" "+t.User, vars); len(missing) > 0 {
		return "", "", fmt.Errorf("template %s: missing variables: %s", t.Name, strings.Join(missing, ", "))
	}
	return substitute(t.System, vars), substitute(t.User, vars), nil
}

// substitute is single-pass, so placeholders inside values (a transcript that
// happens to contain "{{x}}") are left as-is.
func substitute(template string, vars map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-2] // strip {{ and }}
		if val, ok := vars[key]; ok {
			return val
		}
		return match
	})
}

// ExtractVariables returns a list of variable names found in the template.
func ExtractVariables(template string) []string {
	matches := variablePattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool)
	var vars []string
	for _, m := range matches {
		if len(m) > 1 && !seen[m[1]] {
			vars = append(vars, m[1])
			seen[m[1]] = true
		}
	}
	return vars
}

func findMissingVars(template string, vars map[string]string) []string {
	var missing []string
	for _, v := range ExtractVariables(template) {
		if _, ok := vars[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing
}
