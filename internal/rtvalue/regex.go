package rtvalue

import "regexp"

// MatchRegex implements the runtime half of `lhs =~ /pattern/flags`
// (§4.C RegexMatch): compiles pattern (honoring the `i` case-insensitive
// flag the way the teacher's own regex-flag handling does, by prefixing
// the Go regexp inline-flag syntax) and reports whether target matches,
// plus the capture groups for $1, $2, ... binding.
func MatchRegex(target, pattern, flags string) (bool, []string, error) {
	re, err := compile(pattern, flags)
	if err != nil {
		return false, nil, err
	}
	m := re.FindStringSubmatch(target)
	if m == nil {
		return false, nil, nil
	}
	return true, m[1:], nil
}

// SubstRegex implements `lhs =~ s/pattern/replacement/flags`. global
// selects ReplaceAll vs a single first-match replacement.
func SubstRegex(target, pattern, replacement, flags string, global bool) (string, error) {
	re, err := compile(pattern, flags)
	if err != nil {
		return "", err
	}
	goReplacement := toGoReplacement(replacement)
	if global {
		return re.ReplaceAllString(target, goReplacement), nil
	}
	loc := re.FindStringIndex(target)
	if loc == nil {
		return target, nil
	}
	replaced := re.ReplaceAllString(target[loc[0]:loc[1]], goReplacement)
	return target[:loc[0]] + replaced + target[loc[1]:], nil
}

func compile(pattern, flags string) (*regexp.Regexp, error) {
	prefix := ""
	for _, f := range flags {
		switch f {
		case 'i':
			prefix += "i"
		case 's':
			prefix += "s"
		case 'm':
			prefix += "m"
		}
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	return regexp.Compile(pattern)
}

// toGoReplacement rewrites Jactl's $1-style capture references into Go
// regexp's ${1} form.
func toGoReplacement(repl string) string {
	out := make([]byte, 0, len(repl)+4)
	for i := 0; i < len(repl); i++ {
		if repl[i] == '$' && i+1 < len(repl) && repl[i+1] >= '0' && repl[i+1] <= '9' {
			j := i + 1
			for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			out = append(out, '$', '{')
			out = append(out, repl[i+1:j]...)
			out = append(out, '}')
			i = j - 1
			continue
		}
		out = append(out, repl[i])
	}
	return string(out)
}
