package aal

import "strings"

// SplitStatements turns raw source into statements, splitting at top-level
// semicolons. Braces, quotes and the terminating semicolon stay in the text;
// newlines and // comments do not.
func SplitStatements(src string) ([]string, []Diagnostic) {
	var (
		stmts      []string
		diags      []Diagnostic
		current    strings.Builder
		depth      int
		inQuote    bool
		innerQuote bool
		stray      int
	)

	emit := func() {
		text := current.String()
		current.Reset()
		if strings.TrimSpace(text) == "" || strings.TrimSpace(text) == ";" {
			return
		}
		stmts = append(stmts, text)
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '\n', '\r':
			continue
		case '/':
			if !inQuote && !innerQuote && i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
				continue
			}
		case '"':
			if depth == 0 {
				inQuote = !inQuote
			} else {
				innerQuote = !innerQuote
			}
		case '{':
			if !inQuote {
				depth++
			}
		case '}':
			if !inQuote {
				if depth == 0 {
					stray++
				} else {
					depth--
				}
				if depth == 0 {
					innerQuote = false
				}
			}
		}

		current.WriteByte(c)
		if c == ';' && depth == 0 && !inQuote {
			emit()
		}
	}
	emit()

	if depth != 0 {
		diags = append(diags, newDiagnostic(SeverityParse, "", Position{}, "mismatched block: %d unclosed '{' at end of input", depth))
	}
	if stray > 0 {
		diags = append(diags, newDiagnostic(SeverityParse, "", Position{}, "mismatched block: %d unmatched '}'", stray))
	}
	if inQuote {
		diags = append(diags, newDiagnostic(SeverityParse, "", Position{}, "unterminated quote at end of input"))
	}
	return stmts, diags
}
