package query

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Expression languages accepted by Engine.Query.
const (
	ModeJQ    = "jq"
	ModeCSS   = "css"
	ModeXPath = "xpath"
	ModeRegex = "regex"
	ModeForm  = "form"
)

// Modes lists the accepted expression languages.
var Modes = []string{ModeJQ, ModeCSS, ModeXPath, ModeRegex, ModeForm}

func compileMode(mode, expression string) (runner, error) {
	if expression == "" {
		return nil, fmt.Errorf("%s expression is required", mode)
	}

	switch mode {
	case ModeJQ:
		code, err := compile(expression)
		if err != nil {
			return nil, err
		}
		return runJQ(code), nil

	case ModeCSS:
		sel, err := cascadia.Compile(expression)
		if err != nil {
			return nil, fmt.Errorf("invalid CSS selector: %w", err)
		}
		return runCSS(sel), nil

	case ModeXPath:
		expr, err := xpath.Compile(expression)
		if err != nil {
			return nil, fmt.Errorf("invalid XPath expression: %w", err)
		}
		return runXPath(expr), nil

	case ModeRegex:
		re, err := regexp.Compile(expression)
		if err != nil {
			return nil, fmt.Errorf("invalid regex: %w", err)
		}
		return runRegex(re), nil

	case ModeForm:
		return runForm(expression), nil

	default:
		return nil, fmt.Errorf("unknown mode %q (valid: %s)", mode, strings.Join(Modes, ", "))
	}
}

// runCSS yields the trimmed text of every element sel matches. Empty text is
// skipped.
func runCSS(sel cascadia.Selector) runner {
	return func(body string, yield func(any) bool) error {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			return fmt.Errorf("body is not HTML: %w", err)
		}
		doc.FindMatcher(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			return text == "" || yield(text)
		})
		return nil
	}
}

// runXPath parses the body as HTML when it sniffs as an HTML document and as
// XML otherwise, then yields the trimmed inner text of each matching node.
func runXPath(expr *xpath.Expr) runner {
	return func(body string, yield func(any) bool) error {
		var texts []string
		if isHTML(body) {
			doc, err := htmlquery.Parse(strings.NewReader(body))
			if err != nil {
				return fmt.Errorf("body is not HTML: %w", err)
			}
			for _, n := range htmlquery.QuerySelectorAll(doc, expr) {
				texts = append(texts, htmlquery.InnerText(n))
			}
		} else {
			doc, err := xmlquery.Parse(strings.NewReader(body))
			if err != nil {
				return fmt.Errorf("body is not XML: %w", err)
			}
			for _, n := range xmlquery.QuerySelectorAll(doc, expr) {
				texts = append(texts, n.InnerText())
			}
		}

		for _, text := range texts {
			text = strings.TrimSpace(text)
			if text != "" && !yield(text) {
				break
			}
		}
		return nil
	}
}

func isHTML(body string) bool {
	return strings.HasPrefix(http.DetectContentType([]byte(body)), "text/html")
}

// runRegex yields the first capture group of each match, or the whole match
// when the expression has no groups.
func runRegex(re *regexp.Regexp) runner {
	group := 0
	if re.NumSubexp() > 0 {
		group = 1
	}
	return func(body string, yield func(any) bool) error {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			if !yield(m[group]) {
				break
			}
		}
		return nil
	}
}

// runForm reads the body as application/x-www-form-urlencoded. A key yields
// each of its values; "*" or "." yields one object of every key.
func runForm(key string) runner {
	return func(body string, yield func(any) bool) error {
		values, err := url.ParseQuery(body)
		if err != nil {
			return fmt.Errorf("body is not form data: %w", err)
		}

		if key != "*" && key != "." {
			for _, v := range values[key] {
				if !yield(v) {
					break
				}
			}
			return nil
		}

		all := make(map[string]any, len(values))
		for k, vs := range values {
			if len(vs) == 1 {
				all[k] = vs[0]
				continue
			}
			items := make([]any, len(vs))
			for i, v := range vs {
				items[i] = v
			}
			all[k] = items
		}
		yield(all)
		return nil
	}
}

// ValidMode reports whether mode names an expression language. "" is valid
// and means jq.
func ValidMode(mode string) bool {
	return mode == "" || slices.Contains(Modes, mode)
}
