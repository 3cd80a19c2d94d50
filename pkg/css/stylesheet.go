package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Origin orders stylesheets in the cascade: every user agent rule loses to
// every author rule regardless of specificity.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginAuthor
)

// Rule represents a CSS rule (selector + declarations). Grouped selectors
// produce one Rule per selector sharing the same declarations.
type Rule struct {
	Selector     Selector
	Declarations DeclarationSet
	Order        int
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Origin Origin
	Rules  []Rule
}

// media types whose rules apply to both screen and print output
var acceptedMedia = map[string]bool{"all": true, "screen": true, "print": true}

// ParseStylesheet parses author CSS. Malformed rules and unsupported
// selectors are dropped; at-rules other than @media are skipped.
func ParseStylesheet(src []byte, log *zap.Logger) *Stylesheet {
	if log == nil {
		log = zap.NewNop()
	}
	p := &sheetParser{
		log:    log.Named("css-parser"),
		parser: css.NewParser(parse.NewInput(bytes.NewReader(src)), false),
		sheet:  &Stylesheet{Origin: OriginAuthor},
	}
	p.run(false)
	return p.sheet
}

type sheetParser struct {
	log    *zap.Logger
	parser *css.Parser
	sheet  *Stylesheet
	order  int
}

// run consumes grammar items until the end of input, or until the end of
// the enclosing at-rule block when nested is set.
func (p *sheetParser) run(nested bool) {
	for {
		gt, _, data := p.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			return
		case css.EndAtRuleGrammar:
			if nested {
				return
			}
		case css.BeginAtRuleGrammar:
			name := strings.ToLower(string(data))
			if name == "@media" && mediaApplies(p.parser.Values()) {
				p.run(true)
				continue
			}
			p.log.Debug("Skipping @-rule", zap.String("rule", name))
			p.skipBlock()
		case css.AtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))
		case css.BeginRulesetGrammar:
			selectors := joinTokens(data, p.parser.Values())
			decls := p.declarations()
			p.addRules(selectors, decls)
		}
	}
}

func (p *sheetParser) skipBlock() {
	depth := 1
	for depth > 0 {
		gt, _, _ := p.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// declarations reads a ruleset body up to EndRulesetGrammar.
func (p *sheetParser) declarations() DeclarationSet {
	var raw []Declaration
	for {
		gt, _, data := p.parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return NewDeclarationSet(raw...)
		case css.DeclarationGrammar:
			value := joinTokens(nil, p.parser.Values())
			if value == "" {
				continue
			}
			raw = append(raw, splitImportant(string(data), value))
		}
	}
}

func (p *sheetParser) addRules(selectors string, decls DeclarationSet) {
	for _, text := range strings.Split(selectors, ",") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		sel, ok := ParseSelector(text)
		if !ok {
			p.log.Debug("Skipping unsupported selector", zap.String("selector", text))
			continue
		}
		p.sheet.Rules = append(p.sheet.Rules, Rule{Selector: sel, Declarations: decls, Order: p.order})
	}
	p.order++
}

// joinTokens rebuilds source text, collapsing whitespace runs to one space.
func joinTokens(prefix []byte, tokens []css.Token) string {
	var sb strings.Builder
	sb.Write(prefix)
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			sb.WriteByte(' ')
			continue
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

func mediaApplies(tokens []css.Token) bool {
	for _, t := range tokens {
		if t.TokenType == css.IdentToken && acceptedMedia[strings.ToLower(string(t.Data))] {
			return true
		}
	}
	return len(tokens) == 0
}
