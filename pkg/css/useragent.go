package css

import "sync"

// UserAgentCSS holds the default element styles, applied below every author
// rule.
const UserAgentCSS = `
html, body, div, p, address, blockquote, center, dl, dd, dt, fieldset, form,
h1, h2, h3, h4, h5, h6, hr, ol, ul, pre, article, aside, footer, header, main,
nav, section, figure, figcaption {
	display: block;
}

li { display: list-item; }
head, style, script, title, meta, link { display: none; }

body { margin: 8px; }

h1 { font-size: 2em; margin: 0.67em 0; font-weight: bold; }
h2 { font-size: 1.5em; margin: 0.83em 0; font-weight: bold; }
h3 { font-size: 1.17em; margin: 1em 0; font-weight: bold; }
h4 { margin: 1.33em 0; font-weight: bold; }
h5 { font-size: 0.83em; margin: 1.67em 0; font-weight: bold; }
h6 { font-size: 0.67em; margin: 2.33em 0; font-weight: bold; }

p, blockquote, dl, fieldset, form, ol, ul { margin: 1em 0; }
blockquote { margin-left: 40px; margin-right: 40px; }
dd { margin-left: 40px; }
ol, ul { padding-left: 40px; }
ol ol, ol ul, ul ol, ul ul { margin-top: 0; margin-bottom: 0; }
center { text-align: center; }
hr { border: 1px inset; margin: 0.5em 0; }

pre, code, kbd, samp, tt { font-family: monospace; }
pre { white-space: pre; margin: 1em 0; }

b, strong, th { font-weight: bolder; }
i, em, cite, var, address, dfn { font-style: italic; }
u, ins { text-decoration: underline; }
s, strike, del { text-decoration: line-through; }
big { font-size: larger; }
small, sub, sup { font-size: smaller; }
sub { vertical-align: sub; }
sup { vertical-align: super; }
a:link { color: #0645ad; text-decoration: underline; }

table { display: table; border-spacing: 2px; }
tr { display: table-row; }
thead { display: table-header-group; }
tbody { display: table-row-group; }
tfoot { display: table-footer-group; }
td, th { display: table-cell; padding: 1px; }
th { text-align: center; }
caption { display: table-caption; text-align: center; }

img { display: inline; }
`

var userAgent = sync.OnceValue(func() *Stylesheet {
	sheet := ParseStylesheet([]byte(UserAgentCSS), nil)
	sheet.Origin = OriginUserAgent
	return sheet
})

// UserAgentStylesheet returns the parsed default stylesheet. The result is
// shared and must not be modified.
func UserAgentStylesheet() *Stylesheet { return userAgent() }
