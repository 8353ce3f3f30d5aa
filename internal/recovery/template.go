package recovery

import (
	"html/template"
	"strings"

	"github.com/dmitrijs2005/accountd/internal/accounts"
)

// defaultTemplate addresses the account holder by name and quotes the
// account's secret key as the lightweight verification code for the reset.
const defaultTemplate = `<html>
<body>
<p>Hello {{.Account.FirstName}},</p>
<p>A password change was requested for your account <b>{{.Account.Username}}</b> on {{.SiteName}}.</p>
<p>Your verification code: <b>{{.Account.SecretKey}}</b></p>
<p>If you did not request this, you can safely ignore this message.</p>
</body>
</html>
`

// TemplateRenderer renders recovery bodies from an html/template.
type TemplateRenderer struct {
	tmpl     *template.Template
	siteName string
}

// NewTemplateRenderer returns a renderer using the built-in recovery
// template.
func NewTemplateRenderer(siteName string) *TemplateRenderer {
	return &TemplateRenderer{
		tmpl:     template.Must(template.New("recovery").Parse(defaultTemplate)),
		siteName: siteName,
	}
}

// NewCustomRenderer parses text as the recovery template. The template
// receives {Account, SiteName}.
func NewCustomRenderer(siteName, text string) (*TemplateRenderer, error) {
	tmpl, err := template.New("recovery").Parse(text)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tmpl: tmpl, siteName: siteName}, nil
}

func (r *TemplateRenderer) RenderRecovery(a *accounts.Account) (string, error) {
	var b strings.Builder
	data := struct {
		Account  *accounts.Account
		SiteName string
	}{Account: a, SiteName: r.siteName}

	if err := r.tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
