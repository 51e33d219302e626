package notify

import (
	"bytes"
	"html/template"
	"sync"
)

var bannerTmpl = template.Must(template.New("banner").Parse(
	`<div class="alert alert-{{.Severity}} alert-dismissible fade show d-flex align-items-center" role="alert">` +
		`<i class="bi {{.Icon}} me-2"></i>` +
		`<div>{{.Message}}</div>` +
		`<button type="button" class="btn-close" data-bs-dismiss="alert" aria-label="Close"></button>` +
		`</div>`))

var icons = map[Severity]string{
	SeveritySuccess: "bi-check-circle-fill",
	SeverityDanger:  "bi-exclamation-triangle-fill",
	SeverityInfo:    "bi-info-circle-fill",
}

// Icon returns the icon class shown for s.
func (s Severity) Icon() string {
	return icons[s.orInfo()]
}

// Render returns the dismissible banner markup for n. The message is
// HTML-escaped.
func Render(n Notification) (template.HTML, error) {
	sev := n.Severity.orInfo()
	var buf bytes.Buffer
	err := bannerTmpl.Execute(&buf, struct {
		Severity Severity
		Icon     string
		Message  string
	}{sev, sev.Icon(), n.Message})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Banner is the single on-page message region. Each Notify replaces the
// current banner, even one the user has not dismissed yet. There is no
// queue and no timer.
type Banner struct {
	mu       sync.Mutex
	current  *Notification
	markup   template.HTML
	onChange func(template.HTML)
}

// NewBanner returns an empty banner region. onChange, when non-nil, is
// called with the new region content after every change (outside the lock).
func NewBanner(onChange func(template.HTML)) *Banner {
	return &Banner{onChange: onChange}
}

func (b *Banner) Notify(message string, severity Severity) {
	n := Notification{Message: message, Severity: severity.orInfo()}
	markup, err := Render(n)
	if err != nil {
		markup = template.HTML(template.HTMLEscapeString(message))
	}

	b.mu.Lock()
	b.current = &n
	b.markup = markup
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(markup)
	}
}

// Current returns the live notification, if any.
func (b *Banner) Current() (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notification{}, false
	}
	return *b.current, true
}

// HTML returns the region's markup; empty when nothing is shown.
func (b *Banner) HTML() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.markup
}

// Dismiss clears the region, as the close button does.
func (b *Banner) Dismiss() {
	b.mu.Lock()
	b.current = nil
	b.markup = ""
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange("")
	}
}
