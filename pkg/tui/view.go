package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/papercomputeco/shopgpt/pkg/product"
	"github.com/papercomputeco/shopgpt/pkg/session"
)

const imagePlaceholder = "[no image]"

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render(m.opts.Title),
		m.viewport.View(),
		m.statusView(),
		m.styles.Input.Render(m.textarea.View()),
	)
}

func (m Model) statusView() string {
	switch {
	case m.sess.Pending():
		return m.spinner.View() + " " + m.styles.Muted.Render("Searching...")
	case m.status.err != "":
		return m.styles.Error.Render(ansi.Truncate("Error: "+m.status.err, m.width, "…"))
	case m.sess.Ended():
		return m.styles.Muted.Render("Conversation ended. Press any key to leave.")
	default:
		return m.styles.Muted.Render("enter send • alt+enter newline • esc quit")
	}
}

func (m *Model) renderHistory() string {
	var b strings.Builder
	for i, msg := range m.sess.Messages() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg))
	}
	return b.String()
}

func (m *Model) renderMessage(msg session.Message) string {
	var b strings.Builder
	switch msg.Role {
	case session.RoleUser:
		b.WriteString(m.styles.User.Render("You"))
		b.WriteString("\n")
		b.WriteString(msg.Content)
	default:
		b.WriteString(m.styles.Assistant.Render("Assistant"))
		b.WriteString("\n")
		b.WriteString(m.markdown(msg.Hash, msg.Content))
	}

	for i, p := range msg.Products {
		b.WriteString("\n\n")
		b.WriteString(m.renderProduct(i+1, p))
	}
	return b.String()
}

// renderProduct formats one product card. Lines are truncated to the
// screen width.
func (m *Model) renderProduct(n int, p product.Product) string {
	width := max(m.width-2, 20)
	lines := []string{
		m.styles.Title.Render(ansi.Truncate(fmt.Sprintf("%d. %s", n, p.Title), width, "…")),
	}

	var facts []string
	if price, ok := p.DisplayPrice(); ok {
		facts = append(facts, m.styles.Price.Render(price))
	}
	if pct, ok := p.Savings(); ok {
		facts = append(facts, m.styles.Savings.Render(fmt.Sprintf("%d%% off", pct)))
	}
	if p.Rating != nil {
		rating := fmt.Sprintf("★ %.1f", *p.Rating)
		if reviews, ok := p.Reviews(); ok {
			rating += fmt.Sprintf(" (%d reviews)", reviews)
		}
		facts = append(facts, rating)
	}
	if len(facts) > 0 {
		lines = append(lines, "   "+strings.Join(facts, " · "))
	}

	var details []string
	if p.Brand != nil {
		details = append(details, *p.Brand)
	}
	if p.Availability != nil {
		details = append(details, *p.Availability)
	}
	if len(details) > 0 {
		lines = append(lines, m.styles.Muted.Render(ansi.Truncate("   "+strings.Join(details, " · "), width, "…")))
	}
	if p.ReturnPolicy != nil {
		lines = append(lines, m.styles.Muted.Render(ansi.Truncate("   Returns: "+*p.ReturnPolicy, width, "…")))
	}

	lines = append(lines, "   "+m.styles.Link.Render(p.DeepLink()))
	if img, ok := p.FullSizeImageURL(); ok {
		lines = append(lines, m.styles.Muted.Render(ansi.Truncate("   "+img, width, "…")))
	} else {
		lines = append(lines, m.styles.Muted.Render("   "+imagePlaceholder))
	}

	return strings.Join(lines, "\n")
}
