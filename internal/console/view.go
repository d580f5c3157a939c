package console

import (
	"fmt"
	"strings"
)

var fieldLabels = [3]string{"Name", "Age", "Condition"}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Patient Records"))
	b.WriteString("\n")

	var form strings.Builder
	for i := range m.inputs {
		form.WriteString(m.styles.Label.Render(fieldLabels[i]))
		form.WriteString(m.inputs[i].View())
		if i < len(m.inputs)-1 {
			form.WriteString("\n")
		}
	}
	b.WriteString(m.styles.Panel.Render(form.String()))
	b.WriteString("\n")

	if m.errorMessage != "" {
		b.WriteString(m.styles.Error.Render(m.errorMessage))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.listView())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

func (m Model) listView() string {
	if m.loading {
		return m.spinner.View() + " Loading patients..."
	}
	if len(m.records) == 0 {
		return m.styles.Muted.Render("No patients yet.")
	}

	lines := make([]string, 0, len(m.records))
	for i, p := range m.records {
		line := fmt.Sprintf("%s (%d) - %s", p.Name, p.Age, p.Condition)
		if m.focus == focusList && i == m.cursor {
			lines = append(lines, m.styles.Selected.Render("> "+line))
			continue
		}
		lines = append(lines, m.styles.Row.Render(line))
	}
	return strings.Join(lines, "\n")
}
