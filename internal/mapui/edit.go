package mapui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/wesen/clustermap/internal/clusterpolicy"
)

const policyHint = "vars: size, minClusterSize, zoom"

// openEditor opens the cluster policy editor on the current expression.
func (m Model) openEditor() (tea.Model, tea.Cmd) {
	m.EditOpen = true
	m.EditErr = ""
	m.Editor = textinput.New()
	m.Editor.Prompt = "› "
	m.Editor.CharLimit = 120
	m.Editor.SetWidth(50)
	m.Editor.SetValue(m.eng.policy.Source())
	return m, m.Editor.Focus()
}

// handleEditKeys processes keys while the editor is open.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "escape":
		m.EditOpen = false
		m.Editor.Blur()
		return m, nil

	case "enter":
		return m.savePolicy()
	}

	var cmd tea.Cmd
	m.Editor, cmd = m.Editor.Update(msg)
	return m, cmd
}

// savePolicy compiles the edited expression. On success the current
// grouping is resolved again under the new policy; on error the editor
// stays open with the message.
func (m Model) savePolicy() (tea.Model, tea.Cmd) {
	src := strings.TrimSpace(m.Editor.Value())
	p, err := clusterpolicy.Compile(src, m.eng.policy.MinClusterSize())
	if err != nil {
		m.EditErr = err.Error()
		return m, nil
	}
	m.eng.setPolicy(p)
	m.EditOpen = false
	m.EditErr = ""
	m.Editor.Blur()
	m.Status = "policy: " + p.Source()
	return m.requestClusters()
}

func (m Model) editorView() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("CLUSTER POLICY"))
	b.WriteString("\n")
	b.WriteString(m.Editor.View())
	b.WriteString("\n")
	b.WriteString(panelDimStyle.Render(policyHint))
	if m.EditErr != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(truncate(m.EditErr, 60)))
	}
	b.WriteString("\n")
	b.WriteString(panelDimStyle.Render("enter=apply  esc=cancel"))
	return b.String()
}
