package tui

// renderFooter renders the bottom line: the filter input while editing,
// a transient toast, or the key help.
func renderFooter(app *App, width int) string {
	style := app.theme.dimStyle().Width(width).MaxHeight(1)
	switch {
	case app.filtering:
		return style.Render(app.filter.View())
	case app.toast != "":
		return style.Render(StyleToast.Render(app.toast))
	case app.showHelp:
		return style.Render(helpText)
	}
	text := "? for help"
	if app.query != "" {
		text = "filter: " + app.query + "  (/ to edit, esc in filter to clear)  " + text
	}
	return style.Render(text)
}
