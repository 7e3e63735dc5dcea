package tui

import (
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/thingsbar/internal/core/notify"
	"github.com/colonyops/thingsbar/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications and composites them over the panel.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the toast stack at the given width, oldest at top.
func (v *ToastView) View(width int) string {
	return v.fit(width, 0)
}

// fit renders the stack at width, keeping only the newest toasts whose
// combined height stays within maxHeight. A maxHeight of zero keeps all.
func (v *ToastView) fit(width, maxHeight int) string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	w := toastWidthFor(width)
	kept := make([]string, 0, len(toasts))
	used := 0
	for i := len(toasts) - 1; i >= 0; i-- {
		r := renderToast(toasts[i], w)
		h := lipgloss.Height(r)
		if maxHeight > 0 && used+h > maxHeight && len(kept) > 0 {
			break
		}
		kept = append(kept, r)
		used += h
	}
	slices.Reverse(kept)

	return strings.Join(kept, "\n")
}

// toastWidthFor fits toasts inside a narrow sidebar, leaving a one-column gutter.
func toastWidthFor(panelWidth int) int {
	if panelWidth <= 0 {
		return maxToastWidth
	}
	return max(min(maxToastWidth, panelWidth-1), 10)
}

func renderToast(t toast, width int) string {
	var icon string
	var style lipgloss.Style

	switch t.notification.Level {
	case notify.LevelError:
		icon = styles.IconNotifyError
		style = styles.ToastErrorStyle
	case notify.LevelWarning:
		icon = styles.IconNotifyWarning
		style = styles.ToastWarningStyle
	default:
		icon = styles.IconNotifyInfo
		style = styles.ToastInfoStyle
	}

	content := icon + " " + t.notification.Message
	return style.Width(width).Render(content)
}

// Overlay composites the toast stack over background in the lower-right
// corner. Older toasts that do not fit in height are left out.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.fit(width, height)
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	toastLayer.X(max(width-toastW-1, 0)).Y(max(height-toastH, 0)).Z(2)

	return lipgloss.NewCompositor(bgLayer, toastLayer).Render()
}
