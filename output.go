package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"groco-backend/internal/models"
)

var (
	colorPrimary = lipgloss.Color("#16A34A")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")

	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	priceStyle   = lipgloss.NewStyle().Bold(true).Width(9).Align(lipgloss.Right)
)

func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprint(w, warningStyle.Render("⚠ "))
	fmt.Fprintf(w, format+"\n", args...)
}

func printProducts(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		printWarning(w, "No products found. Try adjusting your filters.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d products", len(products))))
	for _, p := range products {
		fmt.Fprintf(w, "%3d  %-20s %s %s\n",
			p.ID, p.Name,
			priceStyle.Render(formatPrice(p.Price)),
			mutedStyle.Render("/ "+p.Unit+"  ["+p.Category+"]"))
	}
}

func printOrders(w io.Writer, orders []models.Order) {
	if len(orders) == 0 {
		printWarning(w, "You haven't placed any orders yet.")
		return
	}
	for _, o := range orders {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			headerStyle.Render("Order #"+shortID(o.ID)),
			mutedStyle.Render(o.Date.Format("Jan 2, 2006")),
			priceStyle.Render(formatPrice(o.Total)),
			o.Status)
		for _, item := range o.Items {
			fmt.Fprintf(w, "      %s x%d\n", item.Name, item.Quantity)
		}
	}
}

// shortID is the 8-character upper-case order reference shown to customers.
func shortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}
