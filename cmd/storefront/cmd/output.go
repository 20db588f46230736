package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/closetlabs/storefront/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func formatPrice(p domain.DisplayProduct) string {
	switch p.PricingOption {
	case domain.PricingFree:
		return "FREE"
	case domain.PricingViewOnly:
		return "VIEW ONLY"
	default:
		return fmt.Sprintf("$%.2f", p.Price)
	}
}

func printProductsTable(products []domain.DisplayProduct) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("TITLE\tCREATOR\tPRICE\tVIEWS\tLIKES\n")
	for i := range products {
		tw.writef("%s\t%s\t%s\t%d\t%d\n",
			truncate(products[i].Title, 40),
			products[i].Username,
			formatPrice(products[i]),
			products[i].Views,
			products[i].Likes,
		)
	}
	return tw.finish()
}

func printProductDetail(p *domain.DisplayProduct) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("Title:\t%s\n", p.Title)
	tw.writef("Creator:\t%s\n", p.Username)
	tw.writef("Pricing:\t%s\n", p.PricingOption)
	tw.writef("Price:\t%s\n", formatPrice(*p))
	tw.writef("Views:\t%d\n", p.Views)
	tw.writef("Likes:\t%d\n", p.Likes)
	tw.writef("Image:\t%s\n", p.Image)
	return tw.finish()
}

func printCartDetail(c *domain.Cart) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("PRODUCT\tTITLE\tQUANTITY\n")
	for i := range c.Items {
		title := "-"
		if c.Items[i].Product != nil {
			title = truncate(c.Items[i].Product.Title, 40)
		}
		tw.writef("%s\t%s\t%d\n",
			c.Items[i].ProductID,
			title,
			c.Items[i].Quantity,
		)
	}
	tw.writef("\nItems:\t%d\n", c.ItemCount())
	tw.writef("Total:\t$%.2f\n", c.TotalAmount)
	return tw.finish()
}

func printUserDetail(u *domain.User) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", u.ID)
	tw.writef("Name:\t%s\n", u.Name)
	tw.writef("Email:\t%s\n", u.Email)
	if u.Role != "" {
		tw.writef("Role:\t%s\n", u.Role)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
