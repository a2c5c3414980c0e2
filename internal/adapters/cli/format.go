package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agilstore/core/internal/domain/entities"
)

// PriceFormatter renders prices for a locale and currency
type PriceFormatter struct {
	printer  *message.Printer
	unit     currency.Unit
	fallback string
}

// NewPriceFormatter falls back to a plain two-decimal rendering when the
// locale or the currency code cannot be resolved.
func NewPriceFormatter(locale, code string) *PriceFormatter {
	f := &PriceFormatter{fallback: "R$"}
	if code != "BRL" && code != "" {
		f.fallback = code
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return f
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return f
	}

	f.printer = message.NewPrinter(tag)
	f.unit = unit
	return f
}

// Localized reports whether locale formatting is in use
func (f *PriceFormatter) Localized() bool {
	return f.printer != nil
}

func (f *PriceFormatter) Format(v float64) string {
	if f.printer == nil {
		return fmt.Sprintf("%s %s", f.fallback, decimal.NewFromFloat(v).StringFixed(2))
	}
	return f.printer.Sprintf("%v %.2f", currency.Symbol(f.unit), v)
}

var tableHeaders = []string{"ID", "Nome do Produto", "Categoria", "Quantidade", "Preço"}

// renderTable writes products as an aligned table framed by rules
func renderTable(c *Console, prices *PriceFormatter, products []entities.Product) {
	if len(products) == 0 {
		c.Println("Nenhum produto para exibir.")
		return
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 1, ' ', 0)
	writeRow(tw, tableHeaders...)
	for _, p := range products {
		writeRow(tw,
			fmt.Sprint(p.ID),
			p.Name,
			p.Category,
			fmt.Sprint(p.Quantity),
			prices.Format(p.Price),
		)
	}
	tw.Flush()

	// header and rows share one tabwriter block so the columns line up
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	c.Println(lines[0])
	c.Rule()
	for _, line := range lines[1:] {
		c.Println(line)
	}
	c.Rule()
}

func writeRow(w io.Writer, cells ...string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "| ")
		}
		fmt.Fprint(w, cell)
		if i < len(cells)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)
}

// renderDetail writes one product as a labelled block
func renderDetail(c *Console, prices *PriceFormatter, p entities.Product) {
	c.Rule()
	c.Println("Detalhes do Produto")
	c.Rule()
	c.Printf("ID: %d\n", p.ID)
	c.Printf("Nome: %s\n", p.Name)
	c.Printf("Categoria: %s\n", p.Category)
	c.Printf("Quantidade: %d\n", p.Quantity)
	c.Printf("Preço: %s\n", prices.Format(p.Price))
	c.Rule()
}

// renderSummary writes one product on a single line
func renderSummary(c *Console, prices *PriceFormatter, label string, p entities.Product) {
	c.Printf("%s #%d %s | %s | %d | %s\n", label, p.ID, p.Name, p.Category, p.Quantity, prices.Format(p.Price))
}
