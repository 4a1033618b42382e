package compare

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates one row per tax plus a total row
func (cf *CSVFormatter) Format(c *TaxComparison) (string, error) {
	presumed := c.Presumed.Breakdown()

	rows := [][]string{{"Tax", "Simples Nacional", "Lucro Presumido"}}
	for _, s := range domain.SubTaxes() {
		rows = append(rows, []string{
			strings.ToUpper(string(s)),
			c.Simples.Breakdown.Get(s).StringFixed(2),
			presumed.Get(s).StringFixed(2),
		})
	}
	rows = append(rows,
		[]string{"TOTAL", c.Simples.TaxAmount.StringFixed(2), c.Presumed.Total.StringFixed(2)},
		[]string{"WINNER", string(c.Winner), c.Difference.StringFixed(2)},
	)

	return cf.write(rows)
}

// FormatEfficiency generates a single-row CSV of an efficiency report
func (cf *CSVFormatter) FormatEfficiency(r *EfficiencyReport) (string, error) {
	return cf.write([][]string{
		{
			"Client",
			"Invoiced",
			"Commerce Gross",
			"Service Gross",
			"Exempt Amount",
			"Simples Tax",
			"Presumido Tax",
			"Simples Is Better",
			"Economy",
			"Score",
		},
		{
			r.ClientName,
			r.Invoiced.StringFixed(2),
			r.Presumed.CommerceGross.StringFixed(2),
			r.Presumed.ServiceGross.StringFixed(2),
			r.Presumed.ExemptAmount.StringFixed(2),
			r.Simples.TaxAmount.StringFixed(2),
			r.Presumed.Total.StringFixed(2),
			fmt.Sprintf("%t", r.SimplesIsBetter),
			r.Economy.StringFixed(2),
			formatInt(r.Score),
		},
	})
}

func (cf *CSVFormatter) write(rows [][]string) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
