package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"anymarket-cloner/internal/anymarket"
	"anymarket-cloner/internal/cloner"
)

// Prompter collects run instructions interactively before any request is
// made, so the batch itself never blocks on input.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// ReadLine prints a label and reads one trimmed line.
func (p *Prompter) ReadLine(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// CollectAssignments asks for a new partner code and EAN for every SKU of a
// variation product and returns the fully materialized list.
func (p *Prompter) CollectAssignments(skus []anymarket.Sku) ([]cloner.SkuAssignment, error) {
	assignments := make([]cloner.SkuAssignment, 0, len(skus))
	fmt.Fprintf(p.out, "Product has %d variation(s)\n", len(skus))

	for i, sku := range skus {
		fmt.Fprintf(p.out, "\nVariation %d/%d", i+1, len(skus))
		if values := sku.Variations.Values(); len(values) > 0 {
			parts := make([]string, 0, len(values))
			for name, value := range values {
				parts = append(parts, name+"="+value)
			}
			fmt.Fprintf(p.out, " (%s)", strings.Join(parts, ", "))
		}
		fmt.Fprintln(p.out)

		partnerID, err := p.ReadLine("New SKU")
		if err != nil {
			return nil, err
		}
		ean, err := p.ReadLine("New EAN")
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, cloner.SkuAssignment{PartnerID: partnerID, EAN: ean})
	}
	return assignments, nil
}
