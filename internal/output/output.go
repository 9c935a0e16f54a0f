package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(format string) (Format, error) {
	switch Format(strings.ToLower(format)) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s. Expect table, json or yaml", format)
	}
}

// Tabular values render as a table, anything else falls back to YAML in
// table mode.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

type Printer struct {
	w      io.Writer
	format Format
	query  *gojq.Code
}

// NewPrinter creates a printer. A non-empty expression is compiled as a jq
// filter and applied to every printed value.
func NewPrinter(w io.Writer, format Format, expression string) (*Printer, error) {

	printer := &Printer{
		w:      w,
		format: format,
	}

	if len(strings.TrimSpace(expression)) == 0 {
		return printer, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq expression: %s, error: %w", expression, err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %s, error: %w", expression, err)
	}

	printer.query = code

	return printer, nil
}

func (p *Printer) Print(value any) error {

	if p.query != nil {
		results, err := p.filter(value)
		if err != nil {
			return err
		}
		for _, result := range results {
			if err := p.encode(result); err != nil {
				return err
			}
		}
		return nil
	}

	if tabular, ok := value.(Tabular); ok && p.format == FormatTable {
		_, err := fmt.Fprintln(p.w, renderTable(tabular))
		return err
	}

	return p.encode(value)
}

// PrintRaw writes a device response unchanged, adding a trailing newline
// when it lacks one.
func (p *Printer) PrintRaw(body []byte) error {
	if _, err := p.w.Write(body); err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		_, err := io.WriteString(p.w, "\n")
		return err
	}
	return nil
}

// filter runs the jq query. gojq only accepts plain maps, slices and
// scalars, so the value goes through a JSON round trip first.
func (p *Printer) filter(value any) ([]any, error) {

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var input any
	if err := json.Unmarshal(encoded, &input); err != nil {
		return nil, err
	}

	var results []any
	iter := p.query.Run(input)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := result.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}
			return nil, fmt.Errorf("jq evaluation error: %w", err)
		}
		results = append(results, result)
	}

	return results, nil
}

func (p *Printer) encode(value any) error {
	switch p.format {
	case FormatJSON:
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case FormatTable:
		// jq results are usually scalars, print those bare.
		switch v := value.(type) {
		case string:
			_, err := fmt.Fprintln(p.w, v)
			return err
		case float64, int, bool, nil:
			_, err := fmt.Fprintln(p.w, v)
			return err
		}
		return p.encodeYAML(value)
	default:
		return p.encodeYAML(value)
	}
}

func (p *Printer) encodeYAML(value any) error {
	encoder := yaml.NewEncoder(p.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}

func renderTable(tabular Tabular) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(tabular.Headers()...).
		Rows(tabular.Rows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
