// Package output formats CLI results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.Bold)
)

// Success prints a success message with a green checkmark.
func Success(format string, args ...interface{}) {
	successColor.Printf("✓ "+format+"\n", args...)
}

// Error prints an error message with a red cross to stderr.
func Error(format string, args ...interface{}) {
	errorColor.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// Info prints a plain informational message.
func Info(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Warn prints a warning message with a yellow marker.
func Warn(format string, args ...interface{}) {
	warnColor.Printf("⚠ "+format+"\n", args...)
}

// JSON prints v as indented JSON.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows of columns with aligned widths.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, col := range row {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	for i, h := range t.headers {
		headerColor.Printf("%-*s", widths[i], h)
		if i < len(t.headers)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	for i, w := range widths {
		fmt.Print(strings.Repeat("-", w))
		if i < len(widths)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	for _, row := range t.rows {
		for i, col := range row {
			if i < len(widths) {
				fmt.Printf("%-*s", widths[i], col)
				if i < len(row)-1 {
					fmt.Print("  ")
				}
			}
		}
		fmt.Println()
	}
}
