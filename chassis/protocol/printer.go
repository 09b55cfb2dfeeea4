package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Format - output format of command results
type Format string

// Supported output formats
const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat ...
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", errors.Errorf("unknown output format: %s (supported: text, json, yaml)", s)
	}
}

// Printer writes records to stdout in the selected format.
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter ...
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{out: out, format: format}
}

// Print ...
func (p *Printer) Print(r Record) error {
	switch p.format {
	case JSON:
		bin, err := json.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "encoding json")
		}
		_, err = fmt.Fprintln(p.out, string(bin))
		return err
	case YAML:
		bin, err := yaml.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		_, err = fmt.Fprintf(p.out, "---\n%s", bin)
		return err
	default:
		_, err := fmt.Fprintln(p.out, r.String())
		return err
	}
}
