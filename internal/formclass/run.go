// Package formclass implements the formclass command: it computes the form
// class group of a negative discriminant and classifies forms in it.
package formclass

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/f3rmion/formclass/classgroup"
	"github.com/f3rmion/formclass/classno"
	"github.com/f3rmion/formclass/internal/logger"
)

// Report is the result of one run.
type Report struct {
	Discriminant string        `json:"discriminant"`
	Group        string        `json:"group"`
	ClassNumber  string        `json:"class_number"`
	Structure    string        `json:"structure"`
	Invariants   []string      `json:"invariants"`
	Generators   []ClassReport `json:"generators"`
	Classes      []ClassReport `json:"classes,omitempty"`
}

// ClassReport describes a single class.
type ClassReport struct {
	// Source says where the class came from: an input form, a hashed
	// message, "random" or "generator".
	Source   string   `json:"source"`
	Class    string   `json:"class"`
	Reduced  string   `json:"reduced"`
	Order    string   `json:"order"`
	Log      []string `json:"log"`
	Encoding string   `json:"encoding"`
}

// Run computes the report described by cfg and writes it to w in the
// configured format.
func Run(cfg *Config, w io.Writer) error {
	if cfg.MaxDiscriminant != "" {
		m, err := parseInt(cfg.MaxDiscriminant, "max-disc")
		if err != nil {
			return err
		}
		classno.MaxDiscriminant = m.Abs(m)
	}
	d, err := parseInt(cfg.Discriminant, "D")
	if err != nil {
		return err
	}

	start := time.Now()
	rep, err := Compute(d, cfg)
	if err != nil {
		return err
	}
	logger.SugarLogger.Infow("computed class group",
		"D", rep.Discriminant, "h", rep.ClassNumber, "structure", rep.Structure,
		"classes", len(rep.Classes), "elapsed", time.Since(start))

	switch cfg.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatCBOR:
		return cbor.NewEncoder(w).Encode(rep)
	default:
		return writeText(w, rep)
	}
}

// Compute builds the report for discriminant d.
func Compute(d *big.Int, cfg *Config) (*Report, error) {
	g, err := classgroup.New(d)
	if err != nil {
		return nil, err
	}
	h, err := g.Order()
	if err != nil {
		return nil, err
	}
	st, err := g.Structure()
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Discriminant: d.String(),
		Group:        g.String(),
		ClassNumber:  h.String(),
		Structure:    st.String(),
		Invariants:   bigStrings(st.Invariants()),
	}
	for _, e := range st.Gens() {
		cr, err := describe("generator", e)
		if err != nil {
			return nil, err
		}
		rep.Generators = append(rep.Generators, cr)
	}

	for _, s := range cfg.Forms {
		f, err := parseForm(s)
		if err != nil {
			return nil, err
		}
		e, err := g.Element(f)
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", s, err)
		}
		cr, err := describe(fmt.Sprintf("%d", f), e)
		if err != nil {
			return nil, err
		}
		rep.Classes = append(rep.Classes, cr)
	}

	if len(cfg.Hash) > 0 {
		hasher, err := parseHasher(cfg.Hasher)
		if err != nil {
			return nil, err
		}
		for _, msg := range cfg.Hash {
			e, err := g.HashToElement(hasher, []byte(msg))
			if err != nil {
				return nil, err
			}
			cr, err := describe(fmt.Sprintf("hash(%q)", msg), e)
			if err != nil {
				return nil, err
			}
			rep.Classes = append(rep.Classes, cr)
		}
	}

	for i := 0; i < cfg.Random; i++ {
		e, err := g.RandomElement(nil)
		if err != nil {
			return nil, err
		}
		cr, err := describe("random", e)
		if err != nil {
			return nil, err
		}
		rep.Classes = append(rep.Classes, cr)
	}
	return rep, nil
}

func describe(source string, e *classgroup.Element) (ClassReport, error) {
	o, err := e.Order()
	if err != nil {
		return ClassReport{}, err
	}
	dlog, err := e.Parent().DiscreteLog(e)
	if err != nil {
		return ClassReport{}, err
	}
	return ClassReport{
		Source:   source,
		Class:    e.String(),
		Reduced:  fmt.Sprintf("%d", e.Form()),
		Order:    o.String(),
		Log:      bigStrings(dlog),
		Encoding: hex.EncodeToString(e.Form().Bytes()),
	}, nil
}

func bigStrings(ns []*big.Int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.String()
	}
	return out
}

func writeText(w io.Writer, rep *Report) error {
	var sb strings.Builder
	fmt.Fprintln(&sb, rep.Group)
	fmt.Fprintf(&sb, "class number: %s\n", rep.ClassNumber)
	fmt.Fprintf(&sb, "structure: %s\n", rep.Structure)
	fmt.Fprintln(&sb, "generators:")
	for _, c := range rep.Generators {
		fmt.Fprintf(&sb, "  %s  order %s\n", c.Class, c.Order)
	}
	if len(rep.Classes) > 0 {
		fmt.Fprintln(&sb, "classes:")
	}
	for _, c := range rep.Classes {
		fmt.Fprintf(&sb, "  %s -> %s  order %s  log [%s]\n", c.Source, c.Class, c.Order, strings.Join(c.Log, " "))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
