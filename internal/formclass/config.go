package formclass

import (
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/f3rmion/formclass/bqf"
	"github.com/f3rmion/formclass/classgroup"
	"github.com/f3rmion/formclass/internal/logger"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Config holds the settings of one formclass invocation. Values are read
// from an optional YAML file first and then overridden by flags.
type Config struct {
	Discriminant    string         `mapstructure:"discriminant"`
	Forms           []string       `mapstructure:"forms"`  // "a,b,c"
	Hash            []string       `mapstructure:"hash"`   // messages hashed to classes
	Hasher          string         `mapstructure:"hasher"` // sha256|blake2b|mimc
	Random          int            `mapstructure:"random"`
	Format          Format         `mapstructure:"format"`
	OutPath         string         `mapstructure:"out"` // "-" for stdout
	MaxDiscriminant string         `mapstructure:"maxdiscriminant"`
	Log             *logger.Config `mapstructure:"log"`
}

// DefaultConfig returns the settings used when neither a file nor a flag
// overrides them.
func DefaultConfig() *Config {
	return &Config{
		Hasher:  "sha256",
		Format:  FormatText,
		OutPath: "-",
		Log:     logger.DefaultConfig(),
	}
}

// ParseFlags parses the command line into a validated Config.
func ParseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("formclass", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var forms, hashes []string
	var (
		dStr      = fs.String("D", "", "negative discriminant (decimal, required)")
		cfgPath   = fs.String("config", "", "optional YAML config file")
		formatStr = fs.String("format", string(FormatText), "output format: text|json|cbor")
		outPath   = fs.String("out", "-", "output file path, or - for stdout")
		hasherStr = fs.String("hasher", "sha256", "hasher for -hash: sha256|blake2b|mimc")
		random    = fs.Int("random", 0, "number of random classes to print")
		maxDisc   = fs.String("max-disc", "", "largest |D| to compute class groups for")
		logLevel  = fs.String("log-level", "", "log level: DEBUG|INFO|WARN|ERROR")
		logFile   = fs.String("log-file", "", "log file (default stderr)")
	)
	fs.Func("form", "form a,b,c to classify (repeatable)", func(s string) error {
		forms = append(forms, s)
		return nil
	})
	fs.Func("hash", "message to hash to a class (repeatable)", func(s string) error {
		hashes = append(hashes, s)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if *cfgPath != "" {
		if err := loadFile(*cfgPath, cfg); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "D":
			cfg.Discriminant = *dStr
		case "format":
			cfg.Format = Format(*formatStr)
		case "out":
			cfg.OutPath = *outPath
		case "hasher":
			cfg.Hasher = *hasherStr
		case "random":
			cfg.Random = *random
		case "max-disc":
			cfg.MaxDiscriminant = *maxDisc
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-file":
			cfg.Log.FileName = *logFile
		case "form":
			cfg.Forms = forms
		case "hash":
			cfg.Hash = hashes
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Log == nil {
		cfg.Log = logger.DefaultConfig()
	}
	return nil
}

// Validate checks that all values parse, so that Run only fails on
// mathematical errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Discriminant) == "" {
		return errors.New("missing required -D")
	}
	if _, err := parseInt(c.Discriminant, "D"); err != nil {
		return err
	}
	if c.MaxDiscriminant != "" {
		if _, err := parseInt(c.MaxDiscriminant, "max-disc"); err != nil {
			return err
		}
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatCBOR:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if _, err := parseHasher(c.Hasher); err != nil {
		return err
	}
	if c.Random < 0 {
		return fmt.Errorf("negative -random: %d", c.Random)
	}
	for _, s := range c.Forms {
		if _, err := parseForm(s); err != nil {
			return err
		}
	}
	return nil
}

func parseInt(s, name string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer for -%s: %q", name, s)
	}
	return n, nil
}

// parseForm parses "a,b,c".
func parseForm(s string) (*bqf.Form, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("form %q: want a,b,c", s)
	}
	var coef [3]*big.Int
	for i, p := range parts {
		n, err := parseInt(p, "form")
		if err != nil {
			return nil, err
		}
		coef[i] = n
	}
	return bqf.New(coef[0], coef[1], coef[2]), nil
}

func parseHasher(s string) (classgroup.Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sha256":
		return &classgroup.SHA256Hasher{}, nil
	case "blake2b":
		return classgroup.NewBlake2bHasher(), nil
	case "mimc":
		return &classgroup.MiMCHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", s)
	}
}
