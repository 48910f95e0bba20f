package formclass

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/formclass/classgroup"
	"github.com/f3rmion/formclass/classno"
)

func TestParseFlags(t *testing.T) {
	t.Run("Flags", func(t *testing.T) {
		cfg, err := ParseFlags([]string{"-D", "-431", "-form", "22,91,99", "-form", "4,1,27", "-format", "json", "-hash", "abc", "-hasher", "mimc"})
		require.NoError(t, err)
		assert.Equal(t, "-431", cfg.Discriminant)
		assert.Equal(t, []string{"22,91,99", "4,1,27"}, cfg.Forms)
		assert.Equal(t, []string{"abc"}, cfg.Hash)
		assert.Equal(t, "mimc", cfg.Hasher)
		assert.Equal(t, FormatJSON, cfg.Format)
		assert.Equal(t, "-", cfg.OutPath)
		assert.Equal(t, "WARN", cfg.Log.Level)
	})

	t.Run("Errors", func(t *testing.T) {
		for _, args := range [][]string{
			{},
			{"-D", "abc"},
			{"-D", "-431", "-format", "xml"},
			{"-D", "-431", "-form", "1,2"},
			{"-D", "-431", "-form", "1,x,3"},
			{"-D", "-431", "-hasher", "md5"},
			{"-D", "-431", "-random", "-1"},
			{"-D", "-431", "-config", "/does/not/exist.yaml"},
			{"-bogus"},
		} {
			_, err := ParseFlags(args)
			assert.Error(t, err, "args %v", args)
		}
	})

	t.Run("ConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "formclass.yaml")
		yaml := []byte(`discriminant: -3108
forms:
  - "11,4,71"
format: cbor
maxdiscriminant: "100000"
log:
  level: DEBUG
`)
		require.NoError(t, os.WriteFile(path, yaml, 0o600))

		cfg, err := ParseFlags([]string{"-config", path, "-format", "text"})
		require.NoError(t, err)
		assert.Equal(t, "-3108", cfg.Discriminant)
		assert.Equal(t, []string{"11,4,71"}, cfg.Forms)
		assert.Equal(t, "100000", cfg.MaxDiscriminant)
		assert.Equal(t, "DEBUG", cfg.Log.Level)
		// flags win over the file
		assert.Equal(t, FormatText, cfg.Format)
	})
}

func TestRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Discriminant = "-431"
	cfg.Forms = []string{"22,91,99", "4,1,27"}
	cfg.Hash = []string{"hello"}
	cfg.Random = 2

	t.Run("Text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Run(cfg, &buf))
		out := buf.String()
		assert.Contains(t, out, "Form Class Group of Discriminant -431")
		assert.Contains(t, out, "class number: 21")
		assert.Contains(t, out, "structure: Z/21")
		assert.Contains(t, out, "(22, 91, 99) -> Class of 5*x^2 - 3*x*y + 22*y^2  order 21")
		assert.Contains(t, out, "(4, 1, 27) -> Class of 4*x^2 + x*y + 27*y^2  order 7")
	})

	t.Run("JSON", func(t *testing.T) {
		c := *cfg
		c.Format = FormatJSON
		var buf bytes.Buffer
		require.NoError(t, Run(&c, &buf))

		var rep Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
		assert.Equal(t, "21", rep.ClassNumber)
		assert.Equal(t, []string{"21"}, rep.Invariants)
		require.Len(t, rep.Generators, 1)
		assert.Equal(t, "21", rep.Generators[0].Order)
		assert.Equal(t, []string{"1"}, rep.Generators[0].Log)
		require.Len(t, rep.Classes, 5)
		assert.Equal(t, "(5, -3, 22)", rep.Classes[0].Reduced)
		assert.Equal(t, "random", rep.Classes[4].Source)
	})

	t.Run("CBOR", func(t *testing.T) {
		c := *cfg
		c.Format = FormatCBOR
		var buf bytes.Buffer
		require.NoError(t, Run(&c, &buf))

		var rep Report
		require.NoError(t, cbor.Unmarshal(buf.Bytes(), &rep))
		assert.Equal(t, "-431", rep.Discriminant)
		assert.Equal(t, "Z/21", rep.Structure)
	})

	t.Run("Errors", func(t *testing.T) {
		bad := DefaultConfig()
		bad.Discriminant = "-431"
		bad.Forms = []string{"2,1,3"}
		assert.ErrorIs(t, Run(bad, &bytes.Buffer{}), classgroup.ErrWrongDiscriminant)

		bad.Forms = nil
		bad.Discriminant = "101"
		assert.ErrorIs(t, Run(bad, &bytes.Buffer{}), classgroup.ErrUnsupportedDiscriminant)

		saved := classno.MaxDiscriminant
		defer func() { classno.MaxDiscriminant = saved }()
		bad.Discriminant = "-99999"
		bad.MaxDiscriminant = "1000"
		assert.ErrorIs(t, Run(bad, &bytes.Buffer{}), classno.ErrDiscriminantTooLarge)
		assert.Equal(t, 0, classno.MaxDiscriminant.Cmp(big.NewInt(1000)))
	})
}
