package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hassan/allium/internal/diag"
	"github.com/hassan/allium/internal/source"
)

func TestScanFile_Listing(t *testing.T) {
	var out, logOut, logErr bytes.Buffer
	log := diag.NewLogger(&logOut, &logErr, diag.Config{Level: diag.LevelInfo})

	ok := scanFile(log, &out, source.FromString("main.al", "x = 1 // one\n"), listing{})
	assert.True(t, ok)

	want := strings.Join([]string{
		`main.al:1:1          IDENT          "x"`,
		`main.al:1:3          PUNCT          "="`,
		`main.al:1:5          NUMBER         "1"`,
		"",
	}, "\n")
	assert.Equal(t, want, out.String())
	assert.Empty(t, logErr.String())
}

func TestScanFile_Breaks(t *testing.T) {
	var out bytes.Buffer
	log := diag.NewLogger(&bytes.Buffer{}, &bytes.Buffer{}, diag.Config{})

	scanFile(log, &out, source.FromString("b.al", "a // c"), listing{breaks: true})
	assert.Contains(t, out.String(), "WHITESPACE")
	assert.Contains(t, out.String(), `LINE_COMMENT   "// c"`)
}

func TestScanFile_ReportsAndResumes(t *testing.T) {
	var out, logErr bytes.Buffer
	log := diag.NewLogger(&bytes.Buffer{}, &logErr, diag.Config{Level: diag.LevelInfo})

	ok := scanFile(log, &out, source.FromString("bad.al", "a ; b"), listing{})
	assert.False(t, ok)
	assert.Contains(t, logErr.String(), "[ERR] unexpected character ';'")
	assert.Contains(t, logErr.String(), "--> bad.al:1:3")
	assert.Contains(t, out.String(), `"b"`, "scanning continues after the report")
}

func TestScanFile_Dump(t *testing.T) {
	var out bytes.Buffer
	log := diag.NewLogger(&bytes.Buffer{}, &bytes.Buffer{}, diag.Config{})

	scanFile(log, &out, source.FromString("d.al", "r#if"), listing{dump: true})
	got := out.String()
	assert.Contains(t, got, `Kind: "RAW_IDENT"`)
	assert.Contains(t, got, `Text: "r#if"`)
	assert.Contains(t, got, `At: "d.al:1:1"`)
	assert.Contains(t, got, "Len: 4")
}

func TestScanFile_FatalEncodingError(t *testing.T) {
	var logErr bytes.Buffer
	log := diag.NewLogger(&bytes.Buffer{}, &logErr, diag.Config{})

	ok := scanFile(log, &bytes.Buffer{}, source.FromString("bin.al", "ok \xc3"), listing{})
	assert.False(t, ok)
	assert.Contains(t, logErr.String(), "bin.al")
}
