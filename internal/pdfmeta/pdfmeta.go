// Package pdfmeta extracts descriptive metadata from an uploaded PDF.
// Extraction is best-effort: a file the parser cannot handle yields no
// entries, never an error, so a bad PDF still uploads with its provenance
// metadata alone.
package pdfmeta

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/dslipak/pdf"

	"gabinetes/api/internal/store"
)

// Extract returns the pdf.* metadata entries for the document bytes.
func Extract(data []byte) (entries []store.MetadadoEntry) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if recover() != nil {
			entries = nil
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}

	add := func(nome, valor string) {
		valor = strings.TrimSpace(valor)
		if valor != "" {
			entries = append(entries, store.MetadadoEntry{Nome: nome, Valor: valor})
		}
	}

	add("pdf.pages", strconv.Itoa(reader.NumPage()))
	if v := headerVersion(data); v != "" {
		add("pdf.version", v)
		add("pdf.format_version", v)
	}

	trailer := reader.Trailer()

	info := trailer.Key("Info")
	if info.Kind() == pdf.Dict {
		add("pdf.title", info.Key("Title").Text())
		add("pdf.author", info.Key("Author").Text())
		add("pdf.subject", info.Key("Subject").Text())
		add("pdf.keywords", info.Key("Keywords").Text())
		add("pdf.creator", info.Key("Creator").Text())
		add("pdf.producer", info.Key("Producer").Text())
		add("pdf.creation_date_raw", info.Key("CreationDate").Text())
		add("pdf.mod_date_raw", info.Key("ModDate").Text())
	}

	root := trailer.Key("Root")
	if root.Kind() == pdf.Dict {
		if root.Key("AcroForm").Kind() != pdf.Null {
			add("pdf.is_acroform_present", "true")
		}
		if root.Key("Metadata").Kind() != pdf.Null {
			add("pdf.xmp_present", "true")
		}
	}

	return entries
}

// headerVersion reads the "%PDF-1.x" file header, e.g. "1.7".
func headerVersion(data []byte) string {
	const marker = "%PDF-"
	limit := len(data)
	if limit > 32 {
		limit = 32
	}
	idx := bytes.Index(data[:limit], []byte(marker))
	if idx < 0 {
		return ""
	}
	rest := data[idx+len(marker):]
	end := 0
	for end < len(rest) && end < 8 {
		c := rest[end]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		end++
	}
	return string(rest[:end])
}
