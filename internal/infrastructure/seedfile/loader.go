// Package seedfile lee los registros semilla de usuarios desde disco.
package seedfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/usuarios-rbac/internal/application/dto"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
)

// Options opciones de lectura.
type Options struct {
	// Encoding "utf-8" (por defecto) o "latin1"/"iso-8859-1" para exportaciones antiguas.
	Encoding string
}

// Load lee un archivo .json, .yaml o .yml con una lista de {id, nombre, rol, renta_mensual}.
func Load(path string, opts Options) ([]entity.SeedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir seed: %w", err)
	}
	defer f.Close()
	return Decode(f, formatFromPath(path), opts)
}

// Format formato del archivo semilla.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode lee registros desde r en el formato indicado.
func Decode(r io.Reader, format Format, opts Options) ([]entity.SeedRecord, error) {
	switch strings.ToLower(opts.Encoding) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("seed: encoding %q no soportado", opts.Encoding)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer seed: %w", err)
	}

	var raw []dto.SeedUsuario
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decodificar seed YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decodificar seed JSON: %w", err)
		}
	}

	out := make([]entity.SeedRecord, 0, len(raw))
	for _, u := range raw {
		out = append(out, u.ToEntity())
	}
	return out, nil
}
