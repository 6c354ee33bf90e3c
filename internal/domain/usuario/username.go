// Package usuario reúne las reglas puras sobre usuarios: derivación de username
// y alcance de visibilidad por rol.
package usuario

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	usernameSep      = '_'
	fallbackUsername = "usuario"
)

// DeriveUsername genera el username determinista a partir del nombre y el id.
//
//	"Valentina Ríos", 7  -> "valentina_rios_7"
//	"  José-Luis  Peña", 12 -> "jose_luis_pena_12"
//
// Quita diacríticos, descarta lo que no sea ASCII, pasa a minúsculas y colapsa
// cualquier tramo de caracteres fuera de [a-z0-9] en un único "_". El sufijo
// _<id> garantiza unicidad.
func DeriveUsername(nombre string, id int64) string {
	base := Slugify(nombre)
	if base == "" {
		base = fallbackUsername
	}
	return base + string(usernameSep) + strconv.FormatInt(id, 10)
}

// Slugify normaliza un nombre a [a-z0-9_] sin separadores al inicio ni al final.
func Slugify(nombre string) string {
	// transform.Chain guarda estado: se construye uno por llamada.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, nombre)
	if err != nil {
		plain = nombre
	}
	plain = strings.ToLower(plain)

	var b strings.Builder
	b.Grow(len(plain))
	pendingSep := false
	for _, r := range plain {
		// Letras sin descomposición (ß, ø, ł, đ) se descartan sin dejar separador.
		if r > unicode.MaxASCII {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteRune(usernameSep)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
