// Package classifier maps a free-text prompt to an intent category using
// keyword-presence scoring.
package classifier

import (
	"strings"

	"github.com/casaflow/aicore/domain"
)

// Keyword sets are bilingual because the product serves Spanish-speaking
// agencies while technical staff often write in English.
var designKeywords = []string{
	"color", "botón", "boton", "diseño", "diseno", "interfaz", "estilo",
	"pantalla", "layout", "visual", "tipografía", "tipografia", "icono",
	"usabilidad", "apariencia", "maqueta", "responsive", "estética", "estetica",
}

var logicKeywords = []string{
	"validación", "validacion", "formulario", "lógica", "logica", "cálculo",
	"calculo", "regla", "negocio", "base de datos", "algoritmo", "proceso",
	"integración", "integracion", "permiso", "flujo", "consulta", "reporte",
	"presupuesto",
}

// Classify assigns an intent category to the prompt. It is deterministic and
// pure: case-insensitive substring presence, scored by distinct keywords (not
// weighted by repetition). Both scores zero or a nonzero tie yield IntentMixed.
func Classify(prompt string) domain.Intent {
	p := strings.ToLower(prompt)
	design := score(p, designKeywords)
	logic := score(p, logicKeywords)

	switch {
	case design == 0 && logic == 0:
		return domain.IntentMixed
	case design > logic:
		return domain.IntentDesign
	case logic > design:
		return domain.IntentLogic
	default:
		return domain.IntentMixed
	}
}

func score(prompt string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(prompt, kw) {
			n++
		}
	}
	return n
}
