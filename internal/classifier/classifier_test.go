package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casaflow/aicore/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   domain.Intent
	}{
		{
			name:   "design keywords only",
			prompt: "el color y el estilo de la pantalla principal",
			want:   domain.IntentDesign,
		},
		{
			name:   "logic keywords only",
			prompt: "la regla de negocio del presupuesto está mal",
			want:   domain.IntentLogic,
		},
		{
			name:   "no keywords",
			prompt: "hola, necesito ayuda",
			want:   domain.IntentMixed,
		},
		{
			name:   "empty prompt",
			prompt: "",
			want:   domain.IntentMixed,
		},
		{
			name:   "equal nonzero scores tie to mixed",
			prompt: "necesito ayuda con el color del botón y la validación del formulario",
			want:   domain.IntentMixed,
		},
		{
			name:   "design outweighs logic",
			prompt: "el color, el estilo y el layout del formulario",
			want:   domain.IntentDesign,
		},
		{
			name:   "case insensitive",
			prompt: "EL COLOR DEL LAYOUT",
			want:   domain.IntentDesign,
		},
		{
			name:   "english keywords",
			prompt: "the layout looks wrong and the visual spacing is off",
			want:   domain.IntentDesign,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.prompt))
		})
	}
}

func TestClassifyRepetitionNotWeighted(t *testing.T) {
	// "color" repeated three times still counts once, so one logic keyword
	// plus one design keyword is a tie.
	got := Classify("color color color y la validación")
	assert.Equal(t, domain.IntentMixed, got)
}

func TestClassifyDeterministic(t *testing.T) {
	prompt := "botón con validación"
	first := Classify(prompt)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(prompt))
	}
}
