package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/prompt"
)

func TestBuildQuiz(t *testing.T) {
	p := prompt.BuildQuiz("Fotosíntesis", models.Medio, 5)

	assert.Contains(t, p, `Genera exactamente 5 preguntas de opción múltiple sobre el tema: "Fotosíntesis".`)
	assert.Contains(t, p, "NIVEL DE DIFICULTAD: MEDIO")
	assert.Contains(t, p, prompt.QuizDifficultyText(models.Medio))
	assert.Contains(t, p, "Responde ÚNICAMENTE con un array JSON válido")
	assert.Contains(t, p, `"options": ["Opción A", "Opción B", "Opción C", "Opción D"]`)
	assert.Contains(t, p, `"correct": 0`)
	assert.NotContains(t, p, `"""`)
}

func TestBuildQuizFromText_EmbedsSource(t *testing.T) {
	text := "La mitocondria produce energía para la célula."
	p := prompt.BuildQuizFromText(text, models.Facil, 3)

	assert.Contains(t, p, "genera exactamente 3 preguntas")
	assert.Contains(t, p, "\"\"\"\n"+text+"\n\"\"\"")
	assert.Contains(t, p, "No inventes información que no esté en el texto")
	assert.Contains(t, p, "NIVEL DE DIFICULTAD: FACIL")
}

func TestBuildGuide_FiveSections(t *testing.T) {
	p := prompt.BuildGuide("Revolución Francesa", models.Experto)

	assert.Contains(t, p, `Crea una guía de estudio detallada sobre: "Revolución Francesa".`)
	assert.Contains(t, p, prompt.GuideDifficultyText(models.Experto))
	for _, section := range []string{"1. Una introducción", "2. Conceptos clave", "3. Ejemplos prácticos", "4. Aplicaciones", "5. Recursos adicionales"} {
		assert.Contains(t, p, section)
	}
	assert.NotContains(t, p, "6. ")
}

func TestBuildGuideFromText_IncludesReviewQuestions(t *testing.T) {
	p := prompt.BuildGuideFromText("Texto de prueba", models.Dificil)
	assert.Contains(t, p, "6. Preguntas de repaso basadas en el texto")
	assert.Contains(t, p, "\"\"\"\nTexto de prueba\n\"\"\"")
}

func TestDifficultyTablesAreComplete(t *testing.T) {
	for _, d := range models.Difficulties {
		assert.NotEmpty(t, prompt.QuizDifficultyText(d), d)
		assert.NotEmpty(t, prompt.GuideDifficultyText(d), d)
	}
}

func TestBuild_Dispatch(t *testing.T) {
	tests := []struct {
		name string
		req  models.GenerationRequest
		want string
	}{
		{"topic quiz", models.GenerationRequest{Mode: models.ModeQuiz, Topic: "Átomos", Difficulty: models.Facil, QuestionCount: 4}, "Genera exactamente 4"},
		{"text quiz", models.GenerationRequest{Mode: models.ModeQuiz, SourceText: "abc", Difficulty: models.Facil, QuestionCount: 4}, "Basado en el siguiente texto de estudio"},
		{"topic guide", models.GenerationRequest{Mode: models.ModeGuide, Topic: "Átomos", Difficulty: models.Medio}, "Crea una guía de estudio"},
		{"text guide", models.GenerationRequest{Mode: models.ModeGuide, SourceText: "abc", Difficulty: models.Medio}, "crea una guía de estudio detallada y estructurada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, strings.Contains(prompt.Build(tt.req), tt.want))
		})
	}
}

func TestTemplates(t *testing.T) {
	c := prompt.Templates()
	assert.Equal(t, "Reemplaza {topic} con tu tema específico", c.Usage)
	assert.Len(t, c.Templates["quiz"], 3)
	assert.Len(t, c.Templates["guide"], 3)

	c.Templates["quiz"]["basic"] = "changed"
	assert.NotEqual(t, "changed", prompt.Templates().Templates["quiz"]["basic"])
}
