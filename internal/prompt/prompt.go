// Package prompt builds the Spanish instructions sent to the completion model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/vytor/studysmart/internal/models"
)

var quizDifficulty = map[models.Difficulty]string{
	models.Facil:   "Las preguntas deben ser básicas y para principiantes, con respuestas directas.",
	models.Medio:   "Las preguntas deben ser de nivel intermedio, requiriendo comprensión del tema.",
	models.Dificil: "Las preguntas deben ser avanzadas y desafiantes, requiriendo conocimiento profundo.",
	models.Experto: "Las preguntas deben ser de nivel experto, con detalles técnicos y conceptos avanzados.",
}

var guideDifficulty = map[models.Difficulty]string{
	models.Facil:   "Explica los conceptos básicos de manera simple y directa, como si estuvieras enseñando a alguien que recién comienza a aprender sobre el tema. Incluye ejemplos sencillos y evita jerga técnica compleja sin explicación.",
	models.Medio:   "Proporciona una explicación detallada del tema, asumiendo que la persona tiene un conocimiento básico. Incluye conceptos clave, ejemplos prácticos y aplicaciones del tema.",
	models.Dificil: "Ofrece un análisis en profundidad del tema, incluyendo conceptos avanzados, teorías y aplicaciones prácticas. Incluye ejemplos detallados y considera diferentes perspectivas o enfoques.",
	models.Experto: "Desarrolla una guía completa y detallada a nivel universitario o profesional. Incluye conceptos avanzados, investigación actual, estudios de caso y aplicaciones prácticas. No evites la terminología técnica, pero asegúrate de explicarla claramente.",
}

// QuizDifficultyText returns the fixed quiz sentence for a tier.
func QuizDifficultyText(d models.Difficulty) string { return quizDifficulty[d] }

// GuideDifficultyText returns the fixed guide sentence for a tier.
func GuideDifficultyText(d models.Difficulty) string { return guideDifficulty[d] }

const jsonOnlyDirective = "Responde ÚNICAMENTE con un array JSON válido, sin texto adicional antes o después."

func writeDifficulty(b *strings.Builder, d models.Difficulty, table map[models.Difficulty]string) {
	fmt.Fprintf(b, "NIVEL DE DIFICULTAD: %s\n", strings.ToUpper(string(d)))
	b.WriteString(table[d])
	b.WriteString("\n\n")
}

func writeSourceText(b *strings.Builder, text string) {
	b.WriteString("TEXTO DE ESTUDIO:\n\"\"\"\n")
	b.WriteString(text)
	b.WriteString("\n\"\"\"\n\n")
}

func writeQuizFormat(b *strings.Builder, questionHint, correctRule string) {
	b.WriteString(jsonOnlyDirective)
	b.WriteString("\n\nFormato requerido:\n[\n  {\n")
	fmt.Fprintf(b, "    \"question\": %q,\n", questionHint)
	b.WriteString("    \"options\": [\"Opción A\", \"Opción B\", \"Opción C\", \"Opción D\"],\n")
	b.WriteString("    \"correct\": 0\n  }\n]\n\n")
	b.WriteString(correctRule)
}

// BuildQuiz asks for exactly count questions about topic.
func BuildQuiz(topic string, d models.Difficulty, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Genera exactamente %d preguntas de opción múltiple sobre el tema: \"%s\".\n\n", count, topic)
	writeDifficulty(&b, d, quizDifficulty)
	writeQuizFormat(&b,
		"Pregunta clara y específica sobre el tema",
		"El campo \"correct\" debe ser el índice (0-3) de la respuesta correcta.\n"+
			"Asegúrate de que las preguntas sean educativas, las opciones sean plausibles y en español.\n"+
			"IMPORTANTE: Las opciones incorrectas deben ser convincentes y relacionadas con el tema.")
	return b.String()
}

// BuildQuizFromText asks for exactly count questions grounded in text only.
func BuildQuizFromText(text string, d models.Difficulty, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Basado en el siguiente texto de estudio, genera exactamente %d preguntas de opción múltiple:\n\n", count)
	writeSourceText(&b, text)
	writeDifficulty(&b, d, quizDifficulty)
	b.WriteString("INSTRUCCIONES IMPORTANTES:\n")
	b.WriteString("- Las preguntas deben basarse ESPECÍFICAMENTE en el contenido del texto proporcionado\n")
	b.WriteString("- No inventes información que no esté en el texto\n")
	b.WriteString("- Las preguntas deben evaluar la comprensión de los conceptos clave del texto\n")
	b.WriteString("- Las opciones incorrectas deben ser plausibles pero incorrectas según el texto\n\n")
	writeQuizFormat(&b,
		"Pregunta clara basada en el texto",
		"El campo \"correct\" debe ser el índice (0-3) de la respuesta correcta según el texto.")
	return b.String()
}

// BuildGuide asks for a five-section study guide on topic.
func BuildGuide(topic string, d models.Difficulty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crea una guía de estudio detallada sobre: \"%s\".\n\n", topic)
	writeDifficulty(&b, d, guideDifficulty)
	b.WriteString("La guía debe estar bien estructurada con secciones claras y debe incluir:\n")
	b.WriteString("1. Una introducción al tema\n")
	b.WriteString("2. Conceptos clave\n")
	b.WriteString("3. Ejemplos prácticos\n")
	b.WriteString("4. Aplicaciones en el mundo real\n")
	b.WriteString("5. Recursos adicionales para seguir aprendiendo\n\n")
	b.WriteString("Formato de respuesta:\n")
	b.WriteString("- Usa títulos en negrita para las secciones principales\n")
	b.WriteString("- Usa viñetas para listas\n")
	b.WriteString("- Incluye ejemplos claros\n")
	b.WriteString("- Usa un lenguaje claro y conciso\n")
	b.WriteString("- La extensión debe ser de aproximadamente 1000-1500 palabras")
	return b.String()
}

// BuildGuideFromText asks for a guide based exclusively on text.
func BuildGuideFromText(text string, d models.Difficulty) string {
	var b strings.Builder
	b.WriteString("Basado en el siguiente texto, crea una guía de estudio detallada y estructurada:\n\n")
	writeSourceText(&b, text)
	writeDifficulty(&b, d, guideDifficulty)
	b.WriteString("La guía debe estar basada exclusivamente en el contenido del texto proporcionado y debe incluir:\n")
	b.WriteString("1. Una introducción al tema basada en el texto\n")
	b.WriteString("2. Conceptos clave extraídos del texto\n")
	b.WriteString("3. Ejemplos prácticos del texto\n")
	b.WriteString("4. Aplicaciones mencionadas en el texto\n")
	b.WriteString("5. Resumen de los puntos más importantes\n")
	b.WriteString("6. Preguntas de repaso basadas en el texto\n\n")
	b.WriteString("Formato de respuesta:\n")
	b.WriteString("- Usa títulos en negrita para las secciones principales\n")
	b.WriteString("- Usa viñetas para listas\n")
	b.WriteString("- Incluye citas directas del texto cuando sea relevante\n")
	b.WriteString("- Usa un lenguaje claro y estructurado\n")
	b.WriteString("- La extensión debe ser de aproximadamente 1000-1500 palabras")
	return b.String()
}

// Build dispatches on mode and source. Callers validate the request first.
func Build(req models.GenerationRequest) string {
	switch {
	case req.Mode == models.ModeGuide && req.FromText():
		return BuildGuideFromText(req.SourceText, req.Difficulty)
	case req.Mode == models.ModeGuide:
		return BuildGuide(req.Topic, req.Difficulty)
	case req.FromText():
		return BuildQuizFromText(req.SourceText, req.Difficulty, req.QuestionCount)
	default:
		return BuildQuiz(req.Topic, req.Difficulty, req.QuestionCount)
	}
}
