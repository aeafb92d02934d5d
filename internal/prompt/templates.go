package prompt

// Catalogue is the static template listing served to clients.
type Catalogue struct {
	Templates map[string]map[string]string `json:"templates"`
	Usage     string                       `json:"usage"`
}

// Templates returns a fresh copy of the catalogue.
func Templates() Catalogue {
	return Catalogue{
		Templates: map[string]map[string]string{
			"quiz": {
				"basic":        "Genera preguntas básicas sobre {topic}",
				"intermediate": "Crea preguntas de nivel intermedio sobre {topic}",
				"advanced":     "Desarrolla preguntas avanzadas sobre {topic}",
			},
			"guide": {
				"summary":   "Crea un resumen completo sobre {topic}",
				"detailed":  "Genera una guía detallada sobre {topic}",
				"practical": "Desarrolla ejemplos prácticos sobre {topic}",
			},
		},
		Usage: "Reemplaza {topic} con tu tema específico",
	}
}
