// Package narrative fulfills the dashboard's narrative-text contract:
// given an entity (the whole plan, one strategic line, or one indicator)
// plus its metrics and history, produce a short analyst text. Generation is
// cached by entity key and degrades to a placeholder whenever the model is
// unavailable; it never blocks or fails the aggregation pipeline.
package narrative

import "context"

// Provider is the interface every text-generation backend implements.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// Placeholder is the text substituted when no provider is configured or the
// configured one failed. The dashboard stays fully renderable around it.
const Placeholder = `**Análisis automático no disponible**

Para habilitar el análisis inteligente con IA:

1. Obtenga una API Key de Gemini en aistudio.google.com
2. Cree un archivo .env en el directorio del proyecto
3. Agregue: GEMINI_API_KEY=su_api_key_aqui
4. Reinicie la aplicación

El análisis con IA proporciona insights sobre tendencias, brechas y recomendaciones estratégicas.`
