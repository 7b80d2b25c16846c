package openai

import "fmt"

const systemPrompt = `You are a precise information extraction system.
You must return ONLY valid JSON.
Do not include explanations, markdown, or extra text.`

const analysisPromptTemplate = `Analyze the following news article and return a JSON object with this exact structure:

{
  "summary": "3-5 sentence concise summary",
  "topics": ["topic1", "topic2", "topic3"]
}

Rules:
- Output ONLY JSON
- No markdown
- No trailing text
- Topics must be 3-7 short lowercase strings

Article title:
%s

Article text:
%s`

// buildAnalysisPrompt assembles the user prompt for one article.
func buildAnalysisPrompt(title, text string) string {
	return fmt.Sprintf(analysisPromptTemplate, title, text)
}
