package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/marketscout/ai"
)

const entityResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {
            "type": "string"
          },
          "label": {
            "type": "string"
          }
        },
        "required": ["text", "label"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`

const entityPromptTemplate = `Identify the named entities in the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- List entities in the order they first appear in the text.
- The text field must copy the entity exactly as written in the input, without adding words.
- The label field must match exactly one of the listed values: %s.
- Use ORG for companies, banks, exchanges and other organizations. Use PRODUCT for named products and brands.
- Include only entities that are explicitly mentioned. Do not hallucinate.
- If no entities can be identified, return "entities": [].

Example:
Input: "tell me about nvidia stock"
Output:
{
  "entities": [
    {"text":"nvidia","label":"ORG"}
  ]
}

Example:
Input: "how did the iphone affect apple and samsung in korea"
Output:
{
  "entities": [
    {"text":"iphone","label":"PRODUCT"},
    {"text":"apple","label":"ORG"},
    {"text":"samsung","label":"ORG"},
    {"text":"korea","label":"GPE"}
  ]
}

Example:
Input: "what is a good savings rate"
Output:
{
  "entities": []
}`

// buildEntityPrompt creates the system prompt with entity labels embedded.
func buildEntityPrompt() string {
	return fmt.Sprintf(entityPromptTemplate,
		entityResponseSchema,
		strings.Join(ai.EntityLabels, ", "))
}
