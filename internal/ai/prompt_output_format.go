package ai

// GetOutputFormatJSON returns the record schema every details provider must follow
func GetOutputFormatJSON() string {
	return `OUTPUT FORMAT:
{
  "name": "Standardized Medicine Name",
  "category": "Pharmacological Category",
  "manufacturer": "Manufacturing Company",
  "description": "Concise summary (max 2 sentences).",
  "uses": ["Use 1", "Use 2", "Use 3"],
  "sideEffects": ["Effect 1", "Effect 2", "Effect 3"],
  "warnings": ["Warning 1", "Warning 2", "Warning 3"],
  "dosage": "Standard adult dosage",
  "alternatives": {
    "generic": "Generic Composition Name",
    "similar": ["Brand 1", "Brand 2"]
  },
  "substitutes": ["Sub 1", "Sub 2"]
}`
}

// GetDetailsRules returns the answer rules, including the not-found sentinel
func GetDetailsRules() string {
	return `RULES:
1. Return ONLY the JSON object.
2. If medicine not found, return: {"error": true}
3. "substitutes" should be Indian brands.
4. "manufacturer" should be the most well-known manufacturer.`
}
