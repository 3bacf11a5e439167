package triage

import "fmt"

// analysisPrompt asks the model to classify the content as a single JSON
// object. Models sometimes wrap the object in prose anyway, which is why the
// analysis stage extracts the outermost braces before decoding.
func analysisPrompt(text string) string {
	return fmt.Sprintf(`Return valid JSON only - no markdown or prose.

{
  "content_type": "news|blog|social_media|research|opinion",
  "language": "en",
  "topics": ["t1","t2"],
  "entities": [{"name":"n","type":"ORG","confidence":0.95}],
  "sentiment": {"positive":0,"negative":0,"neutral":1,"confidence":0.9},
  "summary": "...",
  "key_claims": [],
  "writing_style": "formal|informal"
}

Analyse: %s

JSON:`, text)
}

// riskPrompt asks for a strict three-key JSON object. The completion runs in
// JSON mode, so the risk stage decodes the response as-is.
func riskPrompt(text string) string {
	return fmt.Sprintf(`Analyse the following content and return ONLY a JSON object with exactly these keys: "risk_level" (low|medium|high|critical), "confidence" (0-1 float), "reason" (short string).

Content:
%s

JSON:`, text)
}
