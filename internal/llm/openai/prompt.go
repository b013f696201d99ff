package openai

import "fmt"

const systemMessage = "You are a helpful assistant that responds exactly with the requested JSON."

// The merge policy depends on these exact field names; any provider swap must
// keep prompting for this shape.
const instructionTemplate = `
You are a precise resume parser. Input is raw resume text. Return ONLY a single valid JSON object (no explanation).
Schema:
{ "file_name": "string or null", "name": "string or null", "email": "string or null", "phone": "string or null", "skills": ["string"], "total_years_experience": integer or null, "summary": "string or null" }
Now parse the resume below and output only the JSON object.

----RESUME----
%s
----END----
`

// BuildInstruction wraps raw resume text in the fixed parsing instruction.
func BuildInstruction(resumeText string) string {
	return fmt.Sprintf(instructionTemplate, resumeText)
}
