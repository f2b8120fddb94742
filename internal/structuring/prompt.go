package structuring

import "encoding/json"

const systemPrompt = `You are an expert text-to-JSON extractor specialized in parsing structured educational documents such as school timetables and schedules.

- Extract all time blocks for each day of the week.
- Format times as HH:MM in 24-hour format (e.g. "09:00", "14:30").
- Identify subjects, locations (rooms), teacher names, and any additional notes.
- Group activities strictly by day of the week, Monday through Sunday.
- A day with no activities is an empty array, never a missing key.
- Recurring fixed events found in the source (registration, break, lunch, story time, and similar) must be added to every day on which they recur.
- Be thorough and extract all available information across all the days.
- Return ONLY JSON that matches the provided JSON Schema.`

const workedExample = `Example input:

### Monday
- 09:00-10:00: Mathematics (Room 101, Mr. X)
- 10:15-11:15: Physics (Room 102)

### Tuesday
- 09:00-10:00: English (Ms. Y)

### Wednesday
- 11:30-12:30: Break

Expected JSON output:

{
  "title": "Timetable",
  "schedule": {
    "monday": [
      {"startTime": "09:00", "endTime": "10:00", "subject": "Mathematics", "location": "Room 101", "teacherName": "Mr. X"},
      {"startTime": "10:15", "endTime": "11:15", "subject": "Physics", "location": "Room 102"},
      {"startTime": "11:30", "endTime": "12:30", "subject": "Break"}
    ],
    "tuesday": [
      {"startTime": "09:00", "endTime": "10:00", "subject": "English", "teacherName": "Ms. Y"},
      {"startTime": "11:30", "endTime": "12:30", "subject": "Break"}
    ],
    "wednesday": [
      {"startTime": "11:30", "endTime": "12:30", "subject": "Break"}
    ]
  }
}`

// BuildPrompt assembles the structuring conversation: instructions, one
// worked example, the machine-generated schema, and the extracted text.
func BuildPrompt(extractedText string) []Message {
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "system", Content: workedExample},
		{Role: "system", Content: "JSON Schema:\n" + mustJSON(BuildTimetableJSONSchema())},
		{Role: "user", Content: "Extracted document text:\n\n" + extractedText},
	}
}

// BuildFixPrompt asks the model to repair a previous non-JSON response.
func BuildFixPrompt(raw string) []Message {
	return []Message{
		{Role: "system", Content: "The previous output was not valid JSON. Return ONLY valid JSON matching the schema below, with no surrounding text."},
		{Role: "system", Content: "JSON Schema:\n" + mustJSON(BuildTimetableJSONSchema())},
		{Role: "user", Content: raw},
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
