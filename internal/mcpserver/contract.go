package mcpserver

// NoteFormatContract describes the records the tools accept and return so
// that LLM consumers write notes the editor can open.
const NoteFormatContract = `# Recallify Note Format Contract

Recallify stores two kinds of records: subjects and notes. Every note belongs
to exactly one subject.

## Subject

` + "```" + `json
{
  "id": "generated uuid, never supplied by the caller",
  "name": "Display name, need not be unique",
  "color_hex": "#6366f1",
  "created_at": "2025-01-15T09:30:00.000000000Z",
  "updated_at": "2025-01-15T09:30:00.000000000Z"
}
` + "```" + `

## Note

` + "```" + `json
{
  "id": "generated uuid",
  "subject_id": "id of an existing subject",
  "title": "Derivatives",
  "content_json": "{\"type\":\"doc\",\"content\":[...]}",
  "plain_text": "chain rule examples",
  "created_at": "...",
  "updated_at": "..."
}
` + "```" + `

## Rules

1. **Create the subject first.** ` + "`" + `create_note` + "`" + ` fails with an integrity error
   when ` + "`" + `subject_id` + "`" + ` does not exist.
2. **content_json is opaque.** It is the editor document serialized as a JSON
   string and is stored exactly as given. New notes start with ` + "`" + `{}` + "`" + `.
3. **plain_text drives search.** The store never derives it from content_json;
   always send the flattened text of the document with ` + "`" + `update_note` + "`" + `.
4. **update_note replaces all three fields** (title, content_json, plain_text).
   Read the note first if you only want to change one of them.
5. **Deletes are idempotent.** Deleting a subject also deletes all of its notes.
6. **Search** matches a substring of title or plain_text, returns at most 20
   notes, most recently updated first. An empty query returns the latest notes.
7. Timestamps are UTC RFC 3339 strings set by the store.
`
