package mcpserver

// ManuscriptFormatContract describes the heading conventions the
// segmenter recognizes, for LLM consumers composing manuscripts.
const ManuscriptFormatContract = `# Folium Manuscript Format Contract

Manuscripts are plain text (.txt or .md). The segmenter splits them into
chapters at heading lines; everything between two headings becomes one
chapter body.

## Recognized heading conventions

A line starts a new chapter when it matches one of these, checked in
order:

1. **Markdown heading** — one to three hashes: ` + "`" + `# Title` + "`" + `, ` + "`" + `## Title` + "`" + `, ` + "`" + `### Title` + "`" + `
2. **Numbered chapter** — ` + "`" + `Chapter 1: Title` + "`" + `, ` + "`" + `CHAPTER IV. Title` + "`" + `, ` + "`" + `Ch. 2 Title` + "`" + `
   (arabic or roman numerals; the separator after the number is optional)
3. **Named section** — ` + "`" + `Introduction` + "`" + `, ` + "`" + `Prologue` + "`" + `, ` + "`" + `Epilogue` + "`" + `, ` + "`" + `Preface` + "`" + `,
   ` + "`" + `Foreword` + "`" + `, ` + "`" + `Afterword` + "`" + `, optionally followed by a subtitle
4. **ALL-CAPS line** — a line of at least four upper-case characters
   (letters, digits, spaces and simple punctuation), e.g. ` + "`" + `THE LONG ROAD HOME` + "`" + `

## Rules

1. Text before the first heading is discarded.
2. A manuscript with no recognized headings becomes a single chapter
   titled "Introduction".
3. Chapters with empty bodies are dropped.
4. Each chapter gets a URL slug derived from its title (lower-case,
   hyphen-separated). Duplicate titles get ` + "`" + `-2` + "`" + `, ` + "`" + `-3` + "`" + `, ... suffixes.
5. Each chapter gets a short description: the opening of its body,
   cut at a sentence boundary where possible.
6. Chapter bodies may use standard Markdown; the reader renders it
   as HTML.

## Example

` + "```" + `text
## The Meeting

They met at noon on the old stone bridge.

Chapter 2: The Parting

By evening the rain had started.

EPILOGUE

Years later, the bridge was gone.
` + "```" + `

This segments into three chapters: ` + "`" + `the-meeting` + "`" + `, ` + "`" + `the-parting` + "`" + `
and ` + "`" + `epilogue` + "`" + `.
`
