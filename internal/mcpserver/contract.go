package mcpserver

// CaptureFormat describes how captured fields end up in a note.
const CaptureFormat = `# Ansuz Capture Format

A capture writes to the note named by ` + "`" + `title` + "`" + ` in the chosen vault.

## Where it goes

1. The vault is searched for a file named ` + "`" + `<title>.md` + "`" + ` in any folder.
   Folders starting with ` + "`" + `.git` + "`" + `, ` + "`" + `.obsidian` + "`" + `, ` + "`" + `.trash` + "`" + `, ` + "`" + `.excalidraw` + "`" + ` or ` + "`" + `.mobile` + "`" + `
   are skipped, as are Excalidraw drawings.
2. If found, the capture is **appended** to that note, in its existing folder.
   When several notes share the title, the first one found wins.
3. Otherwise a **new** note is created in ` + "`" + `folder` + "`" + ` (default: the last used folder,
   or ` + "`" + `inbox` + "`" + `).

## Layout

Fields are written in this order, separated by blank lines, and omitted when empty:

` + "```" + `markdown
#### New Thought        <- only when appending
<body>

[<link_label>](<link_url>)

> <highlight>
` + "```" + `

- ` + "`" + `link_label` + "`" + ` falls back to the URL.
- Every line of a multi-line highlight is quoted.

## Delivery

The note is written by Obsidian itself through the Advanced URI plugin:

` + "```" + `
obsidian://advanced-uri?vault=<vault>&filepath=<folder>/<title>.md&data=<text>[&mode=append]
` + "```" + `

Only vaults with the ` + "`" + `obsidian-advanced-uri` + "`" + ` community plugin enabled can receive captures.
`
