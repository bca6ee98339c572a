package mcpserver

// InlineFieldsContract explains how wunjo reads list items and inline
// fields, so LLM consumers can write notes that show up in mentions tables.
const InlineFieldsContract = `# wunjo Inline Fields

wunjo builds "mentions" tables from Markdown list items. A list item shows
up in the table of a subject when it links to the subject, carries one of its
tags, or names it in an inline field.

## List items

- Every bullet or numbered item is one row candidate. Nested items are
  separate candidates.
- Task checkboxes (` + "`- [ ]`" + `, ` + "`- [x]`" + `) are allowed; the box is not shown.
- The nearest heading above an item becomes its section, used in the
  "Where" column as ` + "`[[path#section]]`" + `.

## Inline fields

` + "```" + `markdown
- Call with [[Alice]] [status:: done] (project:: [[Apollo]])
- Budget review
  owner:: [[Bob]], [[Carol]]
` + "```" + `

1. ` + "`[key:: value]`" + ` and ` + "`(key:: value)`" + ` may appear anywhere in the item text.
   They are removed from the "Content" column and listed under
   "Links & Metadata" as ` + "`**Key**: value`" + `.
2. A line that is entirely ` + "`key:: value`" + ` is a field too.
3. A value made of comma-separated wikilinks becomes a list of links.
4. A repeated key collects all of its values.
5. Keys are matched case-insensitively against promoted columns and hidden
   keys. Structural keys such as ` + "`text`" + `, ` + "`tags`" + `, ` + "`path`" + ` and ` + "`line`" + ` are
   never shown.

## Subjects

- A document subject matches by path (without ` + "`.md`" + `) or by file name,
  case-insensitively: ` + "`people/Alice`" + `, ` + "`Alice`" + ` and ` + "`[[Alice|Al]]`" + ` are the same.
- A ` + "`#tag`" + ` subject matches items carrying the tag.
- Links to the subject itself are left out of "Links & Metadata"; links to
  other documents are shown with those documents' tags.
`
