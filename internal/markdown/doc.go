// Package markdown turns markdown documents with YAML frontmatter into editor
// seeds: frontmatter scalars become page data, the frontmatter `blocks` list
// becomes the initial block list and the body is rendered into a rich text
// block.
package markdown
