// Package utils contains small conversion helpers for loosely-typed
// frontmatter values. YAML frontmatter yields any-typed scalars and
// lists; these helpers normalize them for comparison and display.
package utils
