// Package vault reads and writes markdown documents with YAML
// frontmatter. Frontmatter updates preserve the existing key order and
// leave the document body untouched.
package vault
