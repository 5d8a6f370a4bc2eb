// Package posters mirrors catalog poster images into object storage
// and hands the bytes to the sync pass for local embedding.
package posters
