// Package storage provides the object storage client used for poster
// images.
//
// The Client interface wraps the Minio SDK operations the poster store
// needs: existence checks, uploads, downloads, and removal. A testify
// mock lives in the mocks subpackage.
package storage
