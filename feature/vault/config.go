package vault

// Config holds the document vault configuration.
type Config struct {
	// Path is the root directory holding the markdown documents.
	Path string `mapstructure:"path" default:"vault"`
	// AssetDir is the vault-relative directory poster images are
	// stored in and linked from.
	AssetDir string `mapstructure:"asset_dir" default:"assets/posters"`
}
